package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"blockmesh/internal/meshing"
	"blockmesh/internal/registry"
	"blockmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stoneMesh(t *testing.T) *meshing.Mesh {
	t.Helper()
	v := world.NewSized(2, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Stone)
	v.SetBlock(1, 0, 0, registry.Glass)
	m := meshing.NewBuilderForVolume(v, [registry.NumFaces][]registry.BlockType{}).GenerateRenderMesh()
	require.False(t, m.Empty())
	return m
}

func TestStride(t *testing.T) {
	assert.Equal(t, 12, Layout(0).Stride())
	assert.Equal(t, 20, TexCoord.Stride())
	assert.Equal(t, 16, LayoutCollision.Stride())
	assert.Equal(t, 12+8+16+24+4+4, LayoutFull.Stride())
	assert.Equal(t, "position+texcoord+color", (TexCoord | Color).String())
}

func TestAttributesAreContiguous(t *testing.T) {
	attrs := LayoutFull.Attributes()
	require.Len(t, attrs, 7)
	sizes := map[AttrKind]int{Float32: 4, UNorm8: 1, Uint8: 1}
	offset := 0
	for i, a := range attrs {
		assert.Equal(t, uint32(i), a.Location, a.Name)
		assert.Equal(t, offset, a.Offset, a.Name)
		offset += a.Components * sizes[a.Kind]
	}
	// Face byte plus padding.
	assert.Equal(t, LayoutFull.Stride(), offset+3)

	attrs = (AtlasUV | FaceIndex).Attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, "face", attrs[2].Name)
	assert.Equal(t, 28, attrs[2].Offset)
}

func float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestPackVerticesIsLossless(t *testing.T) {
	m := stoneMesh(t)
	data := PackVertices(m.Vertices, LayoutFull)
	stride := LayoutFull.Stride()
	require.Len(t, data, len(m.Vertices)*stride)

	for i, v := range m.Vertices {
		b := data[i*stride:]
		for k := 0; k < 3; k++ {
			assert.Equal(t, v.Position[k], float32At(b, 4*k))
		}
		assert.Equal(t, v.TexCoord, mgl32.Vec2{float32At(b, 12), float32At(b, 16)})
		assert.Equal(t, v.AtlasRange, mgl32.Vec4{float32At(b, 20), float32At(b, 24), float32At(b, 28), float32At(b, 32)})
		n := mgl32.Vec3{float32At(b, 36), float32At(b, 40), float32At(b, 44)}
		assert.Equal(t, registry.Face(v.Face).Normal(), n)
		assert.Equal(t, v.Color, binary.LittleEndian.Uint32(b[60:]))
		assert.Equal(t, v.Face, b[64])
		assert.Equal(t, []byte{0, 0, 0}, b[65:68])
	}
}

func TestPlaneTangentFrame(t *testing.T) {
	v := world.NewSized(1, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.TallGrass)
	m := meshing.NewBuilderForVolume(v, [registry.NumFaces][]registry.BlockType{}).GenerateRenderMesh()

	data := PackVertices(m.Vertices, Tangent)
	stride := Tangent.Stride()
	for i := range m.Vertices {
		b := data[i*stride:]
		n := mgl32.Vec3{float32At(b, 12), float32At(b, 16), float32At(b, 20)}
		tg := mgl32.Vec3{float32At(b, 24), float32At(b, 28), float32At(b, 32)}
		assert.InDelta(t, 1, n.Len(), 1e-5)
		assert.InDelta(t, 1, tg.Len(), 1e-5)
		assert.InDelta(t, 0, n.Dot(tg), 1e-5)
		assert.InDelta(t, 0, n.Z(), 1e-5)
	}
}

func TestPackIndicesWidth(t *testing.T) {
	data, w := PackIndices([]uint32{0, 1, 65534}, 65535)
	assert.Equal(t, Index16, w)
	assert.Equal(t, []byte{0, 0, 1, 0, 0xFE, 0xFF}, data)

	data, w = PackIndices([]uint32{65535, 2}, 65536)
	assert.Equal(t, Index32, w)
	assert.Equal(t, []byte{0xFF, 0xFF, 0, 0, 2, 0, 0, 0}, data)
}

func TestCreateDeviceResources(t *testing.T) {
	m := stoneMesh(t)
	f := &MemoryBufferFactory{}
	dm, err := CreateDeviceResources(m, f, LayoutFull)
	require.NoError(t, err)

	assert.NotZero(t, dm.VertexBuffer)
	assert.NotZero(t, dm.IndexBuffer)
	assert.Equal(t, Index16, dm.IndexWidth)
	assert.Equal(t, len(m.Triangles)*3, dm.IndexCount)
	assert.Equal(t, m.Batches, dm.Batches)
	assert.Equal(t, m.Bounds, dm.Bounds)
	assert.Equal(t, 2, f.Live())

	vb, _, ok := f.Buffer(dm.VertexBuffer)
	require.True(t, ok)
	assert.Len(t, vb, len(m.Vertices)*LayoutFull.Stride())
	ib, w, ok := f.Buffer(dm.IndexBuffer)
	require.True(t, ok)
	assert.Equal(t, Index16, w)
	assert.Len(t, ib, dm.IndexCount*2)
	assert.Equal(t, len(vb)+len(ib), f.Bytes())

	dm.Release(f)
	assert.Zero(t, f.Live())
	assert.Zero(t, dm.VertexBuffer)
}

func TestCreateDeviceResourcesFailureAndRetry(t *testing.T) {
	m := stoneMesh(t)
	before := append([]meshing.Vertex(nil), m.Vertices...)

	bad := &MemoryBufferFactory{FailVertex: true}
	_, err := CreateDeviceResources(m, bad, LayoutFull)
	require.ErrorIs(t, err, ErrBufferCreation)
	assert.Zero(t, bad.Live())

	bad = &MemoryBufferFactory{FailIndex: true}
	_, err = CreateDeviceResources(m, bad, LayoutFull)
	require.ErrorIs(t, err, ErrBufferCreation)
	assert.Contains(t, err.Error(), "index buffer")
	assert.Zero(t, bad.Live(), "vertex buffer released")

	assert.Equal(t, before, m.Vertices)
	good := &MemoryBufferFactory{}
	dm, err := CreateDeviceResources(m, good, LayoutCollision)
	require.NoError(t, err)
	assert.False(t, dm.Empty())
}

func TestCreateDeviceResourcesEmptyMesh(t *testing.T) {
	f := &MemoryBufferFactory{FailVertex: true, FailIndex: true}
	dm, err := CreateDeviceResources(&meshing.Mesh{}, f, LayoutFull)
	require.NoError(t, err)
	assert.True(t, dm.Empty())
	assert.Zero(t, dm.VertexBuffer)
	assert.Zero(t, f.Live())
}
