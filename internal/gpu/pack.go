package gpu

import (
	"encoding/binary"
	"math"

	"blockmesh/internal/meshing"
	"blockmesh/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

// IndexWidth is the size in bytes of one packed index.
type IndexWidth uint8

const (
	Index16 IndexWidth = 2
	Index32 IndexWidth = 4
)

// MaxIndex16Vertices is the largest vertex count addressed with 16-bit indices.
const MaxIndex16Vertices = 65535

// IndexWidthFor returns the index width for a mesh of n vertices.
func IndexWidthFor(n int) IndexWidth {
	if n <= MaxIndex16Vertices {
		return Index16
	}
	return Index32
}

// PackVertices interleaves vertices little-endian according to l.
func PackVertices(vertices []meshing.Vertex, l Layout) []byte {
	out := make([]byte, 0, len(vertices)*l.Stride())
	var frame [2]mgl32.Vec3
	for i, v := range vertices {
		out = appendFloats(out, v.Position[:]...)
		if l.Has(TexCoord) {
			out = appendFloats(out, v.TexCoord[:]...)
		}
		if l.Has(AtlasUV) {
			out = appendFloats(out, v.AtlasRange[:]...)
		}
		if l.Has(Tangent) {
			if i%4 == 0 {
				frame = quadFrame(vertices, i)
			}
			out = appendFloats(out, frame[0][:]...)
			out = appendFloats(out, frame[1][:]...)
		}
		if l.Has(Color) {
			out = binary.LittleEndian.AppendUint32(out, v.Color)
		}
		if l.Has(FaceIndex) {
			out = append(out, v.Face, 0, 0, 0)
		}
	}
	return out
}

// PackIndices writes indices at the width chosen for vertexCount.
func PackIndices(indices []uint32, vertexCount int) ([]byte, IndexWidth) {
	w := IndexWidthFor(vertexCount)
	out := make([]byte, 0, len(indices)*int(w))
	for _, idx := range indices {
		if w == Index16 {
			out = binary.LittleEndian.AppendUint16(out, uint16(idx))
		} else {
			out = binary.LittleEndian.AppendUint32(out, idx)
		}
	}
	return out, w
}

func appendFloats(b []byte, fs ...float32) []byte {
	for _, f := range fs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

// quadFrame returns the normal and tangent shared by the four vertices of the
// quad starting at i. Cube faces use their axis frame; planes derive it from
// the quad's edges.
func quadFrame(vertices []meshing.Vertex, i int) [2]mgl32.Vec3 {
	f := vertices[i].Face
	if f < registry.NumFaces {
		face := registry.Face(f)
		var t mgl32.Vec3
		if face.Axis() == 0 {
			t[1] = 1
		} else {
			t[0] = 1
		}
		return [2]mgl32.Vec3{face.Normal(), t}
	}
	if i+3 >= len(vertices) {
		return [2]mgl32.Vec3{}
	}
	p0 := vertices[i].Position
	e0 := vertices[i+1].Position.Sub(p0)
	e1 := vertices[i+3].Position.Sub(p0)
	n := e0.Cross(e1)
	if n.Len() == 0 || e0.Len() == 0 {
		return [2]mgl32.Vec3{}
	}
	return [2]mgl32.Vec3{n.Normalize(), e0.Normalize()}
}
