package meshing

import (
	"math"
	"math/rand"
	"testing"

	"blockmesh/internal/registry"
	"blockmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(v *world.Volume, ao bool) *Builder {
	b := NewBuilderForVolume(v, [registry.NumFaces][]registry.BlockType{})
	b.AmbientOcclusion = ao
	return b
}

// quad is one emitted quad reconstructed from its four vertices.
type quad struct {
	face     registry.Face
	min, max mgl32.Vec3
}

func quads(t *testing.T, m *Mesh) []quad {
	t.Helper()
	var out []quad
	for i := 0; i+4 <= len(m.Vertices); i += 4 {
		q := quad{face: registry.Face(m.Vertices[i].Face), min: m.Vertices[i].Position, max: m.Vertices[i].Position}
		for _, v := range m.Vertices[i+1 : i+4] {
			require.Equal(t, m.Vertices[i].Face, v.Face)
			for a := 0; a < 3; a++ {
				q.min[a] = min(q.min[a], v.Position[a])
				q.max[a] = max(q.max[a], v.Position[a])
			}
		}
		out = append(out, q)
	}
	return out
}

func countFaces(qs []quad) map[registry.Face]int {
	out := map[registry.Face]int{}
	for _, q := range qs {
		out[q.face]++
	}
	return out
}

func TestTwoBlocksMergeEndToEnd(t *testing.T) {
	v := world.NewSized(2, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Stone)
	v.SetBlock(1, 0, 0, registry.Stone)

	m := newBuilder(v, true).GenerateRenderMesh()
	require.Len(t, m.Vertices, 24)
	require.Len(t, m.Triangles, 12)

	qs := quads(t, m)
	for _, q := range qs {
		switch q.face {
		case registry.FaceNegX:
			assert.Equal(t, float32(0), q.min.X())
		case registry.FacePosX:
			assert.Equal(t, float32(2), q.min.X())
		default:
			// One 2x1 quad per face sharing the merge axis.
			assert.Equal(t, float32(0), q.min.X())
			assert.Equal(t, float32(2), q.max.X())
		}
	}
	assert.Equal(t, map[registry.Face]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1, 5: 1}, countFaces(qs))

	require.Len(t, m.Batches, 1)
	assert.Equal(t, Batch{Material: 0, StartIndex: 0, IndexCount: 36, DrawShadows: true}, m.Batches[0])
	for _, tri := range m.Triangles {
		assert.Zero(t, tri.Material&ShadowBit)
	}

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, m.Bounds.Min)
	assert.Equal(t, mgl32.Vec3{2, 1, 1}, m.Bounds.Max)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0.5}, m.Sphere.Center)
	assert.InDelta(t, math.Sqrt(6)/2, m.Sphere.Radius, 1e-6)

	// Open corners everywhere: full brightness, stone color.
	for _, vert := range m.Vertices {
		assert.Equal(t, packColor(mgl32.Vec4{0.5, 0.5, 0.5, 1}), vert.Color)
	}
}

func TestTexCoordsTileWithRun(t *testing.T) {
	v := world.NewSized(3, 1, 1, 1, registry.Default())
	for x := 0; x < 3; x++ {
		v.SetBlock(x, 0, 0, registry.Dirt)
	}
	m := newBuilder(v, false).GenerateRenderMesh()
	var maxU float32
	for _, vert := range m.Vertices {
		if vert.Face == uint8(registry.FacePosZ) {
			maxU = max(maxU, vert.TexCoord.X())
			assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, vert.AtlasRange)
		}
	}
	assert.Equal(t, float32(3), maxU)
}

func TestWindingFacesOutward(t *testing.T) {
	v := world.NewSized(1, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Stone)
	m := newBuilder(v, false).GenerateRenderMesh()
	require.Len(t, m.Triangles, 12)
	for _, tri := range m.Triangles {
		p0 := m.Vertices[tri.Indices[0]].Position
		p1 := m.Vertices[tri.Indices[1]].Position
		p2 := m.Vertices[tri.Indices[2]].Position
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		assert.Greater(t, n.Dot(registry.Face(tri.Face).Normal()), float32(0), "face %d", tri.Face)
	}
}

func TestOpaqueNeighborCullsFace(t *testing.T) {
	v := world.NewSized(2, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Stone)
	v.SetBlock(1, 0, 0, registry.Dirt)
	qs := quads(t, newBuilder(v, false).GenerateRenderMesh())
	for _, q := range qs {
		if q.face.Axis() == 0 {
			assert.NotEqual(t, float32(1), q.min.X(), "face between opaque cubes")
		}
	}
	// Different ids never merge.
	assert.Equal(t, 10, len(qs))
}

func TestTransparentNeighborsKeepSharedFaces(t *testing.T) {
	reg := registry.Default()
	reg.MustRegister(&registry.Descriptor{
		ID:    20,
		Name:  "ice",
		Shape: registry.ShapeCube,
		Flags: registry.FlagVisible | registry.FlagCollidable,
		Faces: registry.SolidFaces(registry.FaceVisual{Color: mgl32.Vec4{1, 1, 1, 0.5}, Material: reg.Material("ice")}),
	})
	v := world.NewSized(2, 1, 1, 1, reg)
	v.SetBlock(0, 0, 0, registry.Glass)
	v.SetBlock(1, 0, 0, 20)

	qs := quads(t, newBuilder(v, false).GenerateRenderMesh())
	shared := 0
	for _, q := range qs {
		if q.face.Axis() == 0 && q.min.X() == 1 {
			shared++
		}
	}
	assert.Equal(t, 2, shared)
}

func TestMergeableVolumeSuppressesInternalFaces(t *testing.T) {
	v := world.NewSized(2, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Water)
	v.SetBlock(1, 0, 0, registry.Water)

	m := newBuilder(v, true).GenerateRenderMesh()
	qs := quads(t, m)
	require.Len(t, qs, 6)
	for _, q := range qs {
		if q.face.Axis() == 0 {
			assert.NotEqual(t, float32(1), q.min.X())
		}
		// Lone water is drawn at slab height.
		if q.face != registry.FaceNegZ {
			assert.InDelta(t, 0.875, q.max.Z(), 1e-6)
		}
	}
	require.Len(t, m.Batches, 1)
	assert.False(t, m.Batches[0].DrawShadows)
	assert.Equal(t, uint32(5), m.Batches[0].Material)
}

func TestMergeableSlabColumn(t *testing.T) {
	v := world.NewSized(1, 1, 2, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Water)
	v.SetBlock(0, 0, 1, registry.Water)

	qs := quads(t, newBuilder(v, false).GenerateRenderMesh())
	c := countFaces(qs)
	assert.Equal(t, 1, c[registry.FacePosZ])
	assert.Equal(t, 1, c[registry.FaceNegZ])
	for f := registry.FaceNegX; f <= registry.FacePosY; f++ {
		assert.Equal(t, 2, c[f], "face %v", f)
	}
	for _, q := range qs {
		switch {
		case q.face == registry.FacePosZ:
			assert.InDelta(t, 1.875, q.min.Z(), 1e-6)
		case q.face == registry.FaceNegZ:
			assert.Equal(t, float32(0), q.min.Z())
		case q.min.Z() == 0:
			// Lower cell is covered by water: full height.
			assert.Equal(t, float32(1), q.max.Z())
		default:
			assert.InDelta(t, 1.875, q.max.Z(), 1e-6)
		}
	}
}

func TestSlabUnderCube(t *testing.T) {
	v := world.NewSized(1, 1, 2, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.StoneSlab)
	v.SetBlock(0, 0, 1, registry.Stone)

	qs := quads(t, newBuilder(v, false).GenerateRenderMesh())
	c := countFaces(qs)
	// Slab top stays (gap below the cube), cube bottom stays (slab is not a cube).
	assert.Equal(t, 2, c[registry.FacePosZ])
	assert.Equal(t, 2, c[registry.FaceNegZ])
	for _, q := range qs {
		if q.face == registry.FacePosZ && q.min.Z() < 1 {
			assert.Equal(t, float32(0.5), q.min.Z())
		}
		if q.face.IsSide() && q.min.Z() == 0 {
			assert.Equal(t, float32(0.5), q.max.Z())
		}
	}
}

func TestSlabSidesDoNotMergeVertically(t *testing.T) {
	reg := registry.Default()
	v := world.NewSized(2, 1, 2, 1, reg)
	// Non-mergeable slabs stacked: every one is short, sides stay per cell.
	for x := 0; x < 2; x++ {
		v.SetBlock(x, 0, 0, registry.StoneSlab)
		v.SetBlock(x, 0, 1, registry.StoneSlab)
	}
	qs := quads(t, newBuilder(v, false).GenerateRenderMesh())
	c := countFaces(qs)
	assert.Equal(t, 2, c[registry.FaceNegY])
	// Slabs never cover their neighbors' sides.
	assert.Equal(t, 4, c[registry.FacePosX])
	// Tops merge along X.
	assert.Equal(t, 2, c[registry.FacePosZ])
}

func TestPlaneShape(t *testing.T) {
	v := world.NewSized(1, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.TallGrass)

	m := newBuilder(v, true).GenerateRenderMesh()
	require.Len(t, m.Vertices, 8)
	require.Len(t, m.Triangles, 8)
	for _, vert := range m.Vertices {
		assert.Equal(t, PlaneFace, vert.Face)
	}
	require.Len(t, m.Batches, 1)
	assert.Equal(t, uint32(7), m.Batches[0].Material)
	assert.False(t, m.Batches[0].DrawShadows)

	h := float32(math.Sqrt(2) / 4)
	assert.InDelta(t, 0.5-h, m.Bounds.Min.X(), 1e-5)
	assert.InDelta(t, 0.5+h, m.Bounds.Max.X(), 1e-5)
	assert.InDelta(t, 0.5-h, m.Bounds.Min.Y(), 1e-5)
	assert.InDelta(t, 0, m.Bounds.Min.Z(), 1e-6)
	assert.InDelta(t, 1, m.Bounds.Max.Z(), 1e-6)

	// Each copy is drawn from both sides.
	normals := make([]mgl32.Vec3, len(m.Triangles))
	for i, tri := range m.Triangles {
		p0 := m.Vertices[tri.Indices[0]].Position
		n := m.Vertices[tri.Indices[1]].Position.Sub(p0).Cross(m.Vertices[tri.Indices[2]].Position.Sub(p0))
		normals[i] = n.Normalize()
		assert.InDelta(t, 0, normals[i].Z(), 1e-5)
	}
	for i, n := range normals {
		opposite := 0
		for _, o := range normals {
			if n.Add(o).Len() < 1e-4 {
				opposite++
			}
		}
		assert.Equal(t, 2, opposite, "triangle %d", i)
	}
}

func TestAmbientOcclusionDarkensCorners(t *testing.T) {
	reg := registry.Default()
	v := world.NewSized(3, 3, 2, 1, reg)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			v.SetBlock(x, y, 0, registry.Stone)
		}
	}
	v.SetBlock(0, 0, 1, registry.Stone)

	dim := packColor(mgl32.Vec4{0.5 * Brightness[3], 0.5 * Brightness[3], 0.5 * Brightness[3], 1})
	lit := packColor(mgl32.Vec4{0.5, 0.5, 0.5, 1})

	m := newBuilder(v, true).GenerateRenderMesh()
	seen := 0
	for _, vert := range m.Vertices {
		if vert.Face != uint8(registry.FacePosZ) || vert.Position.Z() != 1 {
			continue
		}
		switch vert.Position {
		case mgl32.Vec3{1, 1, 1}:
			assert.Equal(t, dim, vert.Color)
			seen++
		case mgl32.Vec3{3, 3, 1}:
			assert.Equal(t, lit, vert.Color)
		}
	}
	assert.Positive(t, seen)

	m = newBuilder(v, false).GenerateRenderMesh()
	for _, vert := range m.Vertices {
		assert.Equal(t, lit, vert.Color)
	}
}

func TestAmbientOcclusionSplitsQuads(t *testing.T) {
	v := world.NewSized(3, 1, 2, 1, registry.Default())
	for x := 0; x < 3; x++ {
		v.SetBlock(x, 0, 0, registry.Stone)
	}
	v.SetBlock(2, 0, 1, registry.Stone)

	top := func(ao bool) int {
		return countFaces(quads(t, newBuilder(v, ao).GenerateRenderMesh()))[registry.FacePosZ]
	}
	// Without AO the two open floor tops merge; with AO the one next to
	// the raised block differs from the other.
	assert.Equal(t, 2, top(false))
	assert.Equal(t, 3, top(true))
}

func TestDiagonalFollowsBrighterCorners(t *testing.T) {
	v := world.NewSized(2, 2, 2, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Stone)
	v.SetBlock(1, 1, 1, registry.Stone)
	m := newBuilder(v, true).GenerateRenderMesh()

	for i, tri := range m.Triangles {
		if tri.Face != uint8(registry.FacePosZ) || m.Vertices[tri.Indices[0]].Position.Z() != 1 {
			continue
		}
		// Cell (0,0,0) top: only the (1,1) corner is dimmed, so the split
		// runs between (1,0) and (0,1) and no triangle touches both (0,0)
		// and (1,1).
		var hasLo, hasHi bool
		for _, idx := range tri.Indices {
			p := m.Vertices[idx].Position
			hasLo = hasLo || (p.X() == 0 && p.Y() == 0)
			hasHi = hasHi || (p.X() == 1 && p.Y() == 1)
		}
		assert.False(t, hasLo && hasHi, "triangle %d", i)
	}
}

func TestShadowBitMovesToBatches(t *testing.T) {
	v := world.NewSized(3, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Glass)
	v.SetBlock(2, 0, 0, registry.Stone)

	m := newBuilder(v, false).GenerateRenderMesh()
	require.Len(t, m.Batches, 2)
	assert.Equal(t, uint32(0), m.Batches[0].Material)
	assert.True(t, m.Batches[0].DrawShadows)
	assert.Equal(t, uint32(4), m.Batches[1].Material)
	assert.False(t, m.Batches[1].DrawShadows)
}

func randomVolume(seed int64, dims [3]int, ids []registry.BlockType) *world.Volume {
	rng := rand.New(rand.NewSource(seed))
	v := world.NewSized(dims[0], dims[1], dims[2], 1, registry.Default())
	for i := range v.Blocks() {
		if rng.Intn(3) != 0 {
			v.Blocks()[i] = ids[rng.Intn(len(ids))]
		}
	}
	return v
}

func TestGreedyMergeCoversPendingFacesExactly(t *testing.T) {
	reg := registry.Default()
	for seed := int64(1); seed <= 5; seed++ {
		v := randomVolume(seed, [3]int{7, 6, 5}, []registry.BlockType{registry.Stone, registry.Dirt, registry.Glass})
		d := v.Dims()

		var want, got [registry.NumFaces]map[[3]int]int
		for f := range want {
			want[f] = map[[3]int]int{}
			got[f] = map[[3]int]int{}
		}
		for z := 0; z < d[2]; z++ {
			for y := 0; y < d[1]; y++ {
				for x := 0; x < d[0]; x++ {
					if v.IsAir(x, y, z) {
						continue
					}
					for f := registry.Face(0); f < registry.NumFaces; f++ {
						o := f.Offset()
						n := [3]int{x + o[0], y + o[1], z + o[2]}
						if v.Contains(n[0], n[1], n[2]) {
							if nd := reg.Get(v.GetBlock(n[0], n[1], n[2])); nd != nil && nd.BlocksVisibility() {
								continue
							}
						}
						want[f][[3]int{x, y, z}] = 1
					}
				}
			}
		}

		for _, q := range quads(t, newBuilder(v, true).GenerateRenderMesh()) {
			a0, a1 := sweepAxes(q.face)
			axis := q.face.Axis()
			var c [3]int
			c[axis] = int(q.min[axis])
			if q.face.Sign() > 0 {
				c[axis]--
			}
			for u := int(q.min[a0]); u < int(q.max[a0]); u++ {
				for w := int(q.min[a1]); w < int(q.max[a1]); w++ {
					c[a0], c[a1] = u, w
					got[q.face][c]++
				}
			}
		}
		for f := range want {
			assert.Equal(t, want[f], got[f], "seed %d face %v", seed, registry.Face(f))
		}
	}
}

func TestBatchesPartitionTriangles(t *testing.T) {
	v := randomVolume(11, [3]int{6, 6, 6}, []registry.BlockType{
		registry.Stone, registry.Grass, registry.Glass, registry.Water, registry.StoneSlab, registry.TallGrass,
	})
	reg := v.Registry.(*registry.Palette)
	m := newBuilder(v, true).GenerateRenderMesh()
	require.NotEmpty(t, m.Batches)

	next := uint32(0)
	for _, b := range m.Batches {
		assert.Equal(t, next, b.StartIndex)
		assert.Zero(t, b.Material&ShadowBit)
		for _, tri := range m.Triangles[b.StartIndex/3 : (b.StartIndex+b.IndexCount)/3] {
			assert.Equal(t, b.Material, tri.Material)
		}
		// Every block type in Default has its own materials.
		for _, id := range reg.IDs() {
			d := reg.Get(id)
			for _, fv := range d.Faces {
				if fv.Material == b.Material && d.Visible() {
					assert.Equal(t, d.CastsShadows(), b.DrawShadows, "material %d", b.Material)
				}
			}
		}
		next += b.IndexCount
	}
	assert.Equal(t, uint32(len(m.Triangles)*3), next)
	assert.Len(t, m.Indices(), int(next))

	for i := 1; i < len(m.Triangles); i++ {
		a, b := m.Triangles[i-1], m.Triangles[i]
		if a.Material == b.Material {
			assert.LessOrEqual(t, a.Indices[0], b.Indices[0])
		} else {
			assert.Less(t, a.Material, b.Material)
		}
	}
}

func TestCollisionMesh(t *testing.T) {
	v := world.NewSized(4, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Glass)
	v.SetBlock(1, 0, 0, registry.Glass)
	v.SetBlock(2, 0, 0, registry.Water)
	v.SetBlock(3, 0, 0, registry.TallGrass)
	b := newBuilder(v, true)

	render := b.GenerateRenderMesh()
	assert.Equal(t, 8+6+2, len(quads(t, render)))

	m := b.GenerateCollisionMesh()
	qs := quads(t, m)
	assert.Len(t, qs, 6)
	for _, q := range qs {
		assert.LessOrEqual(t, q.max.X(), float32(2))
	}
	for _, vert := range m.Vertices {
		assert.Zero(t, vert.Color)
		assert.Equal(t, mgl32.Vec2{}, vert.TexCoord)
		assert.Equal(t, mgl32.Vec4{}, vert.AtlasRange)
	}
	require.Len(t, m.Batches, 1)
	assert.Equal(t, Batch{IndexCount: 36}, m.Batches[0])
}

func TestCollisionIncludesInvisibleAndSlabs(t *testing.T) {
	v := world.NewSized(2, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Barrier)
	v.SetBlock(1, 0, 0, registry.StoneSlab)

	assert.Len(t, newBuilder(v, false).GenerateRenderMesh().Vertices, 6*4)

	qs := quads(t, newBuilder(v, false).GenerateCollisionMesh())
	// Barrier covers the slab's -X side; the slab does not cover the barrier.
	assert.Len(t, qs, 11)
	for _, q := range qs {
		if q.face == registry.FacePosZ && q.min.X() == 1 {
			assert.Equal(t, float32(0.5), q.min.Z())
		}
	}
}

func TestNeighborGridCulling(t *testing.T) {
	v := world.NewSized(1, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Stone)

	b := newBuilder(v, false)
	b.Neighbors[registry.FacePosX] = []registry.BlockType{registry.Stone}
	assert.Len(t, quads(t, b.GenerateRenderMesh()), 5)

	b.Neighbors[registry.FacePosX] = []registry.BlockType{registry.Glass}
	assert.Len(t, quads(t, b.GenerateRenderMesh()), 6)
}

func TestNeighborGridFeedsAO(t *testing.T) {
	v := world.NewSized(2, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Stone)
	v.SetBlock(1, 0, 0, registry.Stone)

	b := newBuilder(v, true)
	b.Neighbors[registry.FacePosZ] = []registry.BlockType{registry.Stone, registry.Air}
	m := b.GenerateRenderMesh()

	tops := 0
	for _, vert := range m.Vertices {
		if vert.Face != uint8(registry.FacePosZ) {
			continue
		}
		tops++
		assert.GreaterOrEqual(t, vert.Position.X(), float32(1), "cell 0 top is covered")
		if vert.Position.X() == 1 {
			assert.Equal(t, packColor(mgl32.Vec4{0.4, 0.4, 0.4, 1}), vert.Color)
		} else {
			assert.Equal(t, packColor(mgl32.Vec4{0.5, 0.5, 0.5, 1}), vert.Color)
		}
	}
	assert.Equal(t, 4, tops)
}

func TestAdjacentTilesCullAcrossBorder(t *testing.T) {
	s := world.NewStore([3]int{2, 1, 1}, 1, registry.Default())
	for x := 0; x < 4; x++ {
		s.Set(x, 0, 0, registry.Stone)
	}
	c := world.TileCoord{}
	b := NewBuilderForVolume(s.Tile(c, false), s.Neighbors(c))
	b.AmbientOcclusion = false
	qs := quads(t, b.GenerateRenderMesh())
	assert.Len(t, qs, 5)
	assert.Zero(t, countFaces(qs)[registry.FacePosX])

	right := world.TileCoord{X: 1}
	b = NewBuilderForVolume(s.Tile(right, false), s.Neighbors(right))
	m := b.GenerateRenderMesh()
	assert.Equal(t, float32(2), m.Bounds.Min.X())
	assert.Equal(t, float32(4), m.Bounds.Max.X())
}

func TestMalformedInputPanics(t *testing.T) {
	v := world.NewSized(2, 2, 1, 1, registry.Default())
	b := newBuilder(v, true)
	b.Neighbors[registry.FaceNegY] = make([]registry.BlockType, 3)
	assert.Panics(t, func() { b.GenerateRenderMesh() })
	assert.Panics(t, func() { b.GenerateCollisionMesh() })

	b = NewBuilder(registry.Default(), [3]int{2, 2, 2}, make([]registry.BlockType, 7))
	assert.Panics(t, func() { b.GenerateRenderMesh() })
}

func TestEmptyVolume(t *testing.T) {
	v := world.New([3]int{4, 5, 6}, [3]int{7, 8, 9}, 2, registry.Default())
	b := newBuilder(v, true)
	m := b.GenerateRenderMesh()
	assert.Empty(t, m.Vertices)
	assert.Empty(t, m.Triangles)
	assert.Empty(t, m.Batches)
	assert.True(t, m.Empty())
	assert.Equal(t, m.Bounds.Min, m.Bounds.Max)
	assert.Equal(t, mgl32.Vec3{8, 10, 12}, m.Bounds.Min)
	assert.Zero(t, m.Sphere.Radius)

	zero := NewBuilder(registry.Default(), [3]int{0, 0, 0}, nil)
	assert.True(t, zero.GenerateRenderMesh().Empty())
	assert.True(t, zero.GenerateCollisionMesh().Empty())
}

func TestNilRegistryMeshesNothing(t *testing.T) {
	v := world.NewSized(2, 2, 2, 1, nil)
	v.SetBlock(0, 0, 0, registry.Stone)
	assert.True(t, newBuilder(v, true).GenerateRenderMesh().Empty())
}

func TestSilhouetteClearsOutputs(t *testing.T) {
	v := world.NewSized(1, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Stone)
	b := newBuilder(v, true)
	require.False(t, b.GenerateRenderMesh().Empty())
	m := b.GenerateSilhouetteMesh()
	assert.True(t, m.Empty())
	assert.Empty(t, m.Vertices)
	assert.Empty(t, m.Batches)
}

func TestTranslationAndScale(t *testing.T) {
	v := world.New([3]int{-2, 0, 3}, [3]int{-2, 0, 3}, 0.5, registry.Default())
	v.SetBlock(-2, 0, 3, registry.Stone)
	m := newBuilder(v, false).GenerateRenderMesh()
	assert.Equal(t, mgl32.Vec3{-1, 0, 1.5}, m.Bounds.Min)
	assert.Equal(t, mgl32.Vec3{-0.5, 0.5, 2}, m.Bounds.Max)
}

func TestBuilderReuse(t *testing.T) {
	v := randomVolume(3, [3]int{5, 5, 5}, []registry.BlockType{registry.Stone, registry.Glass})
	b := newBuilder(v, true)
	first := append([]Triangle(nil), b.GenerateRenderMesh().Triangles...)
	b.GenerateCollisionMesh()
	assert.Equal(t, first, b.GenerateRenderMesh().Triangles)
}

func BenchmarkGenerateRenderMesh(b *testing.B) {
	v := world.NewSized(32, 32, 32, 1, registry.Default())
	world.NewGenerator(1).Populate(v)
	bld := newBuilder(v, true)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bld.GenerateRenderMesh()
	}
}

func BenchmarkGenerateCollisionMesh(b *testing.B) {
	v := world.NewSized(32, 32, 32, 1, registry.Default())
	world.NewGenerator(1).Populate(v)
	bld := newBuilder(v, false)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bld.GenerateCollisionMesh()
	}
}
