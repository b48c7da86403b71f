package meshing

import (
	"cmp"
	"slices"

	"blockmesh/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadowBit is set on a triangle's raw material while meshing when the block
// casts shadows. Finalized meshes never carry it.
const ShadowBit uint32 = 1 << 31

// PlaneFace is the face index of vertices and triangles emitted for plane
// shapes.
const PlaneFace uint8 = 6

// Vertex is one mesh vertex. Color is packed RGBA, red in the low byte.
type Vertex struct {
	Position   mgl32.Vec3
	TexCoord   mgl32.Vec2
	AtlasRange mgl32.Vec4 // atlas min.xy, max.xy
	Color      uint32
	Face       uint8
}

// Triangle references three vertices of the same mesh.
type Triangle struct {
	Material uint32
	Face     uint8
	Indices  [3]uint32
}

// Batch is a run of triangles sharing a material and shadow flag.
// StartIndex and IndexCount are in index units (three per triangle).
type Batch struct {
	Material    uint32
	StartIndex  uint32
	IndexCount  uint32
	DrawShadows bool
}

// TriangleCount returns the number of triangles in the batch.
func (b Batch) TriangleCount() int { return int(b.IndexCount / 3) }

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Mesh is the output of one builder pass.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
	Batches   []Batch
	Bounds    physics.AABB
	Sphere    Sphere
}

// Indices flattens the triangle list into an index buffer.
func (m *Mesh) Indices() []uint32 {
	out := make([]uint32, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		out = append(out, t.Indices[:]...)
	}
	return out
}

// Empty reports whether the mesh has no triangles.
func (m *Mesh) Empty() bool { return len(m.Triangles) == 0 }

func (m *Mesh) reset(origin mgl32.Vec3) {
	m.Vertices = m.Vertices[:0]
	m.Triangles = m.Triangles[:0]
	m.Batches = m.Batches[:0]
	m.Bounds = physics.AABB{Min: origin, Max: origin}
	m.Sphere = Sphere{Center: origin}
}

// finalize sorts triangles, groups them into batches, moves the shadow bit
// into the batches and computes the bounds.
func (m *Mesh) finalize() {
	slices.SortStableFunc(m.Triangles, func(a, b Triangle) int {
		if c := cmp.Compare(a.Material, b.Material); c != 0 {
			return c
		}
		for i := 0; i < 3; i++ {
			if c := cmp.Compare(a.Indices[i], b.Indices[i]); c != 0 {
				return c
			}
		}
		return 0
	})

	for start := 0; start < len(m.Triangles); {
		raw := m.Triangles[start].Material
		end := start
		for end < len(m.Triangles) && m.Triangles[end].Material == raw {
			m.Triangles[end].Material = raw &^ ShadowBit
			end++
		}
		m.Batches = append(m.Batches, Batch{
			Material:    raw &^ ShadowBit,
			StartIndex:  uint32(start * 3),
			IndexCount:  uint32((end - start) * 3),
			DrawShadows: raw&ShadowBit != 0,
		})
		start = end
	}

	if len(m.Vertices) == 0 {
		return
	}
	lo, hi := m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	m.Bounds = physics.AABB{Min: lo, Max: hi}
	m.Sphere = Sphere{Center: m.Bounds.Center(), Radius: hi.Sub(lo).Len() / 2}
}

// packColor converts a 0..1 RGBA color to bytes, red in the low byte.
func packColor(c mgl32.Vec4) uint32 {
	var out uint32
	for i := 0; i < 4; i++ {
		v := min(max(c[i], 0), 1)
		out |= uint32(v*255+0.5) << (8 * i)
	}
	return out
}
