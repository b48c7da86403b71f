package world

import (
	"math"

	"blockmesh/internal/physics"
	"blockmesh/internal/profiling"
	"blockmesh/internal/registry"
	"blockmesh/internal/spatial"

	"github.com/go-gl/mathgl/mgl32"
)

// Raycast returns the closest non-empty block hit by ray, in world space.
// Every cell is tested; on equal distances the first cell in scan order wins.
func (v *Volume) Raycast(ray physics.Ray) (pos [3]int, dist float32, ok bool) {
	pos, _, dist, ok = v.RaycastFace(ray)
	return pos, dist, ok
}

// RaycastFace is Raycast that also reports the face the ray enters through.
func (v *Volume) RaycastFace(ray physics.Ray) (pos [3]int, face registry.Face, dist float32, ok bool) {
	defer profiling.Track("world.Raycast")()
	d := v.Dims()
	i := 0
	for z := 0; z < d[2]; z++ {
		for y := 0; y < d[1]; y++ {
			for x := 0; x < d[0]; x++ {
				if v.blocks[i] == registry.Air {
					i++
					continue
				}
				i++
				p := [3]int{x + v.Min[0], y + v.Min[1], z + v.Min[2]}
				t, f, hit := physics.CellAABB(p[0], p[1], p[2], v.Scale).IntersectRay(ray)
				if hit && (!ok || t < dist) {
					pos, face, dist, ok = p, f, t, true
				}
			}
		}
	}
	return pos, face, dist, ok
}

// RaycastOctree runs the recursive grid ray cast over this volume. Unlike
// Raycast it only stops on blocks the registry marks visible or collidable.
func (v *Volume) RaycastOctree(ray physics.Ray) spatial.RaycastResult {
	local := physics.Ray{Origin: ray.Origin.Mul(1 / v.Scale), Dir: ray.Dir}
	res := spatial.Raycast(v.Registry, local, v.Grid())
	res.Distance *= v.Scale
	return res
}

// CreateMeshLOD returns a coarser copy of the volume with 2^level blocks
// collapsed into each cell.
func (v *Volume) CreateMeshLOD(level int) *Volume {
	g := spatial.CreateMeshLOD(v.Registry, v.Grid(), level)
	return &Volume{
		Min:      g.Min,
		Max:      g.Max,
		Scale:    v.Scale * float32(int(1)<<level),
		Registry: v.Registry,
		blocks:   g.Cells,
		dirty:    true,
	}
}

// BlockVisitor receives a block coordinate. Returning false stops the walk.
type BlockVisitor func(pos [3]int) bool

// ContactVisitor receives a block coordinate plus the contact normal (from
// the block toward the query shape) and contact point. Returning false
// stops the walk.
type ContactVisitor func(pos [3]int, normal, point mgl32.Vec3) bool

// EnumerateBox visits every cube-shaped block known to the registry whose
// cell overlaps box.
func (v *Volume) EnumerateBox(box physics.AABB, visit BlockVisitor) {
	v.enumerate(box, func(cell physics.AABB) bool { return cell.Overlaps(box) },
		func(pos [3]int, _ physics.AABB) bool { return visit(pos) })
}

// EnumerateSphere visits every cube-shaped block known to the registry whose
// cell intersects the sphere.
func (v *Volume) EnumerateSphere(center mgl32.Vec3, radius float32, visit BlockVisitor) {
	v.enumerate(sphereBounds(center, radius), func(cell physics.AABB) bool { return cell.IntersectsSphere(center, radius) },
		func(pos [3]int, _ physics.AABB) bool { return visit(pos) })
}

// EnumerateBoxIntersecting is EnumerateBox reporting contact data.
func (v *Volume) EnumerateBoxIntersecting(box physics.AABB, visit ContactVisitor) {
	v.enumerate(box, func(cell physics.AABB) bool { return cell.Overlaps(box) },
		func(pos [3]int, cell physics.AABB) bool {
			n, p := physics.BoxContact(cell, box)
			return visit(pos, n, p)
		})
}

// EnumerateSphereIntersecting is EnumerateSphere reporting contact data.
func (v *Volume) EnumerateSphereIntersecting(center mgl32.Vec3, radius float32, visit ContactVisitor) {
	v.enumerate(sphereBounds(center, radius), func(cell physics.AABB) bool { return cell.IntersectsSphere(center, radius) },
		func(pos [3]int, cell physics.AABB) bool {
			n, p := physics.SphereContact(cell, center)
			return visit(pos, n, p)
		})
}

func sphereBounds(center mgl32.Vec3, radius float32) physics.AABB {
	r := mgl32.Vec3{radius, radius, radius}
	return physics.AABB{Min: center.Sub(r), Max: center.Add(r)}
}

func (v *Volume) enumerate(bounds physics.AABB, hit func(cell physics.AABB) bool, visit func(pos [3]int, cell physics.AABB) bool) {
	if v.Registry == nil {
		return
	}
	var lo, hi [3]int
	for a := 0; a < 3; a++ {
		lo[a] = max(int(math.Floor(float64(bounds.Min[a]/v.Scale))), v.Min[a])
		hi[a] = min(int(math.Floor(float64(bounds.Max[a]/v.Scale))), v.Max[a])
		if lo[a] > hi[a] {
			return
		}
	}
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				id := v.blocks[v.index(x, y, z)]
				if id == registry.Air {
					continue
				}
				d := v.Registry.Get(id)
				if d == nil || d.Shape != registry.ShapeCube {
					continue
				}
				cell := physics.CellAABB(x, y, z, v.Scale)
				if !hit(cell) {
					continue
				}
				if !visit([3]int{x, y, z}, cell) {
					return
				}
			}
		}
	}
}
