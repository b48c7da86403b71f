package spatial

import (
	"blockmesh/internal/physics"
	"blockmesh/internal/profiling"
	"blockmesh/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

// leafEdge is the octant edge at or below which cells are tested linearly.
const leafEdge = 4

// RaycastResult stores the result of a grid ray cast. Distance is in
// multiples of the ray direction, in grid units (one block edge = 1).
type RaycastResult struct {
	HitPosition [3]int
	Face        registry.Face
	Distance    float32
	Hit         bool
}

// Raycast finds the closest visible or collidable block hit by ray in g.
// The box is padded to power-of-two edges and recursively split into
// octants; octants the ray misses, or that start farther than the best hit
// so far, are skipped. Equal distances resolve to the cell that comes first
// in scan order (z, then y, then x), so the result does not depend on the
// order octants are visited in.
func Raycast(reg registry.Registry, ray physics.Ray, g Grid) RaycastResult {
	defer profiling.Track("spatial.Raycast")()
	g.Validate()

	c := octreeCast{reg: reg, ray: ray, g: g, bestIndex: -1}
	d := g.Dims()
	c.visit(g.Min, [3]int{nextPow2(d[0]), nextPow2(d[1]), nextPow2(d[2])})
	return c.best
}

// RaycastXYZ is Raycast with the ray and the hit spelled out per component.
func RaycastXYZ(reg registry.Registry, ox, oy, oz, dx, dy, dz float32, g Grid) (x, y, z int, dist float32, ok bool) {
	res := Raycast(reg, physics.Ray{Origin: mgl32.Vec3{ox, oy, oz}, Dir: mgl32.Vec3{dx, dy, dz}}, g)
	return res.HitPosition[0], res.HitPosition[1], res.HitPosition[2], res.Distance, res.Hit
}

// Hittable reports whether a ray cast can stop on id. A nil registry
// accepts every non-empty cell.
func Hittable(reg registry.Registry, id registry.BlockType) bool {
	if id == registry.Air {
		return false
	}
	if reg == nil {
		return true
	}
	d := reg.Get(id)
	return d != nil && (d.Visible() || d.Collidable())
}

type octreeCast struct {
	reg       registry.Registry
	ray       physics.Ray
	g         Grid
	best      RaycastResult
	bestIndex int
}

func (c *octreeCast) visit(lo, size [3]int) {
	var hi [3]int
	for i := 0; i < 3; i++ {
		if lo[i] > c.g.Max[i] {
			return
		}
		hi[i] = min(lo[i]+size[i]-1, c.g.Max[i])
	}

	box := physics.AABB{
		Min: mgl32.Vec3{float32(lo[0]), float32(lo[1]), float32(lo[2])},
		Max: mgl32.Vec3{float32(hi[0] + 1), float32(hi[1] + 1), float32(hi[2] + 1)},
	}
	tNear, _, ok := box.IntersectRay(c.ray)
	if !ok || (c.best.Hit && tNear > c.best.Distance) {
		return
	}

	if size[0] <= leafEdge && size[1] <= leafEdge && size[2] <= leafEdge {
		c.scanLeaf(lo, hi)
		return
	}

	var half [3]int
	var splits [3]int
	for i := 0; i < 3; i++ {
		half[i] = size[i]
		splits[i] = 1
		if size[i] > leafEdge {
			half[i] = size[i] / 2
			splits[i] = 2
		}
	}
	for sz := 0; sz < splits[2]; sz++ {
		for sy := 0; sy < splits[1]; sy++ {
			for sx := 0; sx < splits[0]; sx++ {
				c.visit([3]int{lo[0] + sx*half[0], lo[1] + sy*half[1], lo[2] + sz*half[2]}, half)
			}
		}
	}
}

func (c *octreeCast) scanLeaf(lo, hi [3]int) {
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				idx := c.g.Index(x, y, z)
				if !Hittable(c.reg, c.g.Cells[idx]) {
					continue
				}
				t, face, ok := physics.CellAABB(x, y, z, 1).IntersectRay(c.ray)
				if !ok {
					continue
				}
				if c.best.Hit && (t > c.best.Distance || (t == c.best.Distance && idx > c.bestIndex)) {
					continue
				}
				c.best = RaycastResult{HitPosition: [3]int{x, y, z}, Face: face, Distance: t, Hit: true}
				c.bestIndex = idx
			}
		}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
