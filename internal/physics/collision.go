package physics

import (
	"math"

	"blockmesh/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis aligned box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Ray is a half line. Dir does not need to be normalized; distances are
// measured in multiples of Dir.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// CellAABB returns the box of block cell (x,y,z) for a given edge length.
func CellAABB(x, y, z int, scale float32) AABB {
	min := mgl32.Vec3{float32(x) * scale, float32(y) * scale, float32(z) * scale}
	return AABB{Min: min, Max: min.Add(mgl32.Vec3{scale, scale, scale})}
}

// Center returns the box center.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Overlaps reports whether the boxes share volume. Touching faces do not count.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X() < o.Max.X() && b.Max.X() > o.Min.X() &&
		b.Min.Y() < o.Max.Y() && b.Max.Y() > o.Min.Y() &&
		b.Min.Z() < o.Max.Z() && b.Max.Z() > o.Min.Z()
}

// ClosestPoint clamps p into the box.
func (b AABB) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.Clamp(p.X(), b.Min.X(), b.Max.X()),
		mgl32.Clamp(p.Y(), b.Min.Y(), b.Max.Y()),
		mgl32.Clamp(p.Z(), b.Min.Z(), b.Max.Z()),
	}
}

// IntersectsSphere reports whether the sphere reaches strictly inside the box.
func (b AABB) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	d := center.Sub(b.ClosestPoint(center))
	return d.Dot(d) < radius*radius
}

// IntersectRay runs the slab test. It returns the entry distance and the
// face the ray enters through. A ray starting inside the box reports t = 0.
func (b AABB) IntersectRay(r Ray) (t float32, face registry.Face, ok bool) {
	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Dir[axis]
		lo, hi := b.Min[axis], b.Max[axis]
		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		entry := registry.Face(axis * 2) // negative face
		if t1 > t2 {
			t1, t2 = t2, t1
			entry++
		}
		if t1 > tNear {
			tNear = t1
			face = entry
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, 0, false
		}
	}
	if tFar < 0 {
		return 0, 0, false
	}
	if tNear < 0 {
		tNear = 0
	}
	return tNear, face, true
}

// BoxContact returns the contact normal (pointing from b toward q) and the
// center of the overlap region of two overlapping boxes.
func BoxContact(b, q AABB) (normal, point mgl32.Vec3) {
	var lo, hi mgl32.Vec3
	best := float32(math.MaxFloat32)
	axis := 0
	for i := 0; i < 3; i++ {
		lo[i] = max(b.Min[i], q.Min[i])
		hi[i] = min(b.Max[i], q.Max[i])
		if ext := hi[i] - lo[i]; ext < best {
			best = ext
			axis = i
		}
	}
	point = lo.Add(hi).Mul(0.5)
	normal[axis] = 1
	if q.Center()[axis] < b.Center()[axis] {
		normal[axis] = -1
	}
	return normal, point
}

// SphereContact returns the contact normal (pointing from b toward the
// sphere center) and the closest point of b to the center.
func SphereContact(b AABB, center mgl32.Vec3) (normal, point mgl32.Vec3) {
	point = b.ClosestPoint(center)
	d := center.Sub(point)
	if l := d.Len(); l > 0 {
		return d.Mul(1 / l), point
	}

	// Center is inside the box: push out through the nearest face.
	best := float32(math.MaxFloat32)
	for i := 0; i < 3; i++ {
		if dist := center[i] - b.Min[i]; dist < best {
			best = dist
			normal = mgl32.Vec3{}
			normal[i] = -1
		}
		if dist := b.Max[i] - center[i]; dist < best {
			best = dist
			normal = mgl32.Vec3{}
			normal[i] = 1
		}
	}
	return normal, point
}
