package world

import (
	"fmt"

	"blockmesh/internal/registry"
)

// Resize reallocates the volume to min..max, keeping the blocks in the
// overlap of the old and new boxes. Cells outside the overlap become air.
func (v *Volume) Resize(newMin, newMax [3]int) {
	checkBox("Resize", newMin, newMax)
	old := *v

	v.Min, v.Max = newMin, newMax
	v.blocks = make([]registry.BlockType, v.Len())
	v.dirty = true

	var lo, hi [3]int
	for a := 0; a < 3; a++ {
		lo[a] = max(newMin[a], old.Min[a])
		hi[a] = min(newMax[a], old.Max[a])
		if lo[a] > hi[a] {
			return
		}
	}
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			src := old.index(lo[0], y, z)
			dst := v.index(lo[0], y, z)
			n := hi[0] - lo[0] + 1
			copy(v.blocks[dst:dst+n], old.blocks[src:src+n])
		}
	}
}

// Shrink resizes the volume to the tight box around its blocks, or to the
// single cell at Min when it is empty.
func (v *Volume) Shrink() {
	min, max, ok := v.ActiveBounds()
	if !ok {
		v.Resize(v.Min, v.Min)
		return
	}
	v.Resize(min, max)
}

// Recenter translates the volume so the center of its active blocks lands on
// the origin (rounded down to whole blocks). Every block and the box move by
// the returned delta. An empty volume is left alone.
func (v *Volume) Recenter() [3]int {
	min, max, ok := v.ActiveBounds()
	if !ok {
		return [3]int{}
	}
	var delta [3]int
	for a := 0; a < 3; a++ {
		delta[a] = -floorDiv(min[a]+max[a], 2)
		v.Min[a] += delta[a]
		v.Max[a] += delta[a]
	}
	v.dirty = true
	return delta
}

// MoveRegion moves the blocks of the box selMin..selMax by delta. The
// selection is copied out and cleared before anything is written back, so
// source and destination may overlap. Air in the selection does not
// overwrite blocks at the destination. Both boxes must lie inside the volume.
func (v *Volume) MoveRegion(selMin, selMax, delta [3]int) {
	checkBox("MoveRegion", selMin, selMax)
	dstMin := [3]int{selMin[0] + delta[0], selMin[1] + delta[1], selMin[2] + delta[2]}
	dstMax := [3]int{selMax[0] + delta[0], selMax[1] + delta[1], selMax[2] + delta[2]}
	for _, p := range [][3]int{selMin, selMax, dstMin, dstMax} {
		if !v.Contains(p[0], p[1], p[2]) {
			panic(fmt.Sprintf("world: MoveRegion %v..%v by %v leaves volume %v..%v", selMin, selMax, delta, v.Min, v.Max))
		}
	}

	w := selMax[0] - selMin[0] + 1
	l := selMax[1] - selMin[1] + 1
	h := selMax[2] - selMin[2] + 1
	scratch := make([]registry.BlockType, w*l*h)

	i := 0
	for z := selMin[2]; z <= selMax[2]; z++ {
		for y := selMin[1]; y <= selMax[1]; y++ {
			for x := selMin[0]; x <= selMax[0]; x++ {
				j := v.index(x, y, z)
				scratch[i] = v.blocks[j]
				v.blocks[j] = registry.Air
				i++
			}
		}
	}

	i = 0
	for z := dstMin[2]; z <= dstMax[2]; z++ {
		for y := dstMin[1]; y <= dstMax[1]; y++ {
			for x := dstMin[0]; x <= dstMax[0]; x++ {
				if scratch[i] != registry.Air {
					v.blocks[v.index(x, y, z)] = scratch[i]
				}
				i++
			}
		}
	}
	v.dirty = true
}

func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}
