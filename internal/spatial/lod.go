package spatial

import (
	"fmt"

	"blockmesh/internal/profiling"
	"blockmesh/internal/registry"
)

// CreateMeshLOD collapses every N×N×N cube of g (N = 2^level) into one cell.
// Coarse cell c covers fine cells c*N .. c*N+N-1, clipped to g, so coarse
// coordinates stay aligned with the fine ones.
//
// The coarse id is the most frequent id that is non-empty and blocks
// visibility; if the cube has none of those, the most frequent id overall
// (possibly air). Ties go to the id seen first in scan order.
func CreateMeshLOD(reg registry.Registry, g Grid, level int) Grid {
	defer profiling.Track("spatial.CreateMeshLOD")()
	g.Validate()
	if level < 0 || level > 7 {
		panic(fmt.Sprintf("spatial: lod level %d out of range 0..7", level))
	}
	if level == 0 {
		cells := make([]registry.BlockType, len(g.Cells))
		copy(cells, g.Cells)
		return Grid{Min: g.Min, Max: g.Max, Cells: cells}
	}

	n := 1 << level
	out := Grid{}
	for i := 0; i < 3; i++ {
		out.Min[i] = floorDiv(g.Min[i], n)
		out.Max[i] = floorDiv(g.Max[i], n)
	}
	d := out.Dims()
	out.Cells = make([]registry.BlockType, d[0]*d[1]*d[2])

	var v voter
	for cz := out.Min[2]; cz <= out.Max[2]; cz++ {
		for cy := out.Min[1]; cy <= out.Max[1]; cy++ {
			for cx := out.Min[0]; cx <= out.Max[0]; cx++ {
				v.reset()
				for z := max(cz*n, g.Min[2]); z <= min(cz*n+n-1, g.Max[2]); z++ {
					for y := max(cy*n, g.Min[1]); y <= min(cy*n+n-1, g.Max[1]); y++ {
						for x := max(cx*n, g.Min[0]); x <= min(cx*n+n-1, g.Max[0]); x++ {
							v.add(g.Cells[g.Index(x, y, z)])
						}
					}
				}
				out.Cells[out.Index(cx, cy, cz)] = v.winner(reg)
			}
		}
	}
	return out
}

// voter counts ids and remembers the order they were first seen in.
type voter struct {
	counts [256]int
	order  []registry.BlockType
}

func (v *voter) reset() {
	for _, id := range v.order {
		v.counts[id] = 0
	}
	v.order = v.order[:0]
}

func (v *voter) add(id registry.BlockType) {
	if v.counts[id] == 0 {
		v.order = append(v.order, id)
	}
	v.counts[id]++
}

func (v *voter) winner(reg registry.Registry) registry.BlockType {
	var overall, opaque registry.BlockType
	overallCount, opaqueCount := 0, 0
	for _, id := range v.order {
		c := v.counts[id]
		if c > overallCount {
			overall, overallCount = id, c
		}
		if c > opaqueCount && isOpaque(reg, id) {
			opaque, opaqueCount = id, c
		}
	}
	if opaqueCount > 0 {
		return opaque
	}
	return overall
}

func isOpaque(reg registry.Registry, id registry.BlockType) bool {
	if id == registry.Air || reg == nil {
		return false
	}
	d := reg.Get(id)
	return d != nil && d.BlocksVisibility()
}

func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && a < 0 {
		q--
	}
	return q
}
