package spatial

import (
	"fmt"

	"blockmesh/internal/registry"
)

// Grid is a flat block grid over an inclusive integer box. Cells are laid out
// x fastest, then y, then z.
type Grid struct {
	Min, Max [3]int
	Cells    []registry.BlockType
}

// Dims returns the cell count per axis.
func (g Grid) Dims() [3]int {
	return [3]int{g.Max[0] - g.Min[0] + 1, g.Max[1] - g.Min[1] + 1, g.Max[2] - g.Min[2] + 1}
}

// Index returns the linear index of (x,y,z). The coordinate must be inside.
func (g Grid) Index(x, y, z int) int {
	d := g.Dims()
	return (z-g.Min[2])*d[0]*d[1] + (y-g.Min[1])*d[0] + (x - g.Min[0])
}

// Contains reports whether (x,y,z) lies in the box.
func (g Grid) Contains(x, y, z int) bool {
	return x >= g.Min[0] && x <= g.Max[0] &&
		y >= g.Min[1] && y <= g.Max[1] &&
		z >= g.Min[2] && z <= g.Max[2]
}

// At returns the cell at (x,y,z), panicking when it is outside the box.
func (g Grid) At(x, y, z int) registry.BlockType {
	if !g.Contains(x, y, z) {
		panic(fmt.Sprintf("spatial: cell (%d,%d,%d) outside grid %v..%v", x, y, z, g.Min, g.Max))
	}
	return g.Cells[g.Index(x, y, z)]
}

// Validate panics when the box is inverted or the cell slice has the wrong length.
func (g Grid) Validate() {
	d := g.Dims()
	if d[0] <= 0 || d[1] <= 0 || d[2] <= 0 {
		panic(fmt.Sprintf("spatial: inverted grid box %v..%v", g.Min, g.Max))
	}
	if want := d[0] * d[1] * d[2]; len(g.Cells) != want {
		panic(fmt.Sprintf("spatial: grid has %d cells, box %v..%v needs %d", len(g.Cells), g.Min, g.Max, want))
	}
}
