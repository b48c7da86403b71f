package world

import (
	"fmt"

	"blockmesh/internal/registry"
	"blockmesh/internal/spatial"
)

// Volume is a dense block grid over an inclusive integer box. Cells are
// stored x fastest, then y, then z; Z is up. A Volume is not safe for
// concurrent mutation and reads.
type Volume struct {
	Min, Max [3]int
	// Scale is the world length of one block edge.
	Scale    float32
	Registry registry.Registry

	blocks []registry.BlockType
	dirty  bool
}

// New creates a zero-filled volume over min..max.
func New(min, max [3]int, scale float32, reg registry.Registry) *Volume {
	checkBox("New", min, max)
	v := &Volume{Min: min, Max: max, Scale: scale, Registry: reg, dirty: true}
	v.blocks = make([]registry.BlockType, v.Len())
	return v
}

// NewSized creates a volume with its minimum corner at the origin.
func NewSized(width, length, height int, scale float32, reg registry.Registry) *Volume {
	return New([3]int{0, 0, 0}, [3]int{width - 1, length - 1, height - 1}, scale, reg)
}

func checkBox(op string, min, max [3]int) {
	if min[0] > max[0] || min[1] > max[1] || min[2] > max[2] {
		panic(fmt.Sprintf("world: %s: inverted box %v..%v", op, min, max))
	}
}

// Dims returns width (X), length (Y) and height (Z) in blocks.
func (v *Volume) Dims() [3]int {
	return [3]int{v.Max[0] - v.Min[0] + 1, v.Max[1] - v.Min[1] + 1, v.Max[2] - v.Min[2] + 1}
}

// Len returns the number of cells.
func (v *Volume) Len() int {
	d := v.Dims()
	return d[0] * d[1] * d[2]
}

// Contains reports whether (x,y,z) is inside the box.
func (v *Volume) Contains(x, y, z int) bool {
	return x >= v.Min[0] && x <= v.Max[0] &&
		y >= v.Min[1] && y <= v.Max[1] &&
		z >= v.Min[2] && z <= v.Max[2]
}

func (v *Volume) index(x, y, z int) int {
	if !v.Contains(x, y, z) {
		panic(fmt.Sprintf("world: block (%d,%d,%d) outside volume %v..%v", x, y, z, v.Min, v.Max))
	}
	d := v.Dims()
	return (z-v.Min[2])*d[0]*d[1] + (y-v.Min[1])*d[0] + (x - v.Min[0])
}

// GetBlock returns the block type at (x,y,z). Out-of-range access panics.
func (v *Volume) GetBlock(x, y, z int) registry.BlockType {
	return v.blocks[v.index(x, y, z)]
}

// SetBlock sets the block type at (x,y,z). Out-of-range access panics.
func (v *Volume) SetBlock(x, y, z int, id registry.BlockType) {
	i := v.index(x, y, z)
	if v.blocks[i] != id {
		v.blocks[i] = id
		v.dirty = true
	}
}

// IsAir checks if the block at (x,y,z) is empty.
func (v *Volume) IsAir(x, y, z int) bool {
	return v.GetBlock(x, y, z) == registry.Air
}

// Blocks returns the backing cell slice. Callers must not keep it across
// mutations that reallocate (Resize, Shrink).
func (v *Volume) Blocks() []registry.BlockType {
	return v.blocks
}

// IsDirty returns whether the volume has been modified since the last SetClean.
func (v *Volume) IsDirty() bool {
	return v.dirty
}

// SetClean marks the volume as clean (not modified).
func (v *Volume) SetClean() {
	v.dirty = false
}

// Clear sets every cell to air.
func (v *Volume) Clear() {
	clear(v.blocks)
	v.dirty = true
}

// Clone returns a deep copy sharing only the registry.
func (v *Volume) Clone() *Volume {
	c := *v
	c.blocks = make([]registry.BlockType, len(v.blocks))
	copy(c.blocks, v.blocks)
	return &c
}

// Grid exposes the cells as a spatial.Grid. The grid borrows the volume's
// storage.
func (v *Volume) Grid() spatial.Grid {
	return spatial.Grid{Min: v.Min, Max: v.Max, Cells: v.blocks}
}

// ActiveBounds returns the tight box around all non-empty cells. ok is false
// when the volume holds no blocks.
func (v *Volume) ActiveBounds() (min, max [3]int, ok bool) {
	d := v.Dims()
	i := 0
	for z := 0; z < d[2]; z++ {
		for y := 0; y < d[1]; y++ {
			for x := 0; x < d[0]; x++ {
				if v.blocks[i] != registry.Air {
					p := [3]int{x + v.Min[0], y + v.Min[1], z + v.Min[2]}
					if !ok {
						min, max, ok = p, p, true
						i++
						continue
					}
					for a := 0; a < 3; a++ {
						if p[a] < min[a] {
							min[a] = p[a]
						}
						if p[a] > max[a] {
							max[a] = p[a]
						}
					}
				}
				i++
			}
		}
	}
	return min, max, ok
}

// CountActive returns the number of non-empty cells.
func (v *Volume) CountActive() int {
	n := 0
	for _, b := range v.blocks {
		if b != registry.Air {
			n++
		}
	}
	return n
}

// FaceSliceDims returns the shape of the neighbor grid for face f of a
// volume with dims d.
func FaceSliceDims(d [3]int, f registry.Face) [3]int {
	d[f.Axis()] = 1
	return d
}

// FaceSlice copies the outermost layer of cells on face f. The result is
// shaped as the neighbor grid expected by the volume adjacent across f, so
// for a volume B sitting on the +X side of A, A's +X neighbor grid is
// B.FaceSlice(registry.FaceNegX).
func (v *Volume) FaceSlice(f registry.Face) []registry.BlockType {
	d := v.Dims()
	sd := FaceSliceDims(d, f)
	out := make([]registry.BlockType, sd[0]*sd[1]*sd[2])

	fixed := v.Min[f.Axis()]
	if f.Sign() > 0 {
		fixed = v.Max[f.Axis()]
	}
	i := 0
	for z := 0; z < sd[2]; z++ {
		for y := 0; y < sd[1]; y++ {
			for x := 0; x < sd[0]; x++ {
				p := [3]int{x + v.Min[0], y + v.Min[1], z + v.Min[2]}
				p[f.Axis()] = fixed
				out[i] = v.GetBlock(p[0], p[1], p[2])
				i++
			}
		}
	}
	return out
}
