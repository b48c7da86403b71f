package meshing

import (
	"fmt"

	"blockmesh/internal/config"
	"blockmesh/internal/registry"
	"blockmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Builder turns a block grid into render and collision meshes.
//
// Blocks is laid out like a world.Volume: x fastest, then y, then z, over
// Dims. Neighbors[f] is the face slice of the volume adjacent across face f,
// shaped like Blocks with f's axis collapsed to one cell; a nil entry means
// everything on that side is empty. Builders never write to either.
//
// Output positions are Translation + Scale*p where p is in blocks relative
// to the first cell of Blocks.
type Builder struct {
	Registry         registry.Registry
	Dims             [3]int
	Blocks           []registry.BlockType
	Neighbors        [registry.NumFaces][]registry.BlockType
	Translation      mgl32.Vec3
	Scale            float32
	AmbientOcclusion bool

	descs [256]*registry.Descriptor
	words []FaceWord
	out   Mesh
}

// NewBuilder returns a builder at the origin with unit scale and the
// configured ambient occlusion setting.
func NewBuilder(reg registry.Registry, dims [3]int, blocks []registry.BlockType) *Builder {
	return &Builder{
		Registry:         reg,
		Dims:             dims,
		Blocks:           blocks,
		Scale:            1,
		AmbientOcclusion: config.GetAmbientOcclusion(),
	}
}

// NewBuilderForVolume returns a builder reading v's cells in place, placed at
// v's world position. neighbors are typically the FaceSlice of each adjacent
// volume, see world.Store.Neighbors.
func NewBuilderForVolume(v *world.Volume, neighbors [registry.NumFaces][]registry.BlockType) *Builder {
	b := NewBuilder(v.Registry, v.Dims(), v.Blocks())
	b.Neighbors = neighbors
	b.Scale = v.Scale
	b.Translation = mgl32.Vec3{float32(v.Min[0]), float32(v.Min[1]), float32(v.Min[2])}.Mul(v.Scale)
	return b
}

func (b *Builder) validate(op string) {
	d := b.Dims
	if d[0] < 0 || d[1] < 0 || d[2] < 0 {
		panic(fmt.Sprintf("meshing: %s: negative dims %v", op, d))
	}
	if len(b.Blocks) != d[0]*d[1]*d[2] {
		panic(fmt.Sprintf("meshing: %s: grid has %d cells, dims %v need %d", op, len(b.Blocks), d, d[0]*d[1]*d[2]))
	}
	for f := registry.Face(0); f < registry.NumFaces; f++ {
		nb := b.Neighbors[f]
		if nb == nil {
			continue
		}
		sd := world.FaceSliceDims(d, f)
		if len(nb) != sd[0]*sd[1]*sd[2] {
			panic(fmt.Sprintf("meshing: %s: %v neighbor grid has %d cells, want %d (%v)", op, f, len(nb), sd[0]*sd[1]*sd[2], sd))
		}
	}
}

// prepare validates the input, caches descriptors and resets the outputs.
func (b *Builder) prepare(op string) {
	b.validate(op)
	for i := range b.descs {
		b.descs[i] = nil
		if i != int(registry.Air) && b.Registry != nil {
			b.descs[i] = b.Registry.Get(registry.BlockType(i))
		}
	}
	n := len(b.Blocks)
	if cap(b.words) < n {
		b.words = make([]FaceWord, n)
	} else {
		b.words = b.words[:n]
		clear(b.words)
	}
	b.out.reset(b.Translation)
}

func (b *Builder) index(x, y, z int) int {
	return (z*b.Dims[1]+y)*b.Dims[0] + x
}

// at returns the block at local (x,y,z). Cells past exactly one side of the
// grid are read from that side's neighbor grid; anything else outside reads
// as air.
func (b *Builder) at(x, y, z int) registry.BlockType {
	p := [3]int{x, y, z}
	out := -1
	for a := 0; a < 3; a++ {
		if p[a] >= 0 && p[a] < b.Dims[a] {
			continue
		}
		if out >= 0 {
			return registry.Air
		}
		out = a
	}
	if out < 0 {
		return b.Blocks[b.index(x, y, z)]
	}

	f := registry.Face(out * 2)
	if p[out] >= b.Dims[out] {
		f++
	}
	nb := b.Neighbors[f]
	if nb == nil {
		return registry.Air
	}
	p[out] = 0
	sd := world.FaceSliceDims(b.Dims, f)
	return nb[(p[2]*sd[1]+p[1])*sd[0]+p[0]]
}

func (b *Builder) desc(id registry.BlockType) *registry.Descriptor {
	return b.descs[id]
}

// occludes reports whether id darkens corners for ambient occlusion.
func (b *Builder) occludes(id registry.BlockType) bool {
	d := b.desc(id)
	return d != nil && (d.Shape == registry.ShapeCube || d.Shape == registry.ShapeSlab)
}

// hidesFace reports whether neighbor n covers the face of own that touches
// it. solid says which neighbors count: visibility blockers for render
// meshes, collidable blocks for collision meshes.
func (b *Builder) hidesFace(own *registry.Descriptor, id, n registry.BlockType, solid registry.Flags) bool {
	if n == registry.Air {
		return false
	}
	nd := b.desc(n)
	if nd == nil {
		return false
	}
	if n == id && own.MergeableVolume() {
		return true
	}
	return nd.Shape == registry.ShapeCube && nd.Flags.Has(solid)
}

// shortSlab reports whether the slab at (x,y,z) is drawn at its own height.
// A mergeable slab with the same slab on top fills its whole cell.
func (b *Builder) shortSlab(d *registry.Descriptor, id registry.BlockType, x, y, z int) bool {
	return !d.MergeableVolume() || b.at(x, y, z+1) != id
}

// precompute fills the face words. solid selects the culling rule, accept
// the blocks that take part in the pass.
func (b *Builder) precompute(solid registry.Flags, accept func(*registry.Descriptor) bool, ao bool) {
	for z := 0; z < b.Dims[2]; z++ {
		for y := 0; y < b.Dims[1]; y++ {
			for x := 0; x < b.Dims[0]; x++ {
				i := b.index(x, y, z)
				id := b.Blocks[i]
				if id == registry.Air {
					continue
				}
				d := b.desc(id)
				if d == nil || !accept(d) {
					continue
				}
				var w FaceWord
				switch d.Shape {
				case registry.ShapePlane:
					w.SetPlane()
					b.words[i] = w
					continue
				case registry.ShapeCube, registry.ShapeSlab:
				default:
					continue
				}

				short := d.Shape == registry.ShapeSlab && b.shortSlab(d, id, x, y, z)
				if short {
					w.SetShortSlab()
				}
				for f := registry.Face(0); f < registry.NumFaces; f++ {
					if f == registry.FacePosZ && short {
						w.Set(f)
						continue
					}
					o := f.Offset()
					if !b.hidesFace(d, id, b.at(x+o[0], y+o[1], z+o[2]), solid) {
						w.Set(f)
					}
				}
				if ao && w.Faces() != 0 {
					b.sampleAO(&w, x, y, z)
				}
				b.words[i] = w
			}
		}
	}
}

func (b *Builder) sampleAO(w *FaceWord, x, y, z int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if b.occludes(b.at(x+dx, y+dy, z+1)) {
				w.SetUpper(dx, dy)
			}
			if b.occludes(b.at(x+dx, y+dy, z-1)) {
				w.SetLower(dx, dy)
			}
		}
	}
}
