package registry

import (
	"errors"
	"fmt"
)

var (
	ErrReservedID     = errors.New("registry: id 0 is reserved for air")
	ErrDuplicateBlock = errors.New("registry: block already registered")
)

// Palette is the in-memory Registry. Material names are turned into dense
// material indices in first-seen order, the same way texture layers are
// assigned while blocks register.
type Palette struct {
	blocks    [256]*Descriptor
	names     map[string]BlockType
	materials []string
	matIndex  map[string]uint32
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{
		names:    make(map[string]BlockType),
		matIndex: make(map[string]uint32),
	}
}

// Get implements Registry.
func (p *Palette) Get(id BlockType) *Descriptor {
	return p.blocks[id]
}

// Register adds a descriptor. The palette keeps the pointer.
func (p *Palette) Register(def *Descriptor) error {
	if def.ID == Air {
		return ErrReservedID
	}
	if p.blocks[def.ID] != nil {
		return fmt.Errorf("%w: id %d (%s)", ErrDuplicateBlock, def.ID, p.blocks[def.ID].Name)
	}
	if def.Name != "" {
		if other, ok := p.names[def.Name]; ok {
			return fmt.Errorf("%w: name %q already used by id %d", ErrDuplicateBlock, def.Name, other)
		}
		p.names[def.Name] = def.ID
	}
	if def.Shape == ShapeSlab && (def.Slab.Height <= 0 || def.Slab.Height > 1) {
		def.Slab.Height = 0.5
	}
	if def.Shape == ShapePlane && def.Plane.RepeatCount < 1 {
		def.Plane.RepeatCount = 1
	}
	p.blocks[def.ID] = def
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (p *Palette) MustRegister(def *Descriptor) {
	if err := p.Register(def); err != nil {
		panic(err)
	}
}

// ID returns the block type registered under name.
func (p *Palette) ID(name string) (BlockType, bool) {
	id, ok := p.names[name]
	return id, ok
}

// Material returns the index for a material name, assigning the next free
// index the first time a name is seen.
func (p *Palette) Material(name string) uint32 {
	if idx, ok := p.matIndex[name]; ok {
		return idx
	}
	idx := uint32(len(p.materials))
	p.matIndex[name] = idx
	p.materials = append(p.materials, name)
	return idx
}

// Materials returns the material names indexed by material index.
func (p *Palette) Materials() []string {
	out := make([]string, len(p.materials))
	copy(out, p.materials)
	return out
}

// IDs returns all registered block type ids in ascending order.
func (p *Palette) IDs() []BlockType {
	ids := make([]BlockType, 0, len(p.names))
	for i, d := range p.blocks {
		if d != nil {
			ids = append(ids, BlockType(i))
		}
	}
	return ids
}

// SolidFaces returns six identical face visuals.
func SolidFaces(v FaceVisual) [NumFaces]FaceVisual {
	var faces [NumFaces]FaceVisual
	for i := range faces {
		faces[i] = v
	}
	return faces
}
