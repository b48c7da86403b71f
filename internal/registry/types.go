package registry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BlockType identifies an entry in a Registry. Air (0) is always empty.
type BlockType uint8

const (
	Air BlockType = 0
)

// Shape is the geometric kind of a block type.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeCube
	ShapeSlab
	ShapePlane
)

func (s Shape) String() string {
	switch s {
	case ShapeCube:
		return "cube"
	case ShapeSlab:
		return "slab"
	case ShapePlane:
		return "plane"
	default:
		return "none"
	}
}

// Flags is the behavior bitset of a block type.
type Flags uint8

const (
	FlagVisible Flags = 1 << iota
	FlagBlocksVisibility
	FlagCollidable
	FlagCastsShadows
	// FlagMergeableVolume marks types whose adjacent same-id cells form one
	// continuous solid: internal faces are suppressed and AO mismatches are
	// tolerated while merging.
	FlagMergeableVolume
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// Face identifies one of the six cube faces. Z is the vertical axis.
type Face uint8

const (
	FaceNegX Face = iota
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ

	NumFaces = 6
)

// Axis returns the axis (0=X, 1=Y, 2=Z) the face normal lies on.
func (f Face) Axis() int { return int(f) / 2 }

// Sign returns -1 for the negative faces and +1 for the positive ones.
func (f Face) Sign() int {
	if f%2 == 0 {
		return -1
	}
	return 1
}

// Offset returns the integer step from a cell to its neighbor across f.
func (f Face) Offset() [3]int {
	var o [3]int
	o[f.Axis()] = f.Sign()
	return o
}

// Opposite returns the face on the other side of the cell.
func (f Face) Opposite() Face { return f ^ 1 }

// Normal returns the outward unit normal of the face.
func (f Face) Normal() mgl32.Vec3 {
	o := f.Offset()
	return mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}
}

// IsSide reports whether the face is one of the four vertical side faces.
func (f Face) IsSide() bool { return f.Axis() != 2 }

func (f Face) String() string {
	return [...]string{"-x", "+x", "-y", "+y", "-z", "+z"}[f]
}

// FaceVisual carries the per-face render parameters of a block type.
type FaceVisual struct {
	UVMin    mgl32.Vec2
	UVMax    mgl32.Vec2
	AtlasMin mgl32.Vec2
	AtlasMax mgl32.Vec2
	Color    mgl32.Vec4 // base RGBA in 0..1
	Material uint32
}

// SlabParams describes a slab shape.
type SlabParams struct {
	// Height is the fraction of a block edge the slab occupies from the bottom.
	Height float32
}

// PlaneParams describes a cross/billboard style plane shape. Angles are in degrees.
type PlaneParams struct {
	Width          float32
	Height         float32
	OffsetX        float32
	OffsetY        float32
	BaseRotation   float32
	RepeatCount    int
	RepeatRotation float32
}

// Descriptor is everything the mesher needs to know about one block type.
type Descriptor struct {
	ID    BlockType
	Name  string
	Shape Shape
	Flags Flags
	Faces [NumFaces]FaceVisual
	Slab  SlabParams
	Plane PlaneParams
}

func (d *Descriptor) Visible() bool          { return d.Flags.Has(FlagVisible) }
func (d *Descriptor) BlocksVisibility() bool { return d.Flags.Has(FlagBlocksVisibility) }
func (d *Descriptor) Collidable() bool       { return d.Flags.Has(FlagCollidable) }
func (d *Descriptor) CastsShadows() bool     { return d.Flags.Has(FlagCastsShadows) }
func (d *Descriptor) MergeableVolume() bool  { return d.Flags.Has(FlagMergeableVolume) }

// Registry maps block type ids to descriptors. Get returns nil for ids it
// does not know. Implementations must be safe for concurrent reads.
type Registry interface {
	Get(id BlockType) *Descriptor
}
