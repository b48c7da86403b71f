package gpu

import "strings"

// Layout selects the optional vertex attributes written by PackVertices.
// Position is always present and comes first; the others follow in flag
// order, interleaved per vertex.
type Layout uint8

const (
	// TexCoord is the tiling block UV, two float32.
	TexCoord Layout = 1 << iota
	// AtlasUV is the atlas rectangle min.xy max.xy, four float32.
	AtlasUV
	// Tangent is the face normal followed by the tangent along the first
	// texture axis, six float32.
	Tangent
	// Color is the packed RGBA color, four normalized bytes.
	Color
	// FaceIndex is the face byte, padded to four bytes.
	FaceIndex

	// LayoutFull carries every attribute.
	LayoutFull = TexCoord | AtlasUV | Tangent | Color | FaceIndex
	// LayoutCollision is enough for collision geometry.
	LayoutCollision Layout = FaceIndex
)

// Has reports whether all attributes of l2 are present in l.
func (l Layout) Has(l2 Layout) bool { return l&l2 == l2 }

func (l Layout) String() string {
	parts := []string{"position"}
	for _, a := range attributeTable {
		if l.Has(a.flag) {
			parts = append(parts, a.name)
		}
	}
	return strings.Join(parts, "+")
}

// AttrKind is the component encoding of an attribute.
type AttrKind uint8

const (
	Float32 AttrKind = iota
	// UNorm8 components are bytes read as 0..1 floats.
	UNorm8
	// Uint8 components are bytes read as integers.
	Uint8
)

// Attribute describes one interleaved vertex attribute.
type Attribute struct {
	Name       string
	Location   uint32
	Components int
	Kind       AttrKind
	Offset     int
}

type attrSpec struct {
	flag       Layout
	name       string
	components int
	kind       AttrKind
	size       int
}

var attributeTable = []attrSpec{
	{TexCoord, "texcoord", 2, Float32, 8},
	{AtlasUV, "atlas", 4, Float32, 16},
	{Tangent, "tangent", 6, Float32, 24},
	{Color, "color", 4, UNorm8, 4},
	{FaceIndex, "face", 1, Uint8, 4},
}

const positionSize = 12

// Stride returns the size in bytes of one packed vertex.
func (l Layout) Stride() int {
	n := positionSize
	for _, a := range attributeTable {
		if l.Has(a.flag) {
			n += a.size
		}
	}
	return n
}

// Attributes lists the attributes of l with their byte offsets and shader
// locations, position at location 0. Tangent spans two locations (normal,
// then tangent).
func (l Layout) Attributes() []Attribute {
	out := []Attribute{{Name: "position", Components: 3, Kind: Float32}}
	offset, loc := positionSize, uint32(1)
	for _, a := range attributeTable {
		if !l.Has(a.flag) {
			continue
		}
		if a.flag == Tangent {
			out = append(out,
				Attribute{Name: "normal", Location: loc, Components: 3, Kind: Float32, Offset: offset},
				Attribute{Name: "tangent", Location: loc + 1, Components: 3, Kind: Float32, Offset: offset + 12},
			)
			loc += 2
		} else {
			out = append(out, Attribute{Name: a.name, Location: loc, Components: a.components, Kind: a.kind, Offset: offset})
			loc++
		}
		offset += a.size
	}
	return out
}
