package registry

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type paletteFile struct {
	Blocks []blockEntry `yaml:"blocks"`
}

type faceEntry struct {
	Material string    `yaml:"material"`
	Color    string    `yaml:"color"`
	UV       []float32 `yaml:"uv"`
	Atlas    []float32 `yaml:"atlas"`
}

type blockEntry struct {
	ID        int                  `yaml:"id"`
	Name      string               `yaml:"name"`
	Shape     string               `yaml:"shape"`
	Flags     []string             `yaml:"flags"`
	Default   faceEntry            `yaml:",inline"`
	Faces     map[string]faceEntry `yaml:"faces"`
	Slab      *struct {
		Height float32 `yaml:"height"`
	} `yaml:"slab"`
	Plane *struct {
		Width          float32 `yaml:"width"`
		Height         float32 `yaml:"height"`
		OffsetX        float32 `yaml:"offset_x"`
		OffsetY        float32 `yaml:"offset_y"`
		BaseRotation   float32 `yaml:"base_rotation"`
		RepeatCount    int     `yaml:"repeat_count"`
		RepeatRotation float32 `yaml:"repeat_rotation"`
	} `yaml:"plane"`
}

var shapeNames = map[string]Shape{
	"":      ShapeNone,
	"none":  ShapeNone,
	"cube":  ShapeCube,
	"slab":  ShapeSlab,
	"plane": ShapePlane,
}

var flagNames = map[string]Flags{
	"visible":           FlagVisible,
	"blocks_visibility": FlagBlocksVisibility,
	"opaque":            FlagBlocksVisibility,
	"collidable":        FlagCollidable,
	"casts_shadows":     FlagCastsShadows,
	"mergeable_volume":  FlagMergeableVolume,
}

var faceNames = map[string]Face{
	"-x": FaceNegX, "+x": FacePosX,
	"-y": FaceNegY, "+y": FacePosY,
	"-z": FaceNegZ, "+z": FacePosZ,
	"west": FaceNegX, "east": FacePosX,
	"south": FaceNegY, "north": FacePosY,
	"bottom": FaceNegZ, "top": FacePosZ,
}

// LoadPalette reads a YAML palette file.
func LoadPalette(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read palette file: %w", err)
	}
	return ParsePalette(data)
}

// ParsePalette decodes a YAML palette document.
func ParsePalette(data []byte) (*Palette, error) {
	var pf paletteFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("could not unmarshal palette yaml: %w", err)
	}

	p := NewPalette()
	for i, e := range pf.Blocks {
		def, err := p.decodeBlock(e)
		if err != nil {
			return nil, fmt.Errorf("block #%d (%s): %w", i, e.Name, err)
		}
		if err := p.Register(def); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Palette) decodeBlock(e blockEntry) (*Descriptor, error) {
	if e.ID <= 0 || e.ID > 255 {
		return nil, fmt.Errorf("id %d out of range 1..255", e.ID)
	}
	shape, ok := shapeNames[strings.ToLower(e.Shape)]
	if !ok {
		log.Printf("registry: unknown shape %q for %s, treating as none", e.Shape, e.Name)
	}

	def := &Descriptor{ID: BlockType(e.ID), Name: e.Name, Shape: shape}
	for _, name := range e.Flags {
		f, ok := flagNames[strings.ToLower(name)]
		if !ok {
			log.Printf("registry: unknown flag %q for %s", name, e.Name)
			continue
		}
		def.Flags |= f
	}

	base, err := p.decodeFace(FaceVisual{
		UVMax:    mgl32.Vec2{1, 1},
		AtlasMax: mgl32.Vec2{1, 1},
		Color:    mgl32.Vec4{1, 1, 1, 1},
	}, e.Default, e.Name)
	if err != nil {
		return nil, err
	}
	def.Faces = SolidFaces(base)

	// Sorted so material indices do not depend on map order.
	names := make([]string, 0, len(e.Faces))
	for name := range e.Faces {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fe := e.Faces[name]
		face, ok := faceNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown face %q", name)
		}
		v, err := p.decodeFace(base, fe, "")
		if err != nil {
			return nil, fmt.Errorf("face %s: %w", name, err)
		}
		def.Faces[face] = v
	}

	if e.Slab != nil {
		def.Slab.Height = e.Slab.Height
	}
	if e.Plane != nil {
		def.Plane = PlaneParams{
			Width:          e.Plane.Width,
			Height:         e.Plane.Height,
			OffsetX:        e.Plane.OffsetX,
			OffsetY:        e.Plane.OffsetY,
			BaseRotation:   e.Plane.BaseRotation,
			RepeatCount:    e.Plane.RepeatCount,
			RepeatRotation: e.Plane.RepeatRotation,
		}
	}
	return def, nil
}

// decodeFace overlays fe on base. An empty fallback keeps the base material
// when fe names none.
func (p *Palette) decodeFace(base FaceVisual, fe faceEntry, fallback string) (FaceVisual, error) {
	v := base
	switch {
	case fe.Material != "":
		v.Material = p.Material(fe.Material)
	case fallback != "":
		v.Material = p.Material(fallback)
	}
	if fe.Color != "" {
		c, err := ParseColor(fe.Color)
		if err != nil {
			return v, err
		}
		v.Color = c
	}
	if len(fe.UV) != 0 {
		if len(fe.UV) != 4 {
			return v, fmt.Errorf("uv needs 4 values, got %d", len(fe.UV))
		}
		v.UVMin = mgl32.Vec2{fe.UV[0], fe.UV[1]}
		v.UVMax = mgl32.Vec2{fe.UV[2], fe.UV[3]}
	}
	if len(fe.Atlas) != 0 {
		if len(fe.Atlas) != 4 {
			return v, fmt.Errorf("atlas needs 4 values, got %d", len(fe.Atlas))
		}
		v.AtlasMin = mgl32.Vec2{fe.Atlas[0], fe.Atlas[1]}
		v.AtlasMax = mgl32.Vec2{fe.Atlas[2], fe.Atlas[3]}
	}
	return v, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" into a 0..1 RGBA vector.
func ParseColor(s string) (mgl32.Vec4, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return mgl32.Vec4{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mgl32.Vec4{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return mgl32.Vec4{
		float32(n>>24&0xff) / 255,
		float32(n>>16&0xff) / 255,
		float32(n>>8&0xff) / 255,
		float32(n&0xff) / 255,
	}, nil
}
