package registry

import "github.com/go-gl/mathgl/mgl32"

// Ids of the built-in palette.
const (
	Stone BlockType = iota + 1
	Dirt
	Grass
	Glass
	Water
	StoneSlab
	TallGrass
	Barrier
)

const solid = FlagVisible | FlagBlocksVisibility | FlagCollidable | FlagCastsShadows

// Default returns the built-in palette used by the CLI and tests.
func Default() *Palette {
	p := NewPalette()

	cube := func(id BlockType, name string, flags Flags, color mgl32.Vec4) *Descriptor {
		return &Descriptor{
			ID:    id,
			Name:  name,
			Shape: ShapeCube,
			Flags: flags,
			Faces: SolidFaces(FaceVisual{
				UVMax:    mgl32.Vec2{1, 1},
				AtlasMax: mgl32.Vec2{1, 1},
				Color:    color,
				Material: p.Material(name),
			}),
		}
	}

	p.MustRegister(cube(Stone, "stone", solid, mgl32.Vec4{0.5, 0.5, 0.5, 1}))
	p.MustRegister(cube(Dirt, "dirt", solid, mgl32.Vec4{0.45, 0.3, 0.2, 1}))

	grass := cube(Grass, "grass", solid, mgl32.Vec4{0.45, 0.3, 0.2, 1})
	grass.Faces[FacePosZ].Color = mgl32.Vec4{0.49, 1, 0.36, 1}
	grass.Faces[FacePosZ].Material = p.Material("grass_top")
	p.MustRegister(grass)

	p.MustRegister(cube(Glass, "glass", FlagVisible|FlagCollidable, mgl32.Vec4{0.8, 0.9, 1, 0.4}))

	water := cube(Water, "water", FlagVisible|FlagMergeableVolume, mgl32.Vec4{0.2, 0.4, 0.9, 0.7})
	water.Shape = ShapeSlab
	water.Slab.Height = 0.875
	p.MustRegister(water)

	slab := cube(StoneSlab, "stone_slab", FlagVisible|FlagCollidable|FlagCastsShadows, mgl32.Vec4{0.55, 0.55, 0.55, 1})
	slab.Shape = ShapeSlab
	slab.Slab.Height = 0.5
	p.MustRegister(slab)

	tall := cube(TallGrass, "tall_grass", FlagVisible, mgl32.Vec4{0.4, 0.8, 0.3, 1})
	tall.Shape = ShapePlane
	tall.Plane = PlaneParams{
		Width:          1,
		Height:         1,
		BaseRotation:   45,
		RepeatCount:    2,
		RepeatRotation: 90,
	}
	p.MustRegister(tall)

	p.MustRegister(&Descriptor{ID: Barrier, Name: "barrier", Shape: ShapeCube, Flags: FlagCollidable})

	return p
}
