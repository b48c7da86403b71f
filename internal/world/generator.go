package world

import (
	"math"

	"blockmesh/internal/profiling"
	"blockmesh/internal/registry"
)

// Generator fills volumes with a noise heightmap terrain. Heights are in
// absolute block Z, so adjacent volumes populated by the same generator line
// up seamlessly.
type Generator struct {
	Seed        int64
	Frequency   float64
	BaseHeight  int
	Amplitude   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	// SeaLevel is the highest Z filled with water above the terrain.
	// Below BaseHeight-Amplitude disables water.
	SeaLevel int
	// GrassChance is the probability of a tall grass plant on a dry surface.
	GrassChance float64
	// DirtDepth is how many dirt blocks sit between the surface and stone.
	DirtDepth int

	Stone, Dirt, Grass, Water, Plant registry.BlockType
}

// NewGenerator returns a generator with the default palette's block ids.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:        seed,
		Frequency:   1.0 / 32.0,
		BaseHeight:  8,
		Amplitude:   12,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
		SeaLevel:    6,
		GrassChance: 0.08,
		DirtDepth:   3,
		Stone:       registry.Stone,
		Dirt:        registry.Dirt,
		Grass:       registry.Grass,
		Water:       registry.Water,
		Plant:       registry.TallGrass,
	}
}

// HeightAt computes the surface block Z at world column (x, y).
func (g *Generator) HeightAt(x, y int) int {
	n := octaveNoise2D(float64(x)*g.Frequency, float64(y)*g.Frequency, g.Seed, g.Octaves, g.Persistence, g.Lacunarity)
	h := float64(g.BaseHeight) + (n-0.5)*2*g.Amplitude
	return int(math.Floor(h))
}

// Populate overwrites every cell of v with terrain clipped to v's box.
func (g *Generator) Populate(v *Volume) {
	defer profiling.Track("world.Populate")()
	v.Clear()
	for y := v.Min[1]; y <= v.Max[1]; y++ {
		for x := v.Min[0]; x <= v.Max[0]; x++ {
			g.fillColumn(v, x, y)
		}
	}
}

func (g *Generator) fillColumn(v *Volume, x, y int) {
	top := g.HeightAt(x, y)
	for z := v.Min[2]; z <= min(top, v.Max[2]); z++ {
		id := g.Stone
		switch {
		case z == top && top >= g.SeaLevel:
			id = g.Grass
		case z > top-1-g.DirtDepth:
			id = g.Dirt
		}
		v.SetBlock(x, y, z, id)
	}
	for z := max(top+1, v.Min[2]); z <= min(g.SeaLevel, v.Max[2]); z++ {
		v.SetBlock(x, y, z, g.Water)
	}
	plant := top + 1
	if top >= g.SeaLevel && g.Plant != registry.Air && v.Contains(x, y, plant) &&
		unit(hash2(int64(x), int64(y), g.Seed^0x5bd1e995)) < g.GrassChance {
		v.SetBlock(x, y, plant, g.Plant)
	}
}
