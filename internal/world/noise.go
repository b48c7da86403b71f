package world

import (
	"math"
)

// Deterministic 2D value noise with octaves, hashed lattice values.

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash2 is a SplitMix64 style integer hash, stable across runs.
func hash2(x, y int64, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// unit maps a hash to [0,1].
func unit(h uint64) float64 {
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x, y float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := fade(x - x0)
	fy := fade(y - y0)

	ix, iy := int64(x0), int64(y0)
	v00 := unit(hash2(ix, iy, seed))
	v10 := unit(hash2(ix+1, iy, seed))
	v01 := unit(hash2(ix, iy+1, seed))
	v11 := unit(hash2(ix+1, iy+1, seed))

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fy)
}

// octaveNoise2D sums octaves of value noise and normalizes to [0,1].
func octaveNoise2D(x, y float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*frequency, y*frequency, seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
