package config

import "sync"

// WorldGenSettings holds terrain generation configuration
type WorldGenSettings struct {
	mu       sync.RWMutex
	seed     int64
	seaLevel int
	tileSize [3]int
}

var globalWorldGenSettings = &WorldGenSettings{
	seed:     1,
	seaLevel: 6,
	tileSize: [3]int{32, 32, 32},
}

// GetSeed returns the terrain seed
func GetSeed() int64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seed
}

// SetSeed sets the terrain seed
func SetSeed(seed int64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seed = seed
}

// GetSeaLevel returns the configured sea level
func GetSeaLevel() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seaLevel
}

// SetSeaLevel sets the sea level
func SetSeaLevel(level int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seaLevel = level
}

// GetTileSize returns the edge lengths of terrain tiles
func GetTileSize() [3]int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.tileSize
}

// SetTileSize sets the tile edge lengths, each clamped to 1..256
func SetTileSize(size [3]int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	for i := range size {
		size[i] = min(max(size[i], 1), 256)
	}
	globalWorldGenSettings.tileSize = size
}
