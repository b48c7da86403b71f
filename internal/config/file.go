package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration. Unset fields keep the current runtime
// value when applied.
type File struct {
	Palette string      `yaml:"palette"`
	Mesh    MeshFile    `yaml:"mesh"`
	Terrain TerrainFile `yaml:"terrain"`
	Metrics MetricsFile `yaml:"metrics"`
}

type MeshFile struct {
	AmbientOcclusion *bool `yaml:"ambient_occlusion"`
	Workers          int   `yaml:"workers"`
	LODLevel         *int  `yaml:"lod_level"`
}

type TerrainFile struct {
	Seed     *int64 `yaml:"seed"`
	SeaLevel *int   `yaml:"sea_level"`
	TileSize [3]int `yaml:"tile_size"`
}

type MetricsFile struct {
	// Dump names a file the CLI writes Prometheus text exposition to.
	Dump string `yaml:"dump"`
}

// Load reads a YAML configuration file.
// If path == "", it tries BLOCKMESH_CONFIG and returns nil, nil when that is
// unset too.
func Load(path string) (*File, error) {
	if path == "" {
		path = os.Getenv("BLOCKMESH_CONFIG")
		if path == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &f, nil
}

// Apply pushes the file's settings into the runtime settings.
func (f *File) Apply() {
	if f == nil {
		return
	}
	if f.Mesh.AmbientOcclusion != nil {
		SetAmbientOcclusion(*f.Mesh.AmbientOcclusion)
	}
	if f.Mesh.Workers > 0 {
		SetMeshWorkers(f.Mesh.Workers)
	}
	if f.Mesh.LODLevel != nil {
		SetLODLevel(*f.Mesh.LODLevel)
	}
	if f.Terrain.Seed != nil {
		SetSeed(*f.Terrain.Seed)
	}
	if f.Terrain.SeaLevel != nil {
		SetSeaLevel(*f.Terrain.SeaLevel)
	}
	if f.Terrain.TileSize != [3]int{} {
		SetTileSize(f.Terrain.TileSize)
	}
}
