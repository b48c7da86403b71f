package main

import (
	"fmt"
	"os"

	"blockmesh/internal/registry"
	"blockmesh/internal/world"

	"gopkg.in/yaml.v3"
)

// sceneFile is a volume described as a list of filled boxes, applied in order.
type sceneFile struct {
	Min   [3]int     `yaml:"min"`
	Max   [3]int     `yaml:"max"`
	Scale float32    `yaml:"scale"`
	Boxes []sceneBox `yaml:"boxes"`
}

type sceneBox struct {
	Block string `yaml:"block"`
	Min   [3]int `yaml:"min"`
	Max   [3]int `yaml:"max"`
}

func loadScene(path string, reg *registry.Palette) (*world.Volume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	return parseScene(data, reg)
}

func parseScene(data []byte, reg *registry.Palette) (*world.Volume, error) {
	var sf sceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	for a := 0; a < 3; a++ {
		if sf.Min[a] > sf.Max[a] {
			return nil, fmt.Errorf("scene box %v..%v is inverted", sf.Min, sf.Max)
		}
	}
	if sf.Scale <= 0 {
		sf.Scale = 1
	}

	v := world.New(sf.Min, sf.Max, sf.Scale, reg)
	for i, b := range sf.Boxes {
		id := registry.Air
		if b.Block != "" && b.Block != "air" {
			var ok bool
			if id, ok = reg.ID(b.Block); !ok {
				return nil, fmt.Errorf("box #%d: unknown block %q", i, b.Block)
			}
		}
		for z := max(b.Min[2], sf.Min[2]); z <= min(b.Max[2], sf.Max[2]); z++ {
			for y := max(b.Min[1], sf.Min[1]); y <= min(b.Max[1], sf.Max[1]); y++ {
				for x := max(b.Min[0], sf.Min[0]); x <= min(b.Max[0], sf.Max[0]); x++ {
					v.SetBlock(x, y, z, id)
				}
			}
		}
	}
	return v, nil
}
