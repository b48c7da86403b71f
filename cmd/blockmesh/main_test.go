package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blockmesh/internal/config"
	"blockmesh/internal/gpu"
	"blockmesh/internal/registry"
	"blockmesh/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScene = `
min: [0, 0, 0]
max: [3, 3, 3]
boxes:
  - block: stone
    min: [0, 0, 0]
    max: [3, 3, 1]
  - block: air
    min: [1, 1, 1]
    max: [1, 1, 1]
  - block: glass
    min: [2, 2, 2]
    max: [9, 9, 2]
`

func TestParseScene(t *testing.T) {
	v, err := parseScene([]byte(testScene), registry.Default())
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 4, 4}, v.Dims())
	assert.Equal(t, float32(1), v.Scale)
	assert.Equal(t, registry.Stone, v.GetBlock(0, 0, 1))
	assert.Equal(t, registry.Air, v.GetBlock(1, 1, 1))
	assert.Equal(t, registry.Glass, v.GetBlock(3, 3, 2))
	assert.Equal(t, 4*4*2-1+4, v.CountActive())

	_, err = parseScene([]byte("boxes: [{block: lava}]"), registry.Default())
	assert.ErrorContains(t, err, "lava")
	_, err = parseScene([]byte("min: [1,0,0]\nmax: [0,0,0]"), registry.Default())
	assert.Error(t, err)
}

func TestMeshVolumeUploads(t *testing.T) {
	v, err := parseScene([]byte(testScene), registry.Default())
	require.NoError(t, err)

	f := &gpu.MemoryBufferFactory{}
	up := &uploader{factory: f, layout: gpu.LayoutFull}
	render, coll, err := meshVolume(v, true, up)
	require.NoError(t, err)
	assert.Equal(t, 1, render.meshes)
	assert.Positive(t, render.triangles)
	assert.Positive(t, coll.triangles)
	assert.Equal(t, f.Bytes(), render.uploaded)

	up.release()
	assert.Zero(t, f.Live())

	var sb strings.Builder
	render.print(&sb, "render")
	assert.Contains(t, sb.String(), "render: 1 meshes")
}

func TestMeshTerrain(t *testing.T) {
	config.SetTileSize([3]int{8, 8, 8})
	config.SetMeshWorkers(2)
	defer config.SetTileSize([3]int{32, 32, 32})
	defer config.SetMeshWorkers(4)

	reg := registry.Default()
	store, render, coll, err := meshTerrain(context.Background(), reg, [3]int{16, 16, 16}, true, nil)
	require.NoError(t, err)
	assert.Len(t, store.Coords(), 8)
	assert.Equal(t, 8, render.meshes)
	assert.Equal(t, 8, coll.meshes)
	assert.Positive(t, render.triangles)
	assert.Empty(t, store.Dirty())

	v := flatten(store, reg, [3]int{16, 16, 16})
	assert.Equal(t, store.Get(5, 6, 7), v.GetBlock(5, 6, 7))
}

func TestDumpMetrics(t *testing.T) {
	_, _, err := meshVolume(mustScene(t), false, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "metrics.txt")
	require.NoError(t, dumpMetrics(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "blockmesh_meshes_generated_total")
}

func mustScene(t *testing.T) *world.Volume {
	t.Helper()
	v, err := parseScene([]byte(testScene), registry.Default())
	require.NoError(t, err)
	return v
}
