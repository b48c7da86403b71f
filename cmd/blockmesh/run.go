package main

import (
	"context"
	"fmt"
	"io"

	"blockmesh/internal/config"
	"blockmesh/internal/gpu"
	"blockmesh/internal/meshing"
	"blockmesh/internal/registry"
	"blockmesh/internal/world"
)

// stats sums what was meshed and uploaded.
type stats struct {
	meshes    int
	empty     int
	vertices  int
	triangles int
	batches   int
	uploaded  int
}

func (s *stats) add(m *meshing.Mesh) {
	s.meshes++
	if m.Empty() {
		s.empty++
	}
	s.vertices += len(m.Vertices)
	s.triangles += len(m.Triangles)
	s.batches += len(m.Batches)
}

func (s *stats) print(w io.Writer, label string) {
	fmt.Fprintf(w, "%s: %d meshes (%d empty), %d vertices, %d triangles, %d batches, %d bytes uploaded\n",
		label, s.meshes, s.empty, s.vertices, s.triangles, s.batches, s.uploaded)
}

// uploader pushes meshes through a buffer factory and keeps them for release.
type uploader struct {
	factory gpu.BufferFactory
	layout  gpu.Layout
	meshes  []*gpu.DeviceMesh
}

func (u *uploader) upload(m *meshing.Mesh, st *stats) error {
	if u == nil {
		return nil
	}
	dm, err := gpu.CreateDeviceResources(m, u.factory, u.layout)
	if err != nil {
		return err
	}
	u.meshes = append(u.meshes, dm)
	st.uploaded += dm.VertexCount*u.layout.Stride() + dm.IndexCount*int(dm.IndexWidth)
	return nil
}

func (u *uploader) release() {
	if u == nil {
		return
	}
	for _, dm := range u.meshes {
		dm.Release(u.factory)
	}
	u.meshes = nil
}

// meshVolume builds the render and, if asked, collision mesh of one volume.
func meshVolume(v *world.Volume, collision bool, up *uploader) (render, coll stats, err error) {
	b := meshing.NewBuilderForVolume(v, [registry.NumFaces][]registry.BlockType{})
	m := b.GenerateRenderMesh()
	render.add(m)
	if err := up.upload(m, &render); err != nil {
		return render, coll, err
	}
	if collision {
		coll.add(b.GenerateCollisionMesh())
	}
	return render, coll, nil
}

// meshTerrain generates extent^3 blocks of terrain into a tile store and
// meshes every tile on the worker pool.
func meshTerrain(ctx context.Context, reg registry.Registry, extent [3]int, collision bool, up *uploader) (*world.Store, stats, stats, error) {
	var render, coll stats

	gen := world.NewGenerator(config.GetSeed())
	gen.SeaLevel = config.GetSeaLevel()
	store := world.NewStore(config.GetTileSize(), 1, reg)
	store.Fill(gen, [3]int{0, 0, 0}, [3]int{extent[0] - 1, extent[1] - 1, extent[2] - 1})

	coords := store.Coords()
	kinds := []meshing.Kind{meshing.KindRender}
	if collision {
		kinds = append(kinds, meshing.KindCollision)
	}

	pool := meshing.NewWorkerPool(ctx, config.GetMeshWorkers(), len(coords)*len(kinds))
	defer pool.Shutdown()
	results := make(chan meshing.Result, len(coords)*len(kinds))
	for _, c := range coords {
		for _, k := range kinds {
			job := meshing.Job{
				Tile:       c,
				Volume:     store.Tile(c, false),
				Neighbors:  store.Neighbors(c),
				Kind:       k,
				ResultChan: results,
			}
			if err := pool.SubmitJobBlocking(job); err != nil {
				return store, render, coll, err
			}
		}
	}

	var firstErr error
	for i := 0; i < len(coords)*len(kinds); i++ {
		var r meshing.Result
		select {
		case r = <-results:
		case <-ctx.Done():
			return store, render, coll, ctx.Err()
		}
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		if r.Kind == meshing.KindCollision {
			coll.add(r.Mesh)
			continue
		}
		render.add(r.Mesh)
		// Uploads stay on this goroutine, which owns the GL context.
		if err := up.upload(r.Mesh, &render); err != nil && firstErr == nil {
			firstErr = err
		}
		store.Tile(r.Tile, false).SetClean()
	}
	return store, render, coll, firstErr
}

// flatten copies a store region into one volume for previews.
func flatten(s *world.Store, reg registry.Registry, extent [3]int) *world.Volume {
	v := world.NewSized(extent[0], extent[1], extent[2], s.Scale, reg)
	for z := 0; z < extent[2]; z++ {
		for y := 0; y < extent[1]; y++ {
			for x := 0; x < extent[0]; x++ {
				v.SetBlock(x, y, z, s.Get(x, y, z))
			}
		}
	}
	return v
}
