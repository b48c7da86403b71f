package meshing

import (
	"context"
	"testing"
	"time"

	"blockmesh/internal/registry"
	"blockmesh/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func terrainStore(t *testing.T) *world.Store {
	t.Helper()
	s := world.NewStore([3]int{8, 8, 8}, 1, registry.Default())
	s.Fill(world.NewGenerator(7), [3]int{0, 0, 0}, [3]int{15, 15, 15})
	require.NotEmpty(t, s.Coords())
	return s
}

func TestWorkerPoolMatchesDirectBuild(t *testing.T) {
	s := terrainStore(t)
	pool := NewWorkerPool(context.Background(), 3, 16)
	defer pool.Shutdown()
	assert.Equal(t, 3, pool.Workers())

	coords := s.Coords()
	results := make(chan Result, len(coords)*2)
	for _, c := range coords {
		for _, k := range []Kind{KindRender, KindCollision} {
			require.NoError(t, pool.SubmitJobBlocking(Job{
				Tile:       c,
				Volume:     s.Tile(c, false),
				Neighbors:  s.Neighbors(c),
				Kind:       k,
				ResultChan: results,
			}))
		}
	}

	for i := 0; i < len(coords)*2; i++ {
		var r Result
		select {
		case r = <-results:
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for mesh results")
		}
		require.NoError(t, r.Err)

		b := NewBuilderForVolume(s.Tile(r.Tile, false), s.Neighbors(r.Tile))
		want := b.GenerateRenderMesh()
		if r.Kind == KindCollision {
			want = b.GenerateCollisionMesh()
		}
		assert.Equal(t, len(want.Triangles), len(r.Mesh.Triangles), "%v %v", r.Tile, r.Kind)
		assert.Equal(t, want.Batches, r.Mesh.Batches, "%v %v", r.Tile, r.Kind)
	}
}

func TestWorkerPoolSnapshotsVolume(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1, 1)
	defer pool.Shutdown()

	v := world.NewSized(1, 1, 1, 1, registry.Default())
	v.SetBlock(0, 0, 0, registry.Stone)
	results := make(chan Result, 1)
	job := Job{Volume: v, ResultChan: results}
	require.NoError(t, pool.SubmitJobBlocking(job))
	v.SetBlock(0, 0, 0, registry.Air)

	r := <-results
	require.NoError(t, r.Err)
	assert.Len(t, r.Mesh.Triangles, 12)
}

func TestWorkerPoolReportsMalformedJobs(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1, 2)
	defer pool.Shutdown()

	v := world.NewSized(2, 2, 2, 1, registry.Default())
	results := make(chan Result, 2)
	bad := Job{Tile: world.TileCoord{X: 4}, Volume: v, ResultChan: results}
	bad.Neighbors[registry.FacePosZ] = make([]registry.BlockType, 3)
	require.NoError(t, pool.SubmitJobBlocking(bad))
	require.NoError(t, pool.SubmitJobBlocking(Job{Kind: KindCollision, ResultChan: results}))

	for i := 0; i < 2; i++ {
		r := <-results
		assert.Error(t, r.Err)
		assert.Nil(t, r.Mesh)
	}
}

func TestWorkerPoolShutdown(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2, 4)
	pool.Shutdown()
	pool.Shutdown()

	job := Job{Volume: world.NewSized(1, 1, 1, 1, registry.Default()), ResultChan: make(chan Result, 1)}
	assert.False(t, pool.SubmitJob(job))
	assert.ErrorIs(t, pool.SubmitJobBlocking(job), context.Canceled)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "render", KindRender.String())
	assert.Equal(t, "collision", KindCollision.String())
}
