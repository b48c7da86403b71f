package meshing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindLabel     = "kind"
	kindRender    = "render"
	kindCollision = "collision"
)

var (
	meshesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockmesh_meshes_generated_total",
		Help: "The number of meshes built.",
	}, []string{
		kindLabel,
	})

	trianglesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockmesh_triangles_generated_total",
		Help: "The number of triangles in built meshes.",
	}, []string{
		kindLabel,
	})

	poolJobFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockmesh_pool_job_failures_total",
		Help: "Mesh pool jobs that panicked.",
	})
)

func observeMesh(kind string, m *Mesh) {
	labels := prometheus.Labels{kindLabel: kind}
	meshesGenerated.With(labels).Inc()
	trianglesGenerated.With(labels).Add(float64(len(m.Triangles)))
}
