package meshing

import (
	"blockmesh/internal/profiling"
	"blockmesh/internal/registry"
)

// GenerateRenderMesh rebuilds the render mesh: visible cube and slab faces
// merged into quads with per-corner ambient occlusion, plane shapes, then
// triangles sorted and grouped into batches. The returned mesh is owned by
// the builder and is overwritten by the next Generate call.
func (b *Builder) GenerateRenderMesh() *Mesh {
	defer profiling.Track("meshing.GenerateRenderMesh")()
	b.prepare("GenerateRenderMesh")
	b.precompute(registry.FlagBlocksVisibility, func(d *registry.Descriptor) bool {
		return d.Visible()
	}, b.AmbientOcclusion)

	for f := registry.Face(0); f < registry.NumFaces; f++ {
		b.greedy(f, b.renderJoin(f), b.emitRender)
	}
	b.emitPlanes()
	b.out.finalize()
	observeMesh(kindRender, &b.out)
	return &b.out
}

// GenerateCollisionMesh rebuilds the mesh as collision geometry: faces of
// collidable cubes and slabs not covered by another collidable cube, merged
// on block id alone. Vertices carry positions and face indices only; all
// triangles use material 0.
func (b *Builder) GenerateCollisionMesh() *Mesh {
	defer profiling.Track("meshing.GenerateCollisionMesh")()
	b.prepare("GenerateCollisionMesh")
	b.precompute(registry.FlagCollidable, func(d *registry.Descriptor) bool {
		return d.Collidable() && (d.Shape == registry.ShapeCube || d.Shape == registry.ShapeSlab)
	}, false)

	for f := registry.Face(0); f < registry.NumFaces; f++ {
		b.greedy(f, b.collisionJoin, b.emitCollision)
	}
	b.out.finalize()
	observeMesh(kindCollision, &b.out)
	return &b.out
}

// GenerateSilhouetteMesh clears the outputs and produces no geometry.
// Silhouette extraction is not implemented.
func (b *Builder) GenerateSilhouetteMesh() *Mesh {
	b.prepare("GenerateSilhouetteMesh")
	return &b.out
}

func (b *Builder) emitRender(f registry.Face, p [3]int, run [2]int) {
	b.emitQuad(f, p, run, false)
}

func (b *Builder) emitCollision(f registry.Face, p [3]int, run [2]int) {
	b.emitQuad(f, p, run, true)
}
