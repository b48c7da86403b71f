package gpu

import (
	"errors"
	"fmt"

	"blockmesh/internal/meshing"
	"blockmesh/internal/physics"
)

// ErrBufferCreation is returned when a factory hands back the null handle.
var ErrBufferCreation = errors.New("gpu: buffer creation failed")

// Handle names a device buffer. Zero is the null handle.
type Handle uint32

// BufferFactory turns packed arrays into device buffers. It returns the zero
// Handle on failure.
type BufferFactory interface {
	CreateVertexBuffer(data []byte) Handle
	CreateIndexBuffer(data []byte, width IndexWidth) Handle
}

// Releaser is implemented by factories that can free what they created.
type Releaser interface {
	Release(h Handle)
}

// DeviceMesh is a mesh uploaded through a BufferFactory.
type DeviceMesh struct {
	VertexBuffer Handle
	IndexBuffer  Handle
	IndexWidth   IndexWidth
	Layout       Layout
	VertexCount  int
	IndexCount   int
	Batches      []meshing.Batch
	Bounds       physics.AABB
	Sphere       meshing.Sphere
}

// Empty reports whether there is nothing to draw.
func (d *DeviceMesh) Empty() bool { return d.IndexCount == 0 }

// Release frees the buffers if factory supports it.
func (d *DeviceMesh) Release(factory BufferFactory) {
	r, ok := factory.(Releaser)
	if !ok {
		return
	}
	if d.IndexBuffer != 0 {
		r.Release(d.IndexBuffer)
		d.IndexBuffer = 0
	}
	if d.VertexBuffer != 0 {
		r.Release(d.VertexBuffer)
		d.VertexBuffer = 0
	}
}

// CreateDeviceResources packs mesh with layout and uploads it. An empty mesh
// yields a DeviceMesh with null handles without touching the factory. On
// failure nothing stays allocated on factories that implement Releaser, and
// mesh is left untouched so it can be uploaded again.
func CreateDeviceResources(mesh *meshing.Mesh, factory BufferFactory, layout Layout) (*DeviceMesh, error) {
	dm := &DeviceMesh{
		Layout:      layout,
		VertexCount: len(mesh.Vertices),
		IndexCount:  len(mesh.Triangles) * 3,
		Batches:     append([]meshing.Batch(nil), mesh.Batches...),
		Bounds:      mesh.Bounds,
		Sphere:      mesh.Sphere,
	}
	dm.IndexWidth = IndexWidthFor(dm.VertexCount)
	if mesh.Empty() {
		return dm, nil
	}

	dm.VertexBuffer = factory.CreateVertexBuffer(PackVertices(mesh.Vertices, layout))
	if dm.VertexBuffer == 0 {
		return nil, fmt.Errorf("%w: vertex buffer (%d vertices, %s)", ErrBufferCreation, dm.VertexCount, layout)
	}

	indices, width := PackIndices(mesh.Indices(), dm.VertexCount)
	dm.IndexBuffer = factory.CreateIndexBuffer(indices, width)
	if dm.IndexBuffer == 0 {
		dm.Release(factory)
		return nil, fmt.Errorf("%w: index buffer (%d indices, %d-byte)", ErrBufferCreation, dm.IndexCount, width)
	}
	return dm, nil
}
