package gpu

import (
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLBufferFactory creates OpenGL buffer objects. It must be used on the
// thread owning a current GL context, after gl.Init.
type GLBufferFactory struct {
	// Usage is the BufferData usage hint, gl.STATIC_DRAW when zero.
	Usage uint32
}

func (g *GLBufferFactory) upload(data []byte) Handle {
	if len(data) == 0 {
		return 0
	}
	usage := g.Usage
	if usage == 0 {
		usage = gl.STATIC_DRAW
	}

	var id uint32
	gl.GenBuffers(1, &id)
	// COPY_WRITE_BUFFER binds without a VAO, for index data too.
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, id)
	gl.BufferData(gl.COPY_WRITE_BUFFER, len(data), gl.Ptr(data), usage)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		log.Printf("gpu: BufferData of %d bytes failed: 0x%x", len(data), code)
		gl.DeleteBuffers(1, &id)
		return 0
	}
	return Handle(id)
}

// CreateVertexBuffer implements BufferFactory.
func (g *GLBufferFactory) CreateVertexBuffer(data []byte) Handle {
	return g.upload(data)
}

// CreateIndexBuffer implements BufferFactory.
func (g *GLBufferFactory) CreateIndexBuffer(data []byte, _ IndexWidth) Handle {
	return g.upload(data)
}

// Release implements Releaser.
func (g *GLBufferFactory) Release(h Handle) {
	id := uint32(h)
	gl.DeleteBuffers(1, &id)
}

// CreateVertexArray builds a VAO binding d's buffers with d's layout.
func (g *GLBufferFactory) CreateVertexArray(d *DeviceMesh) uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(d.VertexBuffer))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(d.IndexBuffer))

	stride := int32(d.Layout.Stride())
	for _, a := range d.Layout.Attributes() {
		gl.EnableVertexAttribArray(a.Location)
		switch a.Kind {
		case Float32:
			gl.VertexAttribPointerWithOffset(a.Location, int32(a.Components), gl.FLOAT, false, stride, uintptr(a.Offset))
		case UNorm8:
			gl.VertexAttribPointerWithOffset(a.Location, int32(a.Components), gl.UNSIGNED_BYTE, true, stride, uintptr(a.Offset))
		case Uint8:
			gl.VertexAttribIPointerWithOffset(a.Location, int32(a.Components), gl.UNSIGNED_BYTE, stride, uintptr(a.Offset))
		}
	}

	gl.BindVertexArray(0)
	return vao
}

// IndexType returns the GL element type for w.
func IndexType(w IndexWidth) uint32 {
	if w == Index16 {
		return gl.UNSIGNED_SHORT
	}
	return gl.UNSIGNED_INT
}
