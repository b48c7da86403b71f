package gpu

import "sync"

// MemoryBufferFactory keeps buffers in host memory. It backs tests and the
// CLI when no GL context is available.
type MemoryBufferFactory struct {
	// FailVertex and FailIndex make the matching create call return the
	// null handle.
	FailVertex bool
	FailIndex  bool

	mu      sync.Mutex
	next    Handle
	buffers map[Handle]memoryBuffer
}

type memoryBuffer struct {
	data  []byte
	width IndexWidth
}

func (m *MemoryBufferFactory) create(data []byte, width IndexWidth) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buffers == nil {
		m.buffers = make(map[Handle]memoryBuffer)
	}
	m.next++
	m.buffers[m.next] = memoryBuffer{data: append([]byte(nil), data...), width: width}
	return m.next
}

// CreateVertexBuffer implements BufferFactory.
func (m *MemoryBufferFactory) CreateVertexBuffer(data []byte) Handle {
	if m.FailVertex {
		return 0
	}
	return m.create(data, 0)
}

// CreateIndexBuffer implements BufferFactory.
func (m *MemoryBufferFactory) CreateIndexBuffer(data []byte, width IndexWidth) Handle {
	if m.FailIndex {
		return 0
	}
	return m.create(data, width)
}

// Release implements Releaser.
func (m *MemoryBufferFactory) Release(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buffers, h)
}

// Buffer returns a buffer's contents and index width (zero for vertex
// buffers).
func (m *MemoryBufferFactory) Buffer(h Handle) ([]byte, IndexWidth, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buffers[h]
	return b.data, b.width, ok
}

// Live returns the number of buffers not yet released.
func (m *MemoryBufferFactory) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffers)
}

// Bytes returns the total size of live buffers.
func (m *MemoryBufferFactory) Bytes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.buffers {
		n += len(b.data)
	}
	return n
}
