package renderer

import "fmt"

// UniformBuffer is a fixed-size uniform buffer that is overwritten wholesale at offset zero.
// The size is set at creation; writes of any other size are rejected so the buffer never grows.
type UniformBuffer struct {
	backend Backend
	buffer  Buffer
}

// NewUniformBuffer allocates a buffer of size bytes attached to binding.
//
// Parameters:
//   - backend: the backend that owns the buffer
//   - label: a debug label
//   - size: size in bytes
//   - binding: the uniform binding slot
//
// Returns:
//   - *UniformBuffer: the buffer
//   - error: the backend's allocation error
func NewUniformBuffer(backend Backend, label string, size int, binding uint32) (*UniformBuffer, error) {
	buf, err := backend.CreateBuffer(label, size, binding)
	if err != nil {
		return nil, fmt.Errorf("renderer: creating %s buffer: %w", label, err)
	}
	return &UniformBuffer{backend: backend, buffer: buf}, nil
}

// Write replaces the buffer contents.
//
// Parameters:
//   - data: exactly Size() bytes
//
// Returns:
//   - error: ErrUniformOverflow if len(data) differs from the buffer size
func (u *UniformBuffer) Write(data []byte) error {
	if len(data) != u.buffer.Size() {
		return fmt.Errorf("%w: got %d bytes, buffer %q holds %d", ErrUniformOverflow, len(data), u.buffer.Label(), u.buffer.Size())
	}
	u.backend.WriteBuffer(u.buffer, 0, data)
	return nil
}

func (u *UniformBuffer) Size() int {
	return u.buffer.Size()
}

func (u *UniformBuffer) Release() {
	u.buffer.Release()
}
