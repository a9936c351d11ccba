package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
)

// ImageAccess is how a shader may touch an image bound to an image unit.
type ImageAccess int

const (
	AccessReadOnly ImageAccess = iota
	AccessWriteOnly
	AccessReadWrite
)

func (a ImageAccess) String() string {
	switch a {
	case AccessReadOnly:
		return "read"
	case AccessWriteOnly:
		return "write"
	default:
		return "read_write"
	}
}

// BarrierBits selects which kinds of access a memory barrier orders.
type BarrierBits uint32

const (
	// BarrierImageAccess orders image stores before later image loads and texture samples.
	BarrierImageAccess BarrierBits = 1 << iota

	// BarrierTextureFetch orders writes before later texture fetches.
	BarrierTextureFetch

	// BarrierUniform orders writes before later uniform buffer reads.
	BarrierUniform
)

// ImageFormat is the texel format of an image.
type ImageFormat int

const (
	// FormatRGBA32F is four 32-bit float channels.
	FormatRGBA32F ImageFormat = iota
)

// FilterMode is a texture sampling filter.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// WrapMode is a texture addressing mode.
type WrapMode int

const (
	WrapClampToEdge WrapMode = iota
	WrapRepeat
)

// ImageDescriptor describes an image to create.
type ImageDescriptor struct {
	Label     string
	Width     int
	Height    int
	Format    ImageFormat
	Wrap      WrapMode
	MinFilter FilterMode
	MagFilter FilterMode
}

// Handle is a native GPU object owned by exactly one Go value.
// Release frees the native object; calling it more than once is a no-op.
type Handle interface {
	Label() string
	Release()
}

// Program is a linked shader program or pipeline.
type Program interface {
	Handle
}

// Image is a 2-D texture usable as a storage image and as a sampled texture.
type Image interface {
	Handle
	Width() int
	Height() int
}

// Buffer is a uniform buffer attached to a fixed binding slot.
type Buffer interface {
	Handle
	Size() int
	Binding() uint32
}

// Mesh is an indexed triangle list with interleaved float vertex attributes.
type Mesh interface {
	Handle
	IndexCount() int
}

// GPUError is one error code reported asynchronously by the graphics API.
type GPUError struct {
	Code    uint32
	Message string
}

func (e GPUError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gpu error 0x%04X", e.Code)
	}
	return fmt.Sprintf("gpu error 0x%04X: %s", e.Code, e.Message)
}

// Backend is the capability interface every GPU command goes through.
// ComputeRenderer and Presenter depend only on this interface, so a recording implementation can
// stand in for a real device. Setup methods return errors; per-frame methods do not, and any
// asynchronous failure they cause is reported by DrainErrors.
type Backend interface {
	// Name identifies the implementation in logs.
	//
	// Returns:
	//   - string: the backend name
	Name() string

	// CreateProgram compiles and links shaders into a program.
	// A single compute shader yields a compute program; a vertex and fragment pair yields a draw program.
	//
	// Parameters:
	//   - label: a debug label, used in LinkError
	//   - shaders: the reflected shaders
	//
	// Returns:
	//   - Program: the linked program
	//   - error: a *shader.CompilationError, *shader.LinkError or ErrUnsupportedStages
	CreateProgram(label string, shaders ...shader.Shader) (Program, error)

	// CreateImage allocates an image. Its contents are undefined until written.
	//
	// Parameters:
	//   - desc: size, format, wrap and filter settings
	//
	// Returns:
	//   - Image: the allocated image
	//   - error: error if the size is invalid or allocation fails
	CreateImage(desc ImageDescriptor) (Image, error)

	// CreateBuffer allocates a uniform buffer of a fixed size and attaches it to binding.
	//
	// Parameters:
	//   - label: a debug label
	//   - size: size in bytes, never changes afterwards
	//   - binding: the uniform binding slot
	//
	// Returns:
	//   - Buffer: the allocated buffer
	//   - error: error if allocation fails
	CreateBuffer(label string, size int, binding uint32) (Buffer, error)

	// CreateMesh uploads a static indexed mesh.
	//
	// Parameters:
	//   - label: a debug label
	//   - vertices: interleaved float vertex data
	//   - indices: triangle list indices
	//   - attributeSizes: component count of each attribute, in location order
	//
	// Returns:
	//   - Mesh: the uploaded mesh
	//   - error: error if the layout does not divide the vertex data or upload fails
	CreateMesh(label string, vertices []float32, indices []uint32, attributeSizes []int) (Mesh, error)

	// SetUniformInt assigns an integer to a named uniform, used to point a sampler at a texture unit.
	//
	// Parameters:
	//   - p: the program that declares the uniform
	//   - name: the uniform variable name
	//   - value: the value to store
	//
	// Returns:
	//   - error: ErrUnknownUniform if the program has no such uniform
	SetUniformInt(p Program, name string, value int32) error

	// UseProgram makes p the program for subsequent dispatch and draw calls.
	UseProgram(p Program)

	// WriteBuffer overwrites part of a buffer. Writes are ordered before later commands that read it.
	WriteBuffer(b Buffer, offset int, data []byte)

	// BindImage binds an image to a storage image unit.
	BindImage(img Image, unit uint32, access ImageAccess)

	// DispatchCompute runs the active compute program over x*y*z workgroups.
	DispatchCompute(x, y, z uint32)

	// MemoryBarrier makes prior shader writes of the given kinds visible to later commands.
	MemoryBarrier(bits BarrierBits)

	// BindTexture binds an image to a sampled texture unit.
	BindTexture(img Image, unit uint32)

	// Clear sets the color the next frame starts from.
	Clear(color [4]float32)

	// DrawIndexed draws a mesh with the active draw program.
	DrawIndexed(m Mesh)

	// Finish blocks until every submitted command has completed.
	Finish()

	// Present displays the finished frame.
	Present()

	// DrainErrors returns and clears every pending asynchronous error.
	DrainErrors() []GPUError

	// Release frees device-level objects. Handles must be released first.
	Release()
}
