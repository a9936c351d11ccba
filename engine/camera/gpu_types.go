package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the WGSL definition of the Camera struct.
// Matches GPUCameraUniform layout exactly (80 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniformGLSLSource is the GLSL std140 uniform block matching GPUCameraUniform.
//
//go:embed assets/camera_uniform.glsl
var GPUCameraUniformGLSLSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Layout follows std140 (GLSL) and the WGSL uniform address space rules, which agree here:
// a vec3 is 16-byte aligned and each mat3 column occupies 16 bytes.
// Size: 80 bytes.
type GPUCameraUniform struct {
	Position [3]float32    // offset  0: world-space position (vec3)
	_pad0    float32       // offset 12
	Rotation [3][4]float32 // offset 16: rotation matrix columns (mat3), w unused
	Fov      [2]float32    // offset 64: horizontal and vertical fov in degrees (vec2)
	_pad1    [2]float32    // offset 72: struct size rounds up to 16
}

// NewGPUCameraUniform packs a position, rotation and field of view into the uniform layout.
//
// Parameters:
//   - position: world-space camera position
//   - rotation: column-major rotation matrix
//   - fov: horizontal and vertical field of view in degrees
//
// Returns:
//   - GPUCameraUniform: the packed record
func NewGPUCameraUniform(position mgl32.Vec3, rotation mgl32.Mat3, fov mgl32.Vec2) GPUCameraUniform {
	u := GPUCameraUniform{
		Position: position,
		Fov:      fov,
	}
	for col := range 3 {
		c := rotation.Col(col)
		u.Rotation[col] = [4]float32{c[0], c[1], c[2], 0}
	}
	return u
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Column returns one column of the rotation matrix without its padding.
func (g *GPUCameraUniform) Column(col int) mgl32.Vec3 {
	return mgl32.Vec3{g.Rotation[col][0], g.Rotation[col][1], g.Rotation[col][2]}
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
// Padding words are always written as zero.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
	}
	for col := range 3 {
		for row := range 3 {
			binary.LittleEndian.PutUint32(buf[16+col*16+row*4:], math.Float32bits(g.Rotation[col][row]))
		}
	}
	for i := range 2 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Fov[i]))
	}
	return buf
}
