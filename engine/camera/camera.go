package camera

import (
	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	position mgl32.Vec3

	// yaw, pitch and roll are accumulated in degrees and never wrapped or clamped.
	yaw   float32
	pitch float32
	roll  float32

	fov mgl32.Vec2
}

// Camera defines the interface for the ray tracing camera.
// The camera stores a world-space position, three Euler angle accumulators and a field of view,
// and produces a GPU-layout snapshot on demand. The rotation matrix is derived from the angles
// at snapshot time and is never stored.
type Camera interface {
	// Position returns the world-space camera position.
	//
	// Returns:
	//   - mgl32.Vec3: the position, Y is up
	Position() mgl32.Vec3

	// Angles returns the accumulated orientation angles in degrees.
	//
	// Returns:
	//   - yaw, pitch, roll: the raw accumulators, not normalized
	Angles() (yaw, pitch, roll float32)

	// Fov returns the horizontal and vertical field of view in degrees.
	//
	// Returns:
	//   - mgl32.Vec2: (horizontal, vertical) extents
	Fov() mgl32.Vec2

	// Rotation computes the rotation matrix from the current angles.
	//
	// Returns:
	//   - mgl32.Mat3: yaw, then pitch, then roll composed intrinsically
	Rotation() mgl32.Mat3

	// MoveRelative adds a world-axis displacement to the position.
	// The orientation is not consulted; +Y always moves up.
	//
	// Parameters:
	//   - dx, dy, dz: displacement along the world axes
	MoveRelative(dx, dy, dz float32)

	// LookRelative adds to the yaw, pitch and roll accumulators.
	// No wrapping or clamping is performed, so pitch may pass +-90 degrees and invert the view.
	//
	// Parameters:
	//   - dYaw, dPitch, dRoll: angle deltas in degrees
	LookRelative(dYaw, dPitch, dRoll float32)

	// Snapshot builds the GPU uniform record from the current state.
	// It has no side effects; two calls without an intervening mutation return identical records.
	//
	// Returns:
	//   - GPUCameraUniform: the std140-compatible camera record
	Snapshot() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the origin looking down +Z with a 90x90 degree field of view,
// then applies the given options.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the configured camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		fov: mgl32.Vec2{90, 90},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	return c.position
}

func (c *cameraImpl) Angles() (yaw, pitch, roll float32) {
	return c.yaw, c.pitch, c.roll
}

func (c *cameraImpl) Fov() mgl32.Vec2 {
	return c.fov
}

func (c *cameraImpl) Rotation() mgl32.Mat3 {
	return common.EulerRotation(c.yaw, c.pitch, c.roll)
}

func (c *cameraImpl) MoveRelative(dx, dy, dz float32) {
	c.position = c.position.Add(mgl32.Vec3{dx, dy, dz})
}

func (c *cameraImpl) LookRelative(dYaw, dPitch, dRoll float32) {
	c.yaw += dYaw
	c.pitch += dPitch
	c.roll += dRoll
}

func (c *cameraImpl) Snapshot() GPUCameraUniform {
	return NewGPUCameraUniform(c.position, c.Rotation(), c.fov)
}
