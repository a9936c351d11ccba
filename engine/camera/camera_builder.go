package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption configures a camera before its first snapshot is taken.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's starting world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = mgl32.Vec3{x, y, z}
	}
}

// WithAngles sets the camera's starting orientation in degrees.
//
// Parameters:
//   - yaw, pitch, roll: starting angle accumulators
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's angles
func WithAngles(yaw, pitch, roll float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw, c.pitch, c.roll = yaw, pitch, roll
	}
}

// WithFov sets the camera's horizontal and vertical field of view in degrees.
// Non-positive values keep the default of 90 degrees for that axis.
//
// Parameters:
//   - horizontal: horizontal extent in degrees
//   - vertical: vertical extent in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(horizontal, vertical float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if horizontal > 0 {
			c.fov[0] = horizontal
		}
		if vertical > 0 {
			c.fov[1] = vertical
		}
	}
}
