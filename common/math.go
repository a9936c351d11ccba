package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the vertical axis of world space.
var WorldUp = mgl32.Vec3{0, 1, 0}

// WorldForward is the direction a camera with zero yaw, pitch and roll looks along.
var WorldForward = mgl32.Vec3{0, 0, 1}

// EulerRotation builds the rotation matrix for intrinsic yaw, then pitch, then roll.
// Angles are in degrees and may be any value; no wrapping is applied.
// Yaw turns about +Y, pitch about the yawed +X and roll about the resulting +Z (forward).
// The result is column-major, matching mgl32 and the GPU uniform layout.
//
// Parameters:
//   - yaw: rotation about the vertical axis in degrees
//   - pitch: rotation about the lateral axis in degrees
//   - roll: rotation about the forward axis in degrees
//
// Returns:
//   - mgl32.Mat3: the rotation matrix R = Ry(yaw) * Rx(pitch) * Rz(roll)
func EulerRotation(yaw, pitch, roll float32) mgl32.Mat3 {
	sy, cy := math32.Sincos(mgl32.DegToRad(yaw))
	sp, cp := math32.Sincos(mgl32.DegToRad(pitch))
	sr, cr := math32.Sincos(mgl32.DegToRad(roll))

	return mgl32.Mat3FromCols(
		mgl32.Vec3{cy*cr + sy*sp*sr, sr * cp, -sy*cr + cy*sp*sr},
		mgl32.Vec3{-cy*sr + sy*sp*cr, cr * cp, sy*sr + cy*sp*cr},
		mgl32.Vec3{sy * cp, -sp, cy * cp},
	)
}

// WorkgroupCount returns how many groups of groupSize are needed to cover n items.
//
// Parameters:
//   - n: number of items (pixels along one axis)
//   - groupSize: items covered by one workgroup along that axis
//
// Returns:
//   - uint32: ceil(n / groupSize), or 0 when n is 0
func WorkgroupCount(n, groupSize uint32) uint32 {
	if groupSize == 0 {
		groupSize = 1
	}
	return (n + groupSize - 1) / groupSize
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// The returned slice shares memory with the input and must not outlive it.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}
