package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-5

func assertMat3InDelta(t *testing.T, want, got mgl32.Mat3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, "element %d", i)
	}
}

func TestEulerRotationIdentity(t *testing.T) {
	assertMat3InDelta(t, mgl32.Ident3(), EulerRotation(0, 0, 0))
}

func TestEulerRotationYaw90(t *testing.T) {
	// Columns: +X maps to -Z, +Y is fixed, +Z (forward) maps to +X.
	want := mgl32.Mat3FromCols(
		mgl32.Vec3{0, 0, -1},
		mgl32.Vec3{0, 1, 0},
		mgl32.Vec3{1, 0, 0},
	)
	got := EulerRotation(90, 0, 0)
	assertMat3InDelta(t, want, got)

	forward := got.Mul3x1(WorldForward)
	assert.InDelta(t, 1, forward.X(), tolerance)
	assert.InDelta(t, 0, forward.Y(), tolerance)
	assert.InDelta(t, 0, forward.Z(), tolerance)
}

func TestEulerRotationSingleAxes(t *testing.T) {
	tests := []struct {
		name             string
		yaw, pitch, roll float32
		want             mgl32.Mat3
	}{
		{"yaw 10", 10, 0, 0, mgl32.Rotate3DY(mgl32.DegToRad(10))},
		{"pitch 30", 0, 30, 0, mgl32.Rotate3DX(mgl32.DegToRad(30))},
		{"roll 15", 0, 0, 15, mgl32.Rotate3DZ(mgl32.DegToRad(15))},
		{"yaw -45", -45, 0, 0, mgl32.Rotate3DY(mgl32.DegToRad(-45))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMat3InDelta(t, tt.want, EulerRotation(tt.yaw, tt.pitch, tt.roll))
		})
	}
}

func TestEulerRotationComposition(t *testing.T) {
	yaw, pitch, roll := float32(33), float32(-12), float32(71)
	want := mgl32.Rotate3DY(mgl32.DegToRad(yaw)).
		Mul3(mgl32.Rotate3DX(mgl32.DegToRad(pitch))).
		Mul3(mgl32.Rotate3DZ(mgl32.DegToRad(roll)))

	assertMat3InDelta(t, want, EulerRotation(yaw, pitch, roll))
}

func TestEulerRotationIsOrthonormal(t *testing.T) {
	m := EulerRotation(400, -170, 1234)
	product := m.Transpose().Mul3(m)
	assertMat3InDelta(t, mgl32.Ident3(), product)
	assert.InDelta(t, 1, m.Det(), tolerance)
}

func TestWorkgroupCount(t *testing.T) {
	tests := []struct {
		n, size, want uint32
	}{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{900, 8, 113},
		{700, 1, 700},
		{5, 0, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WorkgroupCount(tt.n, tt.size), "n=%d size=%d", tt.n, tt.size)
		assert.GreaterOrEqual(t, WorkgroupCount(tt.n, tt.size)*max(tt.size, 1), tt.n)
	}
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]float32{1, 2, 3}), 12)
	assert.Len(t, SliceToBytes([]uint32{1, 2, 3, 4, 5, 6}), 24)
}
