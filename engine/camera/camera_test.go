package camera

import (
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, c.Position())
	yaw, pitch, roll := c.Angles()
	assert.Zero(t, yaw)
	assert.Zero(t, pitch)
	assert.Zero(t, roll)
	assert.Equal(t, mgl32.Vec2{90, 90}, c.Fov())
}

func TestCameraOptions(t *testing.T) {
	c := NewCamera(
		WithPosition(1, 2, 3),
		WithAngles(10, 20, 30),
		WithFov(70, 0),
	)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.Position())
	yaw, pitch, roll := c.Angles()
	assert.Equal(t, []float32{10, 20, 30}, []float32{yaw, pitch, roll})
	assert.Equal(t, mgl32.Vec2{70, 90}, c.Fov())
}

func TestMoveRelativeSumsDisplacements(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	moves := make([]mgl32.Vec3, 64)
	var want mgl32.Vec3
	for i := range moves {
		moves[i] = mgl32.Vec3{float32(rng.Intn(21) - 10), float32(rng.Intn(21) - 10), float32(rng.Intn(21) - 10)}
		want = want.Add(moves[i])
	}

	forward := NewCamera()
	for _, m := range moves {
		forward.MoveRelative(m.X(), m.Y(), m.Z())
	}

	backward := NewCamera()
	for i := len(moves) - 1; i >= 0; i-- {
		backward.MoveRelative(moves[i].X(), moves[i].Y(), moves[i].Z())
	}

	assert.Equal(t, want, forward.Position())
	assert.Equal(t, forward.Position(), backward.Position())
}

func TestMoveRelativeIgnoresOrientation(t *testing.T) {
	c := NewCamera(WithAngles(90, 45, 0))
	c.MoveRelative(0, 0, 1)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, c.Position())
}

func TestMoveRelativeIntermediateSnapshots(t *testing.T) {
	c := NewCamera()
	c.MoveRelative(1, 0, 0)
	first := c.Snapshot()
	c.MoveRelative(0, 2, 0)
	second := c.Snapshot()

	assert.Equal(t, [3]float32{1, 0, 0}, first.Position)
	assert.Equal(t, [3]float32{1, 2, 0}, second.Position)
}

// Angles are unbounded accumulators: no wrap past 360 and no pitch clamp.
func TestLookRelativeIsUnbounded(t *testing.T) {
	c := NewCamera()
	for range 10 {
		c.LookRelative(100, 50, -40)
	}

	yaw, pitch, roll := c.Angles()
	assert.Equal(t, float32(1000), yaw)
	assert.Equal(t, float32(500), pitch)
	assert.Equal(t, float32(-400), roll)
}

func TestLookRelativeDoesNotMovePosition(t *testing.T) {
	c := NewCamera(WithPosition(4, 5, 6))
	c.LookRelative(33, 44, 55)
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, c.Position())
}

func TestSnapshotIsIdempotent(t *testing.T) {
	c := NewCamera(WithPosition(1.5, -2, 7), WithAngles(12.5, -30, 400))

	first := c.Snapshot()
	second := c.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, first.Marshal(), second.Marshal())

	yaw, pitch, roll := c.Angles()
	assert.Equal(t, []float32{12.5, -30, 400}, []float32{yaw, pitch, roll})
}

func TestSnapshotIdentityAtRest(t *testing.T) {
	s := NewCamera().Snapshot()

	assert.Equal(t, [3]float32{0, 0, 0}, s.Position)
	assert.Equal(t, [2]float32{90, 90}, s.Fov)
	for col := range 3 {
		want := mgl32.Ident3().Col(col)
		got := s.Column(col)
		for row := range 3 {
			assert.InDelta(t, want[row], got[row], tolerance)
		}
	}
}

func TestMoveThenYawScenario(t *testing.T) {
	c := NewCamera()
	c.MoveRelative(0, 0, 1)
	c.LookRelative(10, 0, 0)

	s := c.Snapshot()
	assert.Equal(t, [3]float32{0, 0, 1}, s.Position)

	rad := 10 * math.Pi / 180
	cos, sin := float32(math.Cos(rad)), float32(math.Sin(rad))
	want := [3]mgl32.Vec3{
		{cos, 0, -sin},
		{0, 1, 0},
		{sin, 0, cos},
	}
	for col := range 3 {
		got := s.Column(col)
		for row := range 3 {
			assert.InDelta(t, want[col][row], got[row], tolerance, "col %d row %d", col, row)
		}
	}
}

func TestGPUCameraUniformLayout(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3), WithAngles(90, 0, 0), WithFov(60, 45))
	s := c.Snapshot()

	require.Equal(t, 80, s.Size())
	buf := s.Marshal()
	require.Len(t, buf, 80)

	f := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}

	assert.Equal(t, float32(1), f(0))
	assert.Equal(t, float32(2), f(4))
	assert.Equal(t, float32(3), f(8))
	assert.Zero(t, f(12))

	// Third column (forward) of a 90 degree yaw is +X.
	assert.InDelta(t, 1, f(48), tolerance)
	assert.InDelta(t, 0, f(52), tolerance)
	assert.InDelta(t, 0, f(56), tolerance)
	for _, pad := range []int{28, 44, 60, 72, 76} {
		assert.Zero(t, f(pad), "padding at %d", pad)
	}

	assert.Equal(t, float32(60), f(64))
	assert.Equal(t, float32(45), f(68))
}
