package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/profiler"
	"github.com/Carmen-Shannon/oxy-trace/engine/world"
)

// EngineBuilderOption adjusts an engine before NewEngine allocates any GPU resources.
type EngineBuilderOption func(*engine)

// WithPacing sets the sleep at the end of every frame. Zero disables it.
//
// Parameters:
//   - d: the pacing sleep (default 10ms)
//
// Returns:
//   - EngineBuilderOption: the option
func WithPacing(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if d < 0 {
			d = 0
		}
		e.pacing = d
	}
}

// WithReportInterval sets how often averaged frame timings are logged. The default is 2s.
func WithReportInterval(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.reportInterval = d
	}
}

// WithSyncTiming waits for the GPU after the compute dispatch so the render phase timing covers
// GPU work. On by default.
func WithSyncTiming(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.syncTiming = enabled
	}
}

// WithMoveStep scales the unit displacement applied by the directional keys.
func WithMoveStep(step float32) EngineBuilderOption {
	return func(e *engine) {
		e.moveStep = step
	}
}

// WithRollStep sets the roll in degrees applied by keys that have no movement binding.
func WithRollStep(degrees float32) EngineBuilderOption {
	return func(e *engine) {
		e.rollStep = degrees
	}
}

// WithLookSensitivity sets the degrees of yaw and pitch per pixel of pointer motion.
func WithLookSensitivity(degreesPerPixel float32) EngineBuilderOption {
	return func(e *engine) {
		e.lookSensitivity = degreesPerPixel
	}
}

// WithClearColor sets the color the frame is cleared to before the quad is drawn.
func WithClearColor(color [4]float32) EngineBuilderOption {
	return func(e *engine) {
		e.clearColor = color
	}
}

// WithCamera replaces the default camera at the origin.
//
// Parameters:
//   - c: the camera to drive
//
// Returns:
//   - EngineBuilderOption: the option
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithScene attaches the voxel world held by the compute renderer.
func WithScene(scene world.VoxelSource) EngineBuilderOption {
	return func(e *engine) {
		e.scene = scene
	}
}

// WithClock replaces time.Now for phase timing and interval reports.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}

// WithSleep replaces time.Sleep for frame pacing.
func WithSleep(sleep func(time.Duration)) EngineBuilderOption {
	return func(e *engine) {
		e.sleep = sleep
	}
}

// WithReportCallback registers a function called with every interval report after it is logged.
//
// Parameters:
//   - callback: receives the averaged report
//
// Returns:
//   - EngineBuilderOption: the option
func WithReportCallback(callback func(profiler.Report)) EngineBuilderOption {
	return func(e *engine) {
		e.reportCallback = callback
	}
}
