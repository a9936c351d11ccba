package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/Carmen-Shannon/oxy-trace/engine/profiler"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
)

// frameContext is the state carried from one loop iteration to the next.
type frameContext struct {
	// lookEnabled is set by a pointer button press and cleared by a release.
	lookEnabled bool

	profiler *profiler.Profiler
}

func newFrameContext(start time.Time, reportInterval time.Duration) *frameContext {
	return &frameContext{
		profiler: profiler.NewProfiler(start, reportInterval),
	}
}

// moveKeys maps directional keys to unit world-axis steps.
var moveKeys = map[uint32][3]float32{
	common.KeyW:         {0, 0, 1},
	common.KeyS:         {0, 0, -1},
	common.KeyA:         {-1, 0, 0},
	common.KeyD:         {1, 0, 0},
	common.KeySpace:     {0, 1, 0},
	common.KeyLeftShift: {0, -1, 0},
}

// handleEvent applies one input event to the loop state and the camera.
func (e *engine) handleEvent(ctx *frameContext, ev window.Event) {
	switch ev := ev.(type) {
	case window.QuitEvent:
		e.state = StateTerminating
	case window.KeyDownEvent:
		if ev.Key == common.KeyEsc {
			e.state = StateTerminating
			return
		}
		if step, ok := moveKeys[ev.Key]; ok {
			e.camera.MoveRelative(step[0]*e.moveStep, step[1]*e.moveStep, step[2]*e.moveStep)
			return
		}
		e.camera.LookRelative(0, 0, e.rollStep)
	case window.PointerButtonDownEvent:
		ctx.lookEnabled = true
	case window.PointerButtonUpEvent:
		ctx.lookEnabled = false
	case window.PointerMotionEvent:
		if ctx.lookEnabled {
			e.camera.LookRelative(ev.DX*e.lookSensitivity, ev.DY*e.lookSensitivity, 0)
		}
	default:
		engineLogger.Debugf("ignoring event %T", ev)
	}
}
