package engine

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/profiler"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
	"github.com/Carmen-Shannon/oxy-trace/engine/world"
	"github.com/Carmen-Shannon/oxy-trace/log"
)

var engineLogger = log.New("engine")

// State is the frame loop state.
type State int

const (
	// StateRunning is the state from construction until a quit-class event is drained.
	StateRunning State = iota

	// StateTerminating is entered on quit and never left.
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateTerminating:
		return "Terminating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// engine implements the Engine interface.
// A single goroutine owns the window, the GPU context and the loop.
type engine struct {
	window  window.Window
	backend renderer.Backend

	compute   *renderer.ComputeRenderer
	presenter *renderer.Presenter
	target    *renderer.RenderTarget

	camera camera.Camera
	scene  world.VoxelSource
	state  State

	// pacing is slept at the end of every iteration; it is a yield, not a frame cap.
	pacing         time.Duration
	reportInterval time.Duration
	syncTiming     bool

	moveStep        float32
	rollStep        float32
	lookSensitivity float32
	clearColor      [4]float32

	now   func() time.Time
	sleep func(time.Duration)

	reportCallback func(profiler.Report)

	profiler *profiler.Profiler
}

// Engine is the frame scheduler. It drains input, renders the scene into the render target with
// a compute dispatch, presents the target and paces the loop until a quit event arrives.
type Engine interface {
	// Run executes frames until a quit-class event is drained. It blocks and must be called on
	// the goroutine that owns the window and GPU context.
	//
	// Returns:
	//   - error: a render or present fault; nil on a clean quit
	Run() error

	// State returns the loop state.
	//
	// Returns:
	//   - State: StateRunning until quit, then StateTerminating
	State() State

	// Camera returns the camera the input phase mutates.
	//
	// Returns:
	//   - camera.Camera: the live camera
	Camera() camera.Camera

	// Summary returns the lifetime frame timing totals.
	//
	// Returns:
	//   - profiler.Summary: totals since Run started; zero before Run
	Summary() profiler.Summary

	// Release frees the render target and both programs. The backend and window are not owned.
	Release()
}

// NewEngine creates the render target, compute renderer and presenter on backend and returns
// an engine ready to Run. The target matches the window size for the engine's lifetime.
//
// Parameters:
//   - win: the window supplying input events and the surface size
//   - backend: the GPU backend every command is issued on
//   - programs: the compute and presentation programs in the backend's shading language
//   - options: functional options for engine configuration (pacing, steps, clock, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: a setup error from target allocation or program compile and link
func NewEngine(win window.Window, backend renderer.Backend, programs shader.ProgramSet, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		window:          win,
		backend:         backend,
		state:           StateRunning,
		pacing:          10 * time.Millisecond,
		reportInterval:  2 * time.Second,
		syncTiming:      true,
		moveStep:        1,
		rollStep:        15,
		lookSensitivity: 1,
		clearColor:      renderer.DefaultClearColor,
		now:             time.Now,
		sleep:           time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}

	target, err := renderer.NewRenderTarget(backend, win.Width(), win.Height())
	if err != nil {
		return nil, err
	}
	e.target = target

	var computeOptions []renderer.ComputeRendererOption
	if e.scene != nil {
		computeOptions = append(computeOptions, renderer.WithScene(e.scene))
	}
	compute, err := renderer.NewComputeRenderer(backend, programs.Compute, computeOptions...)
	if err != nil {
		e.Release()
		return nil, err
	}
	e.compute = compute

	presenter, err := renderer.NewPresenter(backend, programs.Present, renderer.WithClearColor(e.clearColor))
	if err != nil {
		e.Release()
		return nil, err
	}
	e.presenter = presenter

	engineLogger.Infof("engine ready on %s backend, target %dx%d", backend.Name(), target.Width(), target.Height())
	return e, nil
}

func (e *engine) Run() error {
	ctx := newFrameContext(e.now(), e.reportInterval)
	e.profiler = ctx.profiler

	for e.state == StateRunning {
		if err := e.frame(ctx); err != nil {
			e.state = StateTerminating
			return err
		}
	}

	engineLogger.Infof("frame loop stopped after %d frames", ctx.profiler.Summary().Frames)
	return nil
}

func (e *engine) State() State {
	return e.state
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Summary() profiler.Summary {
	if e.profiler == nil {
		return profiler.Summary{}
	}
	return e.profiler.Summary()
}

func (e *engine) Release() {
	if e.presenter != nil {
		e.presenter.Release()
	}
	if e.compute != nil {
		e.compute.Release()
	}
	if e.target != nil {
		e.target.Release()
	}
}

// frame runs one iteration: input, render, present, error drain, pacing and instrumentation.
// A quit-class event ends the iteration right after the input phase.
func (e *engine) frame(ctx *frameContext) error {
	start := e.now()
	e.window.PollEvents()
	for {
		ev, ok := e.window.NextEvent()
		if !ok {
			break
		}
		e.handleEvent(ctx, ev)
		if e.state == StateTerminating {
			return nil
		}
	}
	inputDone := e.now()
	ctx.profiler.Add(profiler.PhaseEvents, inputDone.Sub(start))

	if err := e.compute.Render(e.target, e.camera, e.target.Width(), e.target.Height()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if e.syncTiming {
		e.backend.Finish()
	}
	renderDone := e.now()
	ctx.profiler.Add(profiler.PhaseRender, renderDone.Sub(inputDone))

	if err := e.presenter.Present(e.target); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	e.backend.Present()
	ctx.profiler.Add(profiler.PhaseDraw, e.now().Sub(renderDone))

	for _, gpuErr := range e.backend.DrainErrors() {
		engineLogger.Warningf("%v", gpuErr)
	}

	e.sleep(e.pacing)

	if report, ok := ctx.profiler.EndFrame(e.now()); ok {
		engineLogger.Notice(report.String())
		if e.reportCallback != nil {
			e.reportCallback(report)
		}
	}
	return nil
}
