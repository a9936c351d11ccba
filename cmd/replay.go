package cmd

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/Carmen-Shannon/oxy-trace/engine"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/trace"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
	"github.com/urfave/cli"
)

// Replay runs the frame loop headless on the recording backend with a scripted input sequence
// and prints the recorded command counts.
func Replay(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	frames := ctx.Int("frames")
	if frames < 1 {
		return errors.New("replay needs at least one frame")
	}

	win, err := window.NewScriptedWindow(cfg.Width, cfg.Height, replayScript(frames))
	if err != nil {
		return err
	}
	defer win.Close()

	backend := trace.New()
	defer backend.Release()

	programs, err := shader.LoadPrograms(shader.LanguageGLSL)
	if err != nil {
		return err
	}

	scene, err := groundPlane()
	if err != nil {
		return err
	}
	options := append(engineOptions(cfg), engine.WithScene(scene))
	if !ctx.IsSet("pacing") {
		options = append(options, engine.WithPacing(0))
	}
	e, err := engine.NewEngine(win, backend, programs, options...)
	if err != nil {
		return err
	}
	defer e.Release()

	if err := e.Run(); err != nil {
		return err
	}

	position := e.Camera().Position()
	yaw, pitch, roll := e.Camera().Angles()
	logger.Noticef("replayed %d frames, camera at (%g, %g, %g) yaw %g pitch %g roll %g",
		frames, position[0], position[1], position[2], yaw, pitch, roll)

	displayCounts(ctx.App.Writer, backend.Counts())
	displaySummary(ctx.App.Writer, e.Summary())
	return nil
}

// replayScript returns a repeating input sequence exercising every event kind: moves, a roll,
// a drag with the look latch held and a stray motion with the latch released.
func replayScript(frames int) [][]window.Event {
	cycle := [][]window.Event{
		{window.KeyDownEvent{Key: common.KeyW}},
		{window.KeyDownEvent{Key: common.KeyD}},
		{window.PointerButtonDownEvent{}},
		{window.PointerMotionEvent{DX: 4, DY: 2}},
		{window.PointerButtonUpEvent{}},
		{window.PointerMotionEvent{DX: 40, DY: 40}},
		{window.KeyDownEvent{Key: common.KeyR}},
		{},
	}

	script := make([][]window.Event, frames)
	for i := range script {
		script[i] = cycle[i%len(cycle)]
	}
	return script
}
