package cmd

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-trace/config"
	"github.com/Carmen-Shannon/oxy-trace/engine"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
	"github.com/Carmen-Shannon/oxy-trace/engine/world"
	"github.com/urfave/cli"
)

// Run opens a window and runs the interactive frame loop until the window is closed.
func Run(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Backend == config.BackendTrace {
		return fmt.Errorf("the %q backend has no window; use the replay command", cfg.Backend)
	}

	api := window.ClientAPIOpenGL
	if cfg.Backend == config.BackendWGPU {
		api = window.ClientAPINone
	}
	win, err := window.NewWindow(
		window.WithTitle(cfg.Title),
		window.WithWidth(cfg.Width),
		window.WithHeight(cfg.Height),
		window.WithClientAPI(api),
		window.WithDebugContext(cfg.GPUDebugMessages),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	backend, err := renderer.NewBackend(renderer.BackendType(cfg.Backend), win,
		renderer.WithDebugMessages(cfg.GPUDebugMessages),
		renderer.WithShaderValidation(cfg.ValidateShaders),
		renderer.WithForceSoftwareRenderer(ctx.Bool("software")),
	)
	if err != nil {
		return err
	}
	defer backend.Release()

	programs, err := shader.LoadPrograms(shaderLanguage(cfg.Backend))
	if err != nil {
		return err
	}

	scene, err := groundPlane()
	if err != nil {
		return err
	}
	options := append(engineOptions(cfg), engine.WithScene(scene))
	e, err := engine.NewEngine(win, backend, programs, options...)
	if err != nil {
		return err
	}
	defer e.Release()

	logger.Noticef("running %q at %dx%d on %s", cfg.Title, cfg.Width, cfg.Height, backend.Name())
	if err := e.Run(); err != nil {
		return err
	}

	displaySummary(ctx.App.Writer, e.Summary())
	return nil
}

// groundPlane builds a flat 32x32 stone floor under the origin.
func groundPlane() (*world.World, error) {
	w := world.New()
	for x := -16; x < 16; x++ {
		for z := -16; z < 16; z++ {
			if err := w.SetVoxel(x, -1, z, 1); err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}
