package cmd

import (
	"github.com/Carmen-Shannon/oxy-trace/config"
	"github.com/Carmen-Shannon/oxy-trace/engine"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/urfave/cli"
)

// loadConfig reads the --config file, if any, and applies the command flags that were set on
// top of it.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return cfg, err
	}

	if ctx.IsSet("title") {
		cfg.Title = ctx.String("title")
	}
	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Height = ctx.Int("height")
	}
	if ctx.IsSet("backend") {
		cfg.Backend = ctx.String("backend")
	}
	if ctx.IsSet("pacing") {
		cfg.Pacing.Duration = ctx.Duration("pacing")
	}
	if ctx.IsSet("report-interval") {
		cfg.ReportInterval.Duration = ctx.Duration("report-interval")
	}
	if ctx.Bool("no-sync") {
		cfg.SyncTiming = false
	}
	if ctx.Bool("validate-shaders") {
		cfg.ValidateShaders = true
	}
	return cfg, cfg.Validate()
}

// engineOptions maps the configuration to frame loop options.
func engineOptions(cfg config.Config) []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithPacing(cfg.Pacing.Duration),
		engine.WithReportInterval(cfg.ReportInterval.Duration),
		engine.WithSyncTiming(cfg.SyncTiming),
		engine.WithMoveStep(cfg.MoveStep),
		engine.WithRollStep(cfg.RollStep),
		engine.WithLookSensitivity(cfg.LookSensitivity),
		engine.WithClearColor(cfg.ClearColor),
		engine.WithCamera(camera.NewCamera(camera.WithFov(cfg.Fov[0], cfg.Fov[1]))),
	}
}

// shaderLanguage returns the language the backend compiles.
func shaderLanguage(backend string) shader.Language {
	if backend == config.BackendWGPU {
		return shader.LanguageWGSL
	}
	return shader.LanguageGLSL
}

var windowFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "title",
		Value: "Game",
		Usage: "window title",
	},
	cli.IntFlag{
		Name:  "width",
		Value: 900,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: 700,
		Usage: "frame height",
	},
}

var loopFlags = []cli.Flag{
	cli.DurationFlag{
		Name:  "pacing",
		Usage: "sleep at the end of every frame",
	},
	cli.DurationFlag{
		Name:  "report-interval",
		Usage: "interval between frame timing reports",
	},
	cli.BoolFlag{
		Name:  "no-sync",
		Usage: "do not wait for the GPU after the compute dispatch",
	},
}
