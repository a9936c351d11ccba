package cmd

import (
	"github.com/urfave/cli"
)

// NewApp builds the command line application.
func NewApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "oxy-trace"
	app.Usage = "real-time compute shader ray tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML configuration file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open a window and render interactively",
			Description: `
Trace the scene with a compute shader every frame and present it on a full
screen quad. WASD, Space and Left Shift move the camera; hold a mouse button
and drag to look; any other key rolls. Escape or closing the window quits.`,
			Flags: append(append([]cli.Flag{
				cli.StringFlag{
					Name:  "backend, b",
					Value: "gl",
					Usage: "graphics backend: gl or wgpu",
				},
				cli.BoolFlag{
					Name:  "validate-shaders",
					Usage: "validate WGSL with naga before creating pipelines",
				},
				cli.BoolFlag{
					Name:  "software",
					Usage: "request a software adapter (wgpu only)",
				},
			}, windowFlags...), loopFlags...),
			Action: Run,
		},
		{
			Name:        "replay",
			Usage:       "run the frame loop headless on the recording backend",
			Description: `Replay a scripted input sequence and print the recorded GPU command counts.`,
			Flags: append(append([]cli.Flag{
				cli.IntFlag{
					Name:  "frames, n",
					Value: 120,
					Usage: "number of frames to replay",
				},
			}, windowFlags...), loopFlags...),
			Action: Replay,
		},
		{
			Name:   "check-shaders",
			Usage:  "reflect the embedded shaders and validate the WGSL sources",
			Action: CheckShaders,
		},
	}
	return app
}
