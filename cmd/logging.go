package cmd

import (
	"github.com/Carmen-Shannon/oxy-trace/log"
	"github.com/urfave/cli"
)

var logger = log.New("oxy-trace")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
