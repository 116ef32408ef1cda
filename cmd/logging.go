package cmd

import (
	"github.com/achilleasa/lumen/log"
	"github.com/urfave/cli"
)

var logger = log.New("lumen")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)

		// Per-frame renderer output is only emitted when explicitly requested.
		if !ctx.GlobalBool("trace-frames") {
			log.SetModuleLevel("renderer", log.Info)
		}
	}
}
