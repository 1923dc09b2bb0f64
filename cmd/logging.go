package cmd

import (
	"github.com/robotman2412/vlk-ray-tracer/log"
	"github.com/urfave/cli"
)

var logger = log.New("cmd")

// Adjust logger verbosity based on the global cli flags.
func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	} else if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}
}
