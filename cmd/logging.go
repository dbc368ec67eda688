package cmd

import (
	"github.com/acekiller/povray-sub002/log"
	"github.com/urfave/cli"
)

var logger = log.New("bvhtool")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
