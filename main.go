// Package main is the entry point for mediasurface.
package main

import (
	"github.com/mediasurface/mediasurface/cmd"
	"github.com/mediasurface/mediasurface/config"
	"github.com/mediasurface/mediasurface/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
