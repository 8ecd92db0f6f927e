// Package main is the entry point for the anigrab application.
package main

import (
	"github.com/anigrab-cli/anigrab/cmd"
	"github.com/anigrab-cli/anigrab/config"
	"github.com/anigrab-cli/anigrab/internal/cache"
	"github.com/anigrab-cli/anigrab/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background cache maintenance.
	go cache.CollectGarbage()

	cmd.Execute()
}
