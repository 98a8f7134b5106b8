// main is the entry point for the polltrend CLI.
package main

import (
	"github.com/polltrend/polltrend/cmd"
	"github.com/polltrend/polltrend/internal/contract"
	"github.com/polltrend/polltrend/internal/iocache"
)

func main() {
	// The manager is populated lazily by the command setup; handing it to the
	// command layer up front keeps the wiring in one place.
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Close stores before exiting; LogFatal calls os.Exit and would skip defers.
	iocache.CloseStores()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
