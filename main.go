// Command gauge is the entry point of the measure aggregation CLI.
package main

import (
	"github.com/huangsam/gauge/cmd"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/internal/iocache"
)

func main() {
	defer iocache.CloseStores()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		// LogFatal exits without running deferred calls
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
