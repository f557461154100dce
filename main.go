// main is the entry point for the taskrecon CLI.
package main

import (
	"github.com/huangsam/taskrecon/cmd"
	"github.com/huangsam/taskrecon/internal/contract"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Cannot run taskrecon", err)
	}
}
