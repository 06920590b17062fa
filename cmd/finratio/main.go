package main

import (
	"os"

	"github.com/wonny/finratio/cmd/finratio/commands"
)

// main is the entry point for the finratio CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/finratio [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
