// Evermediavault admin console.
package main

import (
	"os"

	"github.com/evermediavault/vault-admin/internal/cli"
)

// Version information
var (
	Version   = "v1.2.0"
	BuildTime = "2026-08-01"
)

func main() {
	// Propagate build-time version to the CLI (LDFLAGS override these).
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
