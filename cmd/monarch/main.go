package main

import (
	"os"

	"github.com/1broseidon/monarch/internal/cli"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version string

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
