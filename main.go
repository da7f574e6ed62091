package main

import (
	"fmt"

	"editorjump/internal/cli"
)

// Version info (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cli.Execute(fmt.Sprintf("%s (built %s)", version, buildTime))
}
