// Package main is the single-binary entrypoint for Mindscape.
package main

import "github.com/mindscape-city/mindscape/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
