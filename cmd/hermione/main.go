// Package main provides the entry point for the hermione CLI.
package main

import (
	"os"

	"github.com/stsh89/hermione/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
