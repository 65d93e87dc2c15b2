// Package main is the entry point for the lagerkoll server.
package main

import (
	"os"

	"github.com/jockelind/lagerkoll/cmd/lagerkoll/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
