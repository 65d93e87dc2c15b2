// Package main is the entry point for the lkctl CLI.
package main

import "github.com/jockelind/lagerkoll/cmd/lkctl/cmd"

func main() {
	cmd.Execute()
}
