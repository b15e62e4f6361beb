// Package main is the entry point for the helix CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	loadDotenv()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "helix: %v\n", err)
		os.Exit(1)
	}
}
