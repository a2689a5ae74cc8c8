// Package main provides the entry point for the structdiff CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/randlee/structdiff/cmd/structdiff/commands"
)

func main() {
	root := commands.NewRootCommand()

	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
