package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/clipvault/clipvault/internal/cli"
)

func main() {
	// Parse command-line arguments
	var args cli.Args
	parser := arg.MustParse(&args)

	// Create CLI instance with args for config and data directory overrides
	cliHandler, err := cli.NewWithArgs(&args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Execute the command
	if err := cliHandler.Execute(&args); err != nil {
		fmt.Printf("Error: %v\n", err)

		// If it's an argument validation error, show usage
		if args.Watch != nil || args.List != nil || args.Config != nil {
			fmt.Println()
			parser.WriteUsage(os.Stderr)
		}
		os.Exit(1)
	}
}
