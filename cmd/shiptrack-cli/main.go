// Package main provides the entry point for shiptrack-cli.
//
// shiptrack-cli is the terminal client for the shipment tracking API,
// supporting both single-command mode and an interactive shell.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/shiptrack-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
