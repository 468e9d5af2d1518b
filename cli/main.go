// ABOUTME: Entry point for the ecofinds CLI
// ABOUTME: Command-line tool for managing listings against the marketplace API

package main

import (
	"fmt"
	"os"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
