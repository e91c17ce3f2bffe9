// Package main is the entry point for the rulink CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/necolo/rulink/cmd/rulink/commands"
	"github.com/necolo/rulink/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	exitErr := errors.Classify(err)
	if exitErr.Err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), exitErr.Err)
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("Suggestion:"), exitErr.Suggestion)
		}
	}
	os.Exit(exitErr.Code)
}
