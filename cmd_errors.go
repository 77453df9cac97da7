package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Error and warning printers shared by every subcommand. The color
// package downgrades to plain text automatically when stdout is not a
// terminal.
var (
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
)

// reportError prints a single error to stderr in red.
func reportError(err error) {
	errorColor.Fprintln(os.Stderr, err.Error())
}

// reportErrors prints every error to stderr in red.
func reportErrors(errors []error) {
	for _, err := range errors {
		reportError(err)
	}
}

// reportWarnings prints every warning to stderr in yellow. Warnings do
// not affect the exit code.
func reportWarnings(warnings []error) {
	for _, warning := range warnings {
		warningColor.Fprintln(os.Stderr, warning.Error())
	}
}

// readSourceFile loads the first positional argument as a source file.
func readSourceFile(args []string) (string, bool) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return "", false
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return "", false
	}
	return string(data), true
}
