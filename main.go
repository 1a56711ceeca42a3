// Package main is the entry point for the clinicbook CLI
package main

import (
	"os"

	"clinicbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
