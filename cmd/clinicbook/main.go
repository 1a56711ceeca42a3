// Command clinicbook is the installable entry point: go install clinicbook/cmd/clinicbook
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
