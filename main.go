package main

import (
	"os"

	"github.com/foomo/docs-versionpanel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
