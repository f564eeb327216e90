package main

import (
	"os"

	"github.com/simonhull/firebird-suite/plume/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
