package main

import (
	"os"

	"github.com/optimist-light/optimist/cmd/optimist/commands"
)

func main() {
	rootCmd := commands.RootCmd
	rootCmd.AddCommand(
		commands.SyncCmd,
		commands.VersionCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
