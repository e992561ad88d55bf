package main

import (
	"os"

	cmd "github.com/mosaicnetworks/hashround/cmd/hashround/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.VersionCmd,
		cmd.NewGenesisCmd(),
		cmd.NewInspectCmd(),
		cmd.NewWindowCmd(),
		cmd.NewSimulateCmd(),
		cmd.NewServeCmd(),
	)

	//Do not print usage when error occurs
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
