package main

import (
	"fmt"

	"github.com/aretw0/thicket"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of thicket",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "thicket version %s\n", thicket.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
