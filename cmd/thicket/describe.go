package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/thicket/internal/presentation/tui"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe NAME",
	Short: "Show the levels, fields and columns of a fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		catalog, _, err := openCatalog(cmd, logger)
		if err != nil {
			return err
		}
		def, err := catalog.Get(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrFixtureNotFound) {
			return unknownFixture(cmd, catalog, args[0])
		}
		if err != nil {
			return err
		}

		md := tui.Describe(def)
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		out, err := tui.NewRenderer()(md)
		if err != nil {
			// Fall back to plain markdown
			out = md
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("raw", false, "Print the markdown without rendering it")
}
