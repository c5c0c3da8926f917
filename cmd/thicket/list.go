package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		catalog, _, err := openCatalog(cmd, logger)
		if err != nil {
			return err
		}
		defs, err := catalog.List(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tLEVELS\tLAYOUTS\tDESCRIPTION")
		for _, d := range defs {
			s := d.Summary()
			layouts := make([]string, len(s.Layouts))
			for i, l := range s.Layouts {
				layouts[i] = string(l)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Name, s.Levels, strings.Join(layouts, ","), s.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
