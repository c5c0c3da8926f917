package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/internal/presentation/graph"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph NAME",
	Short: "Export a generated tree as a Mermaid diagram",
	Long:  `Generates the named fixture and outputs a Mermaid diagram (graph TD) of the resulting tree.`,
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

		seed, _ := cmd.Flags().GetUint64("seed")
		maxNodes, _ := cmd.Flags().GetInt("max-nodes")
		labelField, _ := cmd.Flags().GetString("label")

		f, err := fixture.Assemble(thicket.New(
			thicket.WithSeed(seed),
			thicket.WithName(def.Name),
			thicket.WithLogger(logger),
		), def)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(f.Tree, graph.Options{
			Label:    labelField,
			MaxNodes: maxNodes,
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Uint64("seed", 0, "Random seed")
	graphCmd.Flags().Int("max-nodes", 50, "Maximum number of nodes to draw (0 draws all)")
	graphCmd.Flags().String("label", "title", "Field shown in each node")
}
