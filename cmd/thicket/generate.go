package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/internal/presentation/tui"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate NAME",
	Short: "Generate a fixture and write it in every available layout",
	Long: `Generates the named fixture and writes one JSON file per layout into
the output directory. Files left over from a previous run of the same
fixture are removed first.`,
	Args: cobra.ExactArgs(1),
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

		out, _ := cmd.Flags().GetString("out")
		parallel, _ := cmd.Flags().GetInt("parallel")
		seed, _ := cmd.Flags().GetUint64("seed")
		if !cmd.Flags().Changed("seed") {
			seed = rand.Uint64()
		}

		var opts []fixture.AssembleOption
		if cmd.Flags().Changed("html") {
			html, _ := cmd.Flags().GetBool("html")
			opts = append(opts, fixture.WithHTML(html))
		}

		gen := thicket.New(
			thicket.WithSeed(seed),
			thicket.WithName(def.Name),
			thicket.WithLogger(logger),
			thicket.WithParallelism(parallel),
		)
		f, err := fixture.Assemble(gen, def, opts...)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Generated tree with %s nodes, depth: %d (seed %d)\n",
			humanize.Comma(int64(f.Tree.NodeCount)), f.Tree.Depth, seed)
		fmt.Fprintf(w, "Writing results to %s\n", out)

		writer := &fixture.Writer{Dir: out}
		removed, err := writer.RemoveStale(f.Name)
		for _, path := range removed {
			tui.Removed(w, path)
		}
		if err != nil {
			return err
		}

		files, err := writer.Write(f)
		for _, file := range files {
			tui.Created(w, filepath.Base(file.Path), file.Size)
		}
		return err
	},
}

func unknownFixture(cmd *cobra.Command, catalog ports.Catalog, name string) error {
	defs, err := catalog.List(cmd.Context())
	if err != nil {
		return err
	}
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = "'" + d.Name + "'"
	}
	return fmt.Errorf("invalid fixture name %q, expected one of %s", name, strings.Join(names, ", "))
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("out", "o", ".", "Directory the JSON files are written to")
	generateCmd.Flags().Uint64("seed", 0, "Random seed (a random one is drawn when omitted)")
	generateCmd.Flags().Bool("html", false, "Include column html snippets (defaults to the fixture's add_html)")
	generateCmd.Flags().Int("parallel", 0, "Build subtrees with this many workers (0 or 1 builds sequentially)")
}
