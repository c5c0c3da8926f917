package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/thicket/internal/logging"
	"github.com/aretw0/thicket/pkg/adapters/file"
	"github.com/aretw0/thicket/pkg/adapters/memory"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "thicket",
	Short: "Thicket generates synthetic hierarchical tree datasets",
	Long: `Thicket builds random trees from fixture definitions and writes them
as JSON in several layouts, for testing tree-grid and tree-view widgets.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "", "Directory of extra fixture definitions (*.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	name, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level), nil
}

// openCatalog returns the built-in fixtures, extended by the definitions
// found under --dir when it is set. The file catalog is returned separately
// so callers can watch it.
func openCatalog(cmd *cobra.Command, logger *slog.Logger) (ports.Catalog, *file.Catalog, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		c, err := memory.NewBuiltinCatalog()
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	}

	builtin, err := fixture.Builtin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load built-in fixtures: %w", err)
	}
	c, err := file.New(dir, file.WithBase(builtin...), file.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return c, c, nil
}
