package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/internal/logging"
	"github.com/aretw0/thicket/pkg/adapters/mcp"
	"github.com/aretw0/thicket/pkg/adapters/memory"
	"github.com/aretw0/thicket/pkg/service"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the fixture catalog to AI agents as MCP tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		name, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(name)
		if err != nil {
			return err
		}
		// Stdout carries JSON-RPC in stdio mode
		logger := logging.NewWithWriter(os.Stderr, level)
		log.SetOutput(os.Stderr)

		catalog, _, err := openCatalog(cmd, logger)
		if err != nil {
			return err
		}
		svc := service.New(catalog,
			service.WithCache(memory.NewCache()),
			service.WithLogger(logger),
			service.WithGeneratorOptions(thicket.WithLogger(logger)),
		)
		srv := mcp.NewServer(svc)

		switch transport {
		case "stdio":
			logger.Info("Starting Thicket MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting Thicket MCP Server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
