package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/aretw0/thicket/pkg/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FixturesURI is the resource listing the catalog.
const FixturesURI = "thicket://fixtures"

// Server exposes fixture generation as an MCP Server.
type Server struct {
	svc       *service.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(svc *service.Service) *Server {
	s := &Server{
		svc:       svc,
		mcpServer: server.NewMCPServer("thicket-mcp", thicket.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func layoutNames() []string {
	names := make([]string, len(fixture.AllLayouts))
	for i, l := range fixture.AllLayouts {
		names[i] = string(l)
	}
	return names
}

func (s *Server) registerTools() {
	// TOOL: list_fixtures
	s.mcpServer.AddTool(mcp.NewTool("list_fixtures",
		mcp.WithDescription("List the fixture definitions that can be generated."),
	), s.handleListFixtures)

	// TOOL: generate_fixture
	s.mcpServer.AddTool(mcp.NewTool("generate_fixture",
		mcp.WithDescription("Generate a synthetic tree fixture as JSON. The same seed always yields the same tree."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Fixture name, see list_fixtures")),
		mcp.WithString("layout", mcp.Enum(layoutNames()...), mcp.Description("JSON envelope (default: extended)")),
		mcp.WithString("seed", mcp.Description("Unsigned integer seed (optional, random when omitted)")),
		mcp.WithBoolean("html", mcp.Description("Include column html snippets (default: the fixture's setting)")),
	), s.handleGenerateFixture)
}

func (s *Server) handleListFixtures(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.svc.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(list)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGenerateFixture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req := service.Request{Name: name}

	layout, err := fixture.ParseLayout(request.GetString("layout", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req.Layout = layout

	if v := request.GetString("seed", ""); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return mcp.NewToolResultError("seed must be an unsigned integer"), nil
		}
		req.Seed = &seed
	}
	if _, ok := request.GetArguments()["html"]; ok {
		html := request.GetBool("html", false)
		req.HTML = &html
	}

	res, err := s.svc.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(res.Data)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: thicket://fixtures
	s.mcpServer.AddResource(mcp.NewResource(FixturesURI, "Fixture Catalog",
		mcp.WithResourceDescription("Summaries of every fixture definition"),
		mcp.WithMIMEType("application/json"),
	), s.handleFixturesResource)
}

func (s *Server) handleFixturesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	jsonBytes, _ := json.Marshal(list)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FixturesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
