package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/udisondev/plantcalc/internal/config"
	"github.com/udisondev/plantcalc/internal/engine"
)

const (
	serverName = "plantcalc"

	shutdownTimeout = 5 * time.Second
)

// NewServer registers every calculator tool on a fresh MCP server.
func NewServer(e *engine.Engine, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)

	mcp.AddTool(server, damageTool(), DamageHandler(e))
	mcp.AddTool(server, fuseTool(), FuseHandler(e))
	mcp.AddTool(server, listVariantsTool(), ListVariantsHandler(e))
	mcp.AddTool(server, listPlantsTool(), ListPlantsHandler(e))
	mcp.AddTool(server, listMutationsTool(), ListMutationsHandler(e))
	return server
}

// Run serves the tools until ctx is cancelled or the client disconnects.
func Run(ctx context.Context, server *mcp.Server, cfg config.MCPConfig) error {
	switch cfg.Transport {
	case config.TransportStdio, "":
		slog.Info("mcp server starting", "transport", config.TransportStdio)
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serving stdio: %w", err)
		}
		return nil

	case config.TransportHTTP:
		return runHTTP(ctx, server, cfg.Address)

	default:
		return fmt.Errorf("mcp transport %q is not supported", cfg.Transport)
	}
}

func runHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("mcp server starting", "transport", config.TransportHTTP, "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving mcp http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down mcp http: %w", err)
	}
	return nil
}
