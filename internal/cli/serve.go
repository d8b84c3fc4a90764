package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/fbxtools"
	httpAdapter "github.com/aretw0/fbxtools/pkg/adapters/http"
	"github.com/aretw0/fbxtools/pkg/adapters/mcp"
	"github.com/aretw0/fbxtools/pkg/metrics"
	"github.com/aretw0/lifecycle"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP API until ctx is cancelled. Clones of the same document
// are serialized, across processes when the redis journal is configured.
func Serve(ctx context.Context, env Env) error {
	collectors, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	streams := httpAdapter.NewStreamManager()

	logger, h, err := env.setup(EngineOptions{
		Lock: true,
		Extra: []fbxtools.Option{
			fbxtools.WithLifecycleHooks(collectors.Hooks()),
			fbxtools.WithLifecycleHooks(streams.Hooks()),
		},
	})
	if err != nil {
		return err
	}
	defer h.Close()

	handler, err := httpAdapter.NewHandler(h.Engine,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithRoot(env.Config.Server.Root),
		httpAdapter.WithStreams(streams),
		httpAdapter.WithVersion(fbxtools.Version),
	)
	if err != nil {
		return fmt.Errorf("failed to build handler: %w", err)
	}

	srv := &http.Server{
		Addr:    env.Config.Server.Addr,
		Handler: handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		logger.Info("Starting fbxtools server", "address", srv.Addr, "root", env.Config.Server.Root)
		printSystemMessage(env.Out, "Listening on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		printSystemMessage(env.Out, "Shutting down...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("Server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP server over stdio or SSE.
func ServeMCP(ctx context.Context, env Env, transport string) error {
	logger, h, err := env.setup(EngineOptions{Lock: true})
	if err != nil {
		return err
	}
	defer h.Close()
	slog.SetDefault(logger)

	srv := mcp.NewServer(h.Engine)
	switch transport {
	case "stdio":
		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger.Info("Starting fbxtools MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("Starting fbxtools MCP Server (SSE)", "port", env.Config.Server.MCPPort)
		if err := srv.ServeSSE(ctx, env.Config.Server.MCPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	}
	return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
}
