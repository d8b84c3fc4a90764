package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/fbxtools"
	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/ports"
	"github.com/aretw0/fbxtools/pkg/scene"
	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// OperationsURI lists the recorded operations.
const OperationsURI = "fbxtools://operations"

// Engine defines what the MCP server needs from fbxtools.
type Engine interface {
	Clone(ctx context.Context, req domain.CloneRequest) *domain.Result
	Inspect(ctx context.Context, path string) (*scene.Inspection, error)
	Journal() ports.Journal
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("fbxtools-mcp", strings.TrimSpace(fbxtools.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
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
	lifecycle.Go(ctx, func(ctx context.Context) error {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: clone_node
	cloneTool := mcp.NewTool("clone_node",
		mcp.WithDescription("Duplicate a mesh node and its geometry inside an FBX file. The copy is attached to every parent of the source and the file is saved in place."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the FBX file")),
		mcp.WithString("source", mcp.Required(), mcp.Description("Name of the node to duplicate")),
		mcp.WithString("destination", mcp.Required(), mcp.Description("Unique name for the copy")),
		mcp.WithOutputSchema[domain.Result](),
	)
	s.mcpServer.AddTool(cloneTool, s.handleClone)

	// TOOL: list_nodes
	s.mcpServer.AddTool(mcp.NewTool("list_nodes",
		mcp.WithDescription("List the nodes of an FBX file with their meshes, materials and parents."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the FBX file")),
	), s.handleListNodes)
}

func (s *Server) handleClone(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req domain.CloneRequest
	if err := request.BindArguments(&req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	res := s.engine.Clone(ctx, req)
	summary := fmt.Sprintf("%s: %s", res.Status, res.Message)
	if res.OK() {
		summary = fmt.Sprintf("cloned %s as %s (mesh %s) under %s", req.Source, res.Clone, res.Mesh, strings.Join(res.Parents, ", "))
	}
	out := mcp.NewToolResultStructured(res, summary)
	out.IsError = !res.OK()
	return out, nil
}

func (s *Server) handleListNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	info, err := s.engine.Inspect(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(info)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: fbxtools://operations
	s.mcpServer.AddResource(mcp.NewResource(OperationsURI, "Recorded clone operations",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		journal := s.engine.Journal()
		if journal == nil {
			return nil, errors.New("no journal configured")
		}
		ids, err := journal.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list operations: %w", err)
		}
		results := make([]*domain.Result, 0, len(ids))
		for _, id := range ids {
			res, err := journal.Load(ctx, id)
			if err != nil {
				continue
			}
			results = append(results, res)
		}
		jsonBytes, _ := json.Marshal(results)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      OperationsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
