package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/ports"
	"github.com/aretw0/fbxtools/pkg/scene"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go openapi.yaml

// Engine defines the operations the server exposes.
type Engine interface {
	Clone(ctx context.Context, req domain.CloneRequest) *domain.Result
	Inspect(ctx context.Context, path string) (*scene.Inspection, error)
	Journal() ports.Journal
}

// Server implements the generated ServerInterface.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	Version string

	root    string
	metrics http.Handler
	logger  *slog.Logger
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the handler.
type Option func(*Server)

// WithRoot confines document paths to dir. Relative request paths are
// resolved against it and paths escaping it are rejected.
func WithRoot(dir string) Option {
	return func(s *Server) {
		s.root = dir
	}
}

// WithStreams shares a StreamManager, typically one whose Hooks are
// registered on the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetricsHandler replaces the default promhttp handler on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = strings.TrimSpace(v)
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec() (*openapi3.T, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s := &Server{Engine: engine, Version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager()
	}
	if s.metrics == nil {
		s.metrics = promhttp.Handler()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	spec, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	router, err := gorillamux.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Use(s.validate(router))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		// The generated spec is JSON, which is also valid YAML.
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			s.logger.Error("Failed to load OpenAPI spec", "error", err)
			return
		}
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Handle("/metrics", s.metrics)

	return HandlerWithOptions(s, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, err)
		},
	}), nil
}

// validate checks requests for documented routes against the OpenAPI
// document. Undocumented routes pass through.
func (s *Server) validate(router routers.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
				Options:    &openapi3filter.Options{AuthenticationFunc: openapi3filter.NoopAuthenticationFunc},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				s.logger.Warn("request rejected", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusBadRequest, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>fbxtools API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// resolve maps a request path onto the configured root.
func (s *Server) resolve(path string) (string, error) {
	if s.root == "" {
		return path, nil
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.root, full)
	}
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q is outside the served directory", domain.ErrInvalidRequest, path)
	}
	return full, nil
}

// CloneNode handles POST /clone.
func (s *Server) CloneNode(w http.ResponseWriter, r *http.Request) {
	var body CloneNodeJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	path, err := s.resolve(body.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res := s.Engine.Clone(r.Context(), domain.CloneRequest{
		Path:        path,
		Source:      body.Source,
		Destination: body.Destination,
	})
	writeJSON(w, statusCode(res.Err()), res)
}

// ListNodes handles GET /nodes?path=.
func (s *Server) ListNodes(w http.ResponseWriter, r *http.Request, params ListNodesParams) {
	path, err := s.resolve(params.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	info, err := s.Engine.Inspect(r.Context(), path)
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ListOperations handles GET /operations.
func (s *Server) ListOperations(w http.ResponseWriter, r *http.Request) {
	journal := s.Engine.Journal()
	if journal == nil {
		writeJSON(w, http.StatusOK, []string{})
		return
	}
	ids, err := journal.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list operations", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetOperation handles GET /operations/{id}.
func (s *Server) GetOperation(w http.ResponseWriter, r *http.Request, id string) {
	journal := s.Engine.Journal()
	if journal == nil {
		writeError(w, http.StatusNotFound, domain.ErrOperationNotFound)
		return
	}
	res, err := journal.Load(r.Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrOperationNotFound) {
			s.logger.Error("failed to load operation", "error", err)
		}
		writeError(w, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if spec, err := LoadSpec(); err == nil && spec.Info != nil {
		apiVersion = spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "fbxtools-http",
		"version":     s.Version,
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	var path string
	if params.Path != nil && *params.Path != "" {
		resolved, err := s.resolve(*params.Path)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		path = resolved
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := s.Streams.Subscribe(path)
	defer unsubscribe()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: result\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// statusCode maps the error taxonomy onto HTTP status codes.
func statusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNameCollision):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnreadable):
		return http.StatusUnprocessableEntity
	}
	switch domain.StatusOf(err) {
	case domain.StatusInvalidArgument:
		return http.StatusBadRequest
	case domain.StatusNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
