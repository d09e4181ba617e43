package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/things3-mcp/internal/instrumentation"
)

const (
	// MCPEndpointPath is where the streamable HTTP transport is served.
	MCPEndpointPath = "/mcp"

	// DefaultHTTPReadHeaderTimeout bounds reading request headers.
	DefaultHTTPReadHeaderTimeout = 10 * time.Second

	// DefaultHTTPIdleTimeout closes idle keep-alive connections.
	DefaultHTTPIdleTimeout = 120 * time.Second
)

// HTTPServer serves an MCP server over streamable HTTP together with the
// health endpoints.
//
// No write timeout is set: a tool call blocks until the interpreter exits,
// and large lists can take longer than any fixed bound.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	health     *HealthChecker
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
	httpServer *http.Server
}

// NewHTTPServer creates a streamable HTTP server for mcpServer. metrics may
// be nil.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext) *HTTPServer {
	s := &HTTPServer{
		mcpServer: mcpServer,
		health:    NewHealthChecker(sc),
		logger:    slog.Default(),
	}
	if sc != nil {
		s.metrics = sc.Metrics()
		s.logger = sc.Logger()
	}
	return s
}

// Health returns the health checker so callers can flip readiness during
// shutdown.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Handler builds the HTTP routing for the server.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(MCPEndpointPath),
	)
	mux.Handle(MCPEndpointPath, streamable)
	s.health.RegisterHealthEndpoints(mux)

	return s.instrument(mux)
}

// Start listens on addr and blocks until the server stops.
func (s *HTTPServer) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultHTTPReadHeaderTimeout,
		IdleTimeout:       DefaultHTTPIdleTimeout,
	}

	s.logger.Info("starting streamable HTTP server", "addr", addr, "endpoint", MCPEndpointPath)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// instrument records request count and latency per route.
func (s *HTTPServer) instrument(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, routeLabel(r.URL.Path), rec.status, time.Since(start))
	})
}

// routeLabel maps a request path to a fixed set of metric label values.
func routeLabel(path string) string {
	switch {
	case path == MCPEndpointPath, strings.HasPrefix(path, MCPEndpointPath+"/"):
		return MCPEndpointPath
	case path == "/healthz", path == "/readyz", path == "/healthz/detailed":
		return path
	default:
		return "other"
	}
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
