package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teemow/things3-mcp/internal/instrumentation"
)

// DefaultMetricsAddr is used when no metrics address is configured.
const DefaultMetricsAddr = ":9090"

const (
	metricsReadHeaderTimeout = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsIdleTimeout       = 60 * time.Second
)

// Errors returned by NewMetricsServer.
var (
	ErrNoProvider       = errors.New("instrumentation provider is required for the metrics server")
	ErrProviderDisabled = errors.New("instrumentation provider is not enabled")
	ErrNoPrometheus     = errors.New("metrics server requires the prometheus exporter")
)

// MetricsServer serves /metrics on its own listener, away from the MCP
// endpoint.
type MetricsServer struct {
	addr   string
	logger *slog.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// NewMetricsServer checks that provider exports through the global
// Prometheus registry and returns an unstarted server bound to addr.
func NewMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*MetricsServer, error) {
	switch {
	case provider == nil:
		return nil, ErrNoProvider
	case !provider.Enabled():
		return nil, ErrProviderDisabled
	case !provider.HasPrometheusExporter():
		return nil, ErrNoPrometheus
	}
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsServer{addr: addr, logger: logger}, nil
}

// Handler serves /metrics and a liveness probe at /healthz.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start listens on the configured address and serves until Shutdown. It
// returns http.ErrServerClosed after a clean shutdown.
func (s *MetricsServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: metricsReadHeaderTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}
	srv := s.srv
	s.mu.Unlock()

	s.logger.Info("starting metrics server", "addr", ln.Addr().String())
	return srv.Serve(ln)
}

// Shutdown stops a started server. It is a no-op before Start.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("shutting down metrics server")
	return srv.Shutdown(ctx)
}

// Addr returns the bound address once started, the configured one before.
func (s *MetricsServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
