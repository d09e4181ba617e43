package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/things3-mcp/internal/applescript"
	"github.com/teemow/things3-mcp/internal/config"
	"github.com/teemow/things3-mcp/internal/dates"
	"github.com/teemow/things3-mcp/internal/instrumentation"
	"github.com/teemow/things3-mcp/internal/logging"
	"github.com/teemow/things3-mcp/internal/resources"
	"github.com/teemow/things3-mcp/internal/server"
	"github.com/teemow/things3-mcp/internal/things"
	"github.com/teemow/things3-mcp/internal/tools/things_tools"
)

const (
	httpShutdownTimeout = 30 * time.Second
	telemetryFlushTime  = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server that exposes Things 3 tools to AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP on /mcp, with /healthz and /readyz

With --read-only only get_tasks, parse_date, get_date_range and
things_status are available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	fs := cmd.Flags()
	fs.String("transport", defaults.Transport, "Transport type: stdio or streamable-http")
	fs.String("http-addr", defaults.HTTPAddr, "HTTP server address (for streamable-http transport)")
	fs.Bool("read-only", defaults.ReadOnly, "Only register tools that do not change Things")
	fs.Bool("metrics-enabled", defaults.Metrics.Enabled, "Enable the metrics server on a dedicated port (streamable-http only)")
	fs.String("metrics-addr", defaults.Metrics.Addr, "Metrics server address")
	addScriptFlags(fs, defaults)
	addLogFlags(fs, defaults)
	addWeekStartFlag(fs, defaults)

	return cmd
}

func runServe(cfg *config.Config) error {
	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the stdio protocol, so logs always go to stderr
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	telemetry := cfg.Telemetry
	telemetry.Service.Version = version

	provider, err := instrumentation.NewProvider(ctx, telemetry)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTime)
		defer cancel()
		if err := provider.Shutdown(flushCtx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	client, err := newThingsClient(cfg, logger, provider.Metrics())
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithReadOnly(cfg.ReadOnly),
		server.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, telemetry.Audit)),
	}
	if provider.Enabled() {
		opts = append(opts, server.WithMetrics(provider.Metrics()))
	}
	serverContext := server.NewServerContext(ctx, client, opts...)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	mcpSrv, err := newMCPServer(serverContext)
	if err != nil {
		return err
	}

	logger.Info("starting things3-mcp",
		"version", version,
		"transport", cfg.Transport,
		"read_only", cfg.ReadOnly,
		"tools", len(things_tools.ToolNames(cfg.ReadOnly)))

	switch cfg.Transport {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	case config.TransportStreamableHTTP:
		return runStreamableHTTPServer(ctx, mcpSrv, serverContext, cfg, provider, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}
}

// newThingsClient wires the script executor and date parser described by
// cfg into a Things client. metrics may be nil.
func newThingsClient(cfg *config.Config, logger *slog.Logger, metrics *instrumentation.Metrics) (*things.Client, error) {
	weekStart, err := cfg.WeekStartDay()
	if err != nil {
		return nil, err
	}

	executor := applescript.NewExecutor(
		applescript.WithInterpreter(cfg.Interpreter),
		applescript.WithTempDir(cfg.TempDir),
		applescript.WithLogger(logging.NewSlogAdapter(logger)),
	)
	parser := dates.NewParser(
		dates.WithClock(dates.SystemClock()),
		dates.WithWeekStart(weekStart),
		dates.WithLogger(logger),
	)
	return things.NewClient(executor, parser, logger, things.WithMetrics(metrics)), nil
}

// newMCPServer creates the MCP server and registers the Things tools and
// resources.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("things3-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)
	if err := things_tools.RegisterThingsTools(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register Things tools: %w", err)
	}
	if err := resources.RegisterThingsResources(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register Things resources: %w", err)
	}
	return mcpSrv, nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(
	ctx context.Context,
	mcpSrv *mcpserver.MCPServer,
	sc *server.ServerContext,
	cfg *config.Config,
	provider *instrumentation.Provider,
	logger *slog.Logger,
) error {
	metricsServer, err := startMetricsServer(cfg, provider, logger)
	if err != nil {
		return err
	}

	httpServer := server.NewHTTPServer(mcpSrv, sc)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			runErr = fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTime)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", logging.Err(err))
		}
	}

	if runErr == nil {
		logger.Info("HTTP server gracefully stopped")
	}
	return runErr
}

// startMetricsServer starts the Prometheus scrape endpoint when it is
// enabled and the provider exports to Prometheus. It returns nil otherwise.
func startMetricsServer(cfg *config.Config, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	if !provider.Enabled() || !provider.HasPrometheusExporter() {
		logger.Info("metrics server not started: prometheus exporter is not configured")
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(cfg.Metrics.Addr, provider, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", logging.Err(err))
		}
	}()
	return metricsServer, nil
}
