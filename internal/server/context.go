package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/things3-mcp/internal/dates"
	"github.com/teemow/things3-mcp/internal/instrumentation"
	"github.com/teemow/things3-mcp/internal/things"
)

// ServerContext holds the dependencies shared by all MCP tool handlers.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	client      *things.Client
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	readOnly    bool
	mu          sync.RWMutex
	shutdown    bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithLogger sets the logger handed to tool handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// WithMetrics sets the tool invocation metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) {
		sc.metrics = m
	}
}

// WithAuditLogger sets the audit logger for tool invocations.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) {
		sc.auditLogger = al
	}
}

// WithReadOnly hides tools that change Things.
func WithReadOnly(readOnly bool) Option {
	return func(sc *ServerContext) {
		sc.readOnly = readOnly
	}
}

// NewServerContext creates a new server context around client.
func NewServerContext(ctx context.Context, client *things.Client, opts ...Option) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the Things client.
func (sc *ServerContext) Client() *things.Client {
	return sc.client
}

// Parser returns the date parser the client normalizes dates with.
func (sc *ServerContext) Parser() *dates.Parser {
	return sc.client.Parser()
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// ReadOnly reports whether write tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
