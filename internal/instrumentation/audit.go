package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/things3-mcp/internal/logging"
)

// Audit log messages.
const (
	AuditMsgExecuted = "tool_executed"
	AuditMsgFailed   = "tool_failed"
)

// ToolInvocation is one audited tool call. TaskName is user content and is
// only written in clear text when the audit logger is configured for it.
type ToolInvocation struct {
	ID        string
	Tool      string
	Operation string
	List      string
	TaskName  string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts timing a call to tool under a fresh UUID.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		ID:        uuid.New().String(),
		Tool:      tool,
		StartTime: time.Now(),
	}
}

func (ti *ToolInvocation) WithOperation(operation string) *ToolInvocation {
	ti.Operation = operation
	return ti
}

func (ti *ToolInvocation) WithList(list string) *ToolInvocation {
	ti.List = list
	return ti
}

func (ti *ToolInvocation) WithTask(name string) *ToolInvocation {
	ti.TaskName = name
	return ti
}

// WithSpanContext copies the trace and span ids of the span in ctx, if any.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		ti.TraceID = sc.TraceID().String()
		ti.SpanID = sc.SpanID().String()
	}
	return ti
}

// Finish stops the clock. A nil err marks the call successful.
func (ti *ToolInvocation) Finish(err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = err == nil
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// Status returns StatusSuccess or StatusError.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// Attrs returns the log attributes of the call. The task is written as a
// hash unless clearTask is set.
func (ti *ToolInvocation) Attrs(clearTask bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.ID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	optional := []struct{ key, value string }{
		{logging.KeyOperation, ti.Operation},
		{logging.KeyList, ti.List},
		{"trace_id", ti.TraceID},
		{"span_id", ti.SpanID},
		{logging.KeyError, ti.Error},
	}
	switch {
	case ti.TaskName == "":
	case clearTask:
		attrs = append(attrs, slog.String("task", ti.TaskName))
	default:
		attrs = append(attrs, slog.String(logging.KeyTaskHash, logging.AnonymizeText(ti.TaskName)))
	}
	for _, o := range optional {
		if o.value != "" {
			attrs = append(attrs, slog.String(o.key, o.value))
		}
	}
	return attrs
}

// AuditLogger writes one line per tool call. A nil or disabled AuditLogger
// writes nothing.
type AuditLogger struct {
	logger    *slog.Logger
	clearTask bool
	enabled   bool
}

// NewAuditLogger returns an enabled AuditLogger that hashes task names.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditConfig{Enabled: true})
}

// NewAuditLoggerWithConfig builds an AuditLogger from the telemetry audit
// section.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:    logger,
		clearTask: config.IncludeTaskNames,
		enabled:   config.Enabled,
	}
}

// LogToolInvocation writes ti at info level, or warn when it failed.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}

	level, msg := slog.LevelInfo, AuditMsgExecuted
	if !ti.Success {
		level, msg = slog.LevelWarn, AuditMsgFailed
	}
	al.logger.LogAttrs(context.Background(), level, msg, ti.Attrs(al.clearTask)...)
}
