package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const testTask = "Buy milk"

func slogAttrs(attrs []slog.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value.String()
	}
	return m
}

func TestToolInvocation_Finish(t *testing.T) {
	ti := NewToolInvocation("add_task")
	_, err := uuid.Parse(ti.ID)
	require.NoError(t, err)
	assert.False(t, ti.StartTime.IsZero())

	ti.Finish(nil)
	assert.True(t, ti.Success)
	assert.Empty(t, ti.Error)
	assert.Equal(t, StatusSuccess, ti.Status())
	assert.GreaterOrEqual(t, ti.Duration.Nanoseconds(), int64(0))

	ti = NewToolInvocation("get_tasks").Finish(errors.New("AppleScript execution failed: boom"))
	assert.False(t, ti.Success)
	assert.Equal(t, "AppleScript execution failed: boom", ti.Error)
	assert.Equal(t, StatusError, ti.Status())
}

func TestToolInvocation_UniqueIDs(t *testing.T) {
	assert.NotEqual(t, NewToolInvocation("add_task").ID, NewToolInvocation("add_task").ID)
}

func TestToolInvocation_Attrs(t *testing.T) {
	ti := NewToolInvocation("get_tasks").
		WithOperation(OperationList).
		WithList("today").
		WithTask(testTask).
		Finish(errors.New("boom"))

	hashed := slogAttrs(ti.Attrs(false))
	assert.Equal(t, "get_tasks", hashed["tool"])
	assert.Equal(t, OperationList, hashed["operation"])
	assert.Equal(t, "today", hashed["list"])
	assert.Equal(t, "boom", hashed["error"])
	assert.NotContains(t, hashed, "task")
	assert.Regexp(t, `^task:[0-9a-f]{16}$`, hashed["task_hash"])

	plain := slogAttrs(ti.Attrs(true))
	assert.Equal(t, testTask, plain["task"])
	assert.NotContains(t, plain, "task_hash")
}

func TestToolInvocation_AttrsMinimal(t *testing.T) {
	attrs := NewToolInvocation("get_tasks").Finish(nil).Attrs(false)
	assert.Len(t, attrs, 4)
}

func TestToolInvocation_WithSpanContext(t *testing.T) {
	ti := NewToolInvocation("get_tasks").WithSpanContext(context.Background())
	assert.Empty(t, ti.TraceID)
	assert.Empty(t, ti.SpanID)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "tool.get_tasks")
	defer span.End()

	ti = NewToolInvocation("get_tasks").WithSpanContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), ti.TraceID)
	assert.Equal(t, span.SpanContext().SpanID().String(), ti.SpanID)
}

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	tests := []struct {
		name      string
		clearTask bool
		err       error
		wantMsg   string
		wantLevel string
	}{
		{name: "success hashed", wantMsg: AuditMsgExecuted, wantLevel: "INFO"},
		{name: "failure hashed", err: errors.New("boom"), wantMsg: AuditMsgFailed, wantLevel: "WARN"},
		{name: "success with names", clearTask: true, wantMsg: AuditMsgExecuted, wantLevel: "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger()
			al := NewAuditLoggerWithConfig(logger, AuditConfig{Enabled: true, IncludeTaskNames: tt.clearTask})

			ti := NewToolInvocation("add_task").WithTask(testTask).Finish(tt.err)
			al.LogToolInvocation(ti)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
			assert.Equal(t, tt.wantMsg, entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, ti.ID, entry["invocation_id"])
			if tt.clearTask {
				assert.Equal(t, testTask, entry["task"])
			} else {
				assert.NotContains(t, entry, "task")
				assert.Contains(t, entry, "task_hash")
			}
		})
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	logger, buf := newBufferLogger()
	al := NewAuditLoggerWithConfig(logger, AuditConfig{Enabled: false, IncludeTaskNames: true})

	al.LogToolInvocation(NewToolInvocation("add_task").Finish(nil))
	assert.Zero(t, buf.Len())

	var nilLogger *AuditLogger
	assert.NotPanics(t, func() {
		nilLogger.LogToolInvocation(NewToolInvocation("add_task").Finish(nil))
	})
}

func TestNewAuditLogger(t *testing.T) {
	al := NewAuditLogger(nil)
	assert.NotNil(t, al.logger)
	assert.True(t, al.enabled)
	assert.False(t, al.clearTask)

	logger, buf := newBufferLogger()
	NewAuditLogger(logger).LogToolInvocation(NewToolInvocation("add_task").WithTask(testTask).Finish(nil))
	assert.NotContains(t, buf.String(), testTask)
	assert.Contains(t, buf.String(), "task_hash")
}
