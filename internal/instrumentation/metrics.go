package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrList      = "list"
	attrTool      = "tool"
)

// timed pairs a counter with a duration histogram sharing the same
// attributes.
type timed struct {
	count    metric.Int64Counter
	duration metric.Float64Histogram
}

type timedSpec struct {
	counter, histogram string
	what, unit         string
	buckets            []float64
}

func newTimed(meter metric.Meter, def timedSpec) (timed, error) {
	var t timed
	var err error

	t.count, err = meter.Int64Counter(def.counter,
		metric.WithDescription("Total number of "+def.what),
		metric.WithUnit(def.unit))
	if err != nil {
		return t, fmt.Errorf("failed to create %s counter: %w", def.counter, err)
	}

	t.duration, err = meter.Float64Histogram(def.histogram,
		metric.WithDescription("Duration of "+def.what+" in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(def.buckets...))
	if err != nil {
		return t, fmt.Errorf("failed to create %s histogram: %w", def.histogram, err)
	}
	return t, nil
}

func (t timed) record(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	if t.count == nil || t.duration == nil {
		return
	}
	opt := metric.WithAttributes(attrs...)
	t.count.Add(ctx, 1, opt)
	t.duration.Record(ctx, d.Seconds(), opt)
}

// Metrics records HTTP, interpreter and tool metrics. A nil or zero
// Metrics records nothing.
type Metrics struct {
	http   timed
	script timed
	tool   timed

	// detailedLabels adds the list label to script metrics
	detailedLabels bool
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	instruments := []struct {
		dst *timed
		def timedSpec
	}{
		{&m.http, timedSpec{
			counter:   "http_requests_total",
			histogram: "http_request_duration_seconds",
			what:      "HTTP requests",
			unit:      "{request}",
			buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
		}},
		// osascript start-up alone is ~100ms; large lists can take many seconds
		{&m.script, timedSpec{
			counter:   "applescript_executions_total",
			histogram: "applescript_execution_duration_seconds",
			what:      "AppleScript executions",
			unit:      "{execution}",
			buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}},
		{&m.tool, timedSpec{
			counter:   "mcp_tool_invocations_total",
			histogram: "mcp_tool_duration_seconds",
			what:      "MCP tool invocations",
			unit:      "{invocation}",
			buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}},
	}

	for _, s := range instruments {
		t, err := newTimed(meter, s.def)
		if err != nil {
			return nil, err
		}
		*s.dst = t
	}
	return m, nil
}

// RecordHTTPRequest records one request to the streamable HTTP server.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.http.record(ctx, duration,
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)))
}

// RecordScriptExecution records one interpreter run. list is only recorded
// with detailed labels.
func (m *Metrics) RecordScriptExecution(ctx context.Context, operation, list, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && list != "" {
		attrs = append(attrs, attribute.String(attrList, list))
	}
	m.script.record(ctx, duration, attrs...)
}

// RecordToolInvocation records one MCP tool call.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.tool.record(ctx, duration,
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status))
}
