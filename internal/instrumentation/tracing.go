package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer all spans of this server come from.
const TracerName = "github.com/teemow/things3-mcp"

// Span attribute keys.
const (
	SpanAttrTool        = "mcp.tool"
	SpanAttrReadOnly    = "mcp.read_only"
	SpanAttrOperation   = "applescript.operation"
	SpanAttrScriptBytes = "applescript.script_bytes"
	SpanAttrList        = "things.list"
	// SpanAttrTask is always a hash, never the task title.
	SpanAttrTask = "things.task"
)

// SpanAttributeBuilder collects span attributes, skipping empty optional
// values.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{attrs: make([]attribute.KeyValue, 0, 6)}
}

func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	return b
}

func (b *SpanAttributeBuilder) WithList(list string) *SpanAttributeBuilder {
	if list != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrList, list))
	}
	return b
}

// WithTaskHash adds an already anonymized task identifier.
func (b *SpanAttributeBuilder) WithTaskHash(hash string) *SpanAttributeBuilder {
	if hash != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrTask, hash))
	}
	return b
}

func (b *SpanAttributeBuilder) WithScriptBytes(n int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrScriptBytes, n))
	return b
}

func (b *SpanAttributeBuilder) WithReadOnly(readOnly bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Bool(SpanAttrReadOnly, readOnly))
	return b
}

func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartToolSpan starts a server span named "tool.<name>" for one MCP tool
// call. The caller ends it.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, "tool."+toolName, trace.SpanKindServer,
		append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...))
}

// StartScriptSpan starts a client span named "applescript.<operation>"
// around one interpreter run. The caller ends it.
func StartScriptSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, "applescript."+operation, trace.SpanKindClient,
		append([]attribute.KeyValue{attribute.String(SpanAttrOperation, operation)}, attrs...))
}

func startSpan(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(kind),
	)
}

// SetSpanError records err on span. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
