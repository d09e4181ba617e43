package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics backed by a manual reader so recorded
// values can be collected and inspected.
func newTestMetrics(t *testing.T, detailedLabels bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailedLabels)
	require.NoError(t, err)
	return m, reader
}

// sumPoints returns the data points of the named Int64 sum.
func sumPoints(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			return sum.DataPoints
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func hasAttr(set attribute.Set, key, value string) bool {
	v, ok := set.Value(attribute.Key(key))
	return ok && v.AsString() == value
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t, false)

	m.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 100*time.Millisecond)
	m.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)

	points := sumPoints(t, reader, "http_requests_total")
	require.Len(t, points, 2)
	for _, p := range points {
		assert.Equal(t, int64(1), p.Value)
		assert.True(t, hasAttr(p.Attributes, attrPath, "/mcp"))
	}
}

func TestMetrics_RecordScriptExecution(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t, false)

	m.RecordScriptExecution(ctx, OperationAdd, "", StatusSuccess, 200*time.Millisecond)
	m.RecordScriptExecution(ctx, OperationAdd, "", StatusSuccess, 300*time.Millisecond)
	m.RecordScriptExecution(ctx, OperationList, "today", StatusError, time.Second)

	points := sumPoints(t, reader, "applescript_executions_total")
	require.Len(t, points, 2)

	for _, p := range points {
		_, hasList := p.Attributes.Value(attrList)
		assert.False(t, hasList, "list label requires detailed labels")

		switch {
		case hasAttr(p.Attributes, attrOperation, OperationAdd):
			assert.Equal(t, int64(2), p.Value)
			assert.True(t, hasAttr(p.Attributes, attrStatus, StatusSuccess))
		case hasAttr(p.Attributes, attrOperation, OperationList):
			assert.Equal(t, int64(1), p.Value)
			assert.True(t, hasAttr(p.Attributes, attrStatus, StatusError))
		default:
			t.Errorf("unexpected data point %v", p.Attributes)
		}
	}
}

func TestMetrics_RecordScriptExecution_DetailedLabels(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t, true)

	m.RecordScriptExecution(ctx, OperationList, "inbox", StatusSuccess, time.Second)
	m.RecordScriptExecution(ctx, OperationComplete, "", StatusSuccess, time.Second)

	points := sumPoints(t, reader, "applescript_executions_total")
	require.Len(t, points, 2)
	for _, p := range points {
		if hasAttr(p.Attributes, attrOperation, OperationList) {
			assert.True(t, hasAttr(p.Attributes, attrList, "inbox"))
			continue
		}
		_, hasList := p.Attributes.Value(attrList)
		assert.False(t, hasList, "empty list value is not recorded")
	}
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t, false)

	m.RecordToolInvocation(ctx, "add_task", StatusSuccess, 150*time.Millisecond)
	m.RecordToolInvocation(ctx, "get_tasks", StatusError, 200*time.Millisecond)

	points := sumPoints(t, reader, "mcp_tool_invocations_total")
	require.Len(t, points, 2)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	require.NoError(t, err)

	m := provider.Metrics()
	// Should not panic
	m.RecordHTTPRequest(ctx, "GET", "/mcp", 200, time.Millisecond)
	m.RecordScriptExecution(ctx, OperationAdd, "", StatusSuccess, time.Millisecond)
	m.RecordToolInvocation(ctx, "add_task", StatusSuccess, time.Millisecond)

	var nilMetrics *Metrics
	nilMetrics.RecordScriptExecution(ctx, OperationAdd, "", StatusSuccess, time.Millisecond)
}
