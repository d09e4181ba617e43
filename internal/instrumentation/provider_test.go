package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, modify func(*Config)) (*Provider, error) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Service.Version = "1.0.0"
	modify(&cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	p, err := NewProvider(ctx, cfg)
	if err == nil {
		t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	}
	return p, err
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := newTestProvider(t, func(c *Config) { c.Enabled = false })
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.False(t, p.HasPrometheusExporter())
	require.NotNil(t, p.Metrics(), "disabled provider still hands out a recorder")
	p.Metrics().RecordToolInvocation(context.Background(), "get_tasks", StatusSuccess, time.Millisecond)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name           string
		modify         func(*Config)
		wantPrometheus bool
	}{
		{name: "prometheus", modify: func(*Config) {}, wantPrometheus: true},
		{name: "empty metrics exporter means prometheus", modify: func(c *Config) { c.Metrics.Exporter = "" }, wantPrometheus: true},
		{
			name: "stdout",
			modify: func(c *Config) {
				c.Metrics.Exporter = ExporterStdout
				c.Tracing.Exporter = ExporterStdout
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := newTestProvider(t, tt.modify)
			require.NoError(t, err)
			assert.True(t, p.Enabled())
			assert.NotNil(t, p.Metrics())
			assert.Equal(t, tt.wantPrometheus, p.HasPrometheusExporter())
		})
	}
}

func TestNewProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "unknown metrics exporter", modify: func(c *Config) { c.Metrics.Exporter = "statsd" }},
		{name: "unknown tracing exporter", modify: func(c *Config) { c.Tracing.Exporter = "jaeger" }},
		{name: "otlp tracing without endpoint", modify: func(c *Config) { c.Tracing.Exporter = ExporterOTLP }},
		{name: "otlp metrics without endpoint", modify: func(c *Config) { c.Metrics.Exporter = ExporterOTLP }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestProvider(t, tt.modify)
			assert.Error(t, err)
		})
	}
}

func TestNewProvider_DefaultServiceName(t *testing.T) {
	p, err := newTestProvider(t, func(c *Config) { c.Service.Name = "" })
	require.NoError(t, err)
	assert.Equal(t, DefaultServiceName, p.Config().Service.Name)
	assert.Equal(t, "1.0.0", p.Config().Service.Version)
}

func TestProvider_Shutdown(t *testing.T) {
	p, err := NewProvider(context.Background(), DefaultConfig())
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))
}
