package instrumentation

import (
	"fmt"
	"time"
)

// Exporter names accepted by Config.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Script operations, used as the operation label and span suffix.
const (
	OperationAdd      = "add"
	OperationList     = "list"
	OperationUpdate   = "update"
	OperationComplete = "complete"
	OperationDelete   = "delete"
	OperationMove     = "move"
	OperationProbe    = "probe"
)

// DefaultServiceName is reported as service.name unless overridden.
const DefaultServiceName = "things3-mcp"

// DefaultMetricInterval is the push interval for periodic metric readers.
const DefaultMetricInterval = 10 * time.Second

// Config is the telemetry section of the server configuration.
type Config struct {
	// Enabled turns metrics and tracing on. Audit logging is controlled
	// separately.
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Service ServiceConfig `mapstructure:"service" yaml:"service"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	OTLP    OTLPConfig    `mapstructure:"otlp" yaml:"otlp"`
	Audit   AuditConfig   `mapstructure:"audit" yaml:"audit"`
}

// ServiceConfig names this process in exported resources.
type ServiceConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	// InstanceID defaults to the hostname.
	InstanceID string `mapstructure:"instance_id" yaml:"instance_id"`
	// Version is stamped at build time, never read from config.
	Version string `mapstructure:"-" yaml:"-"`
}

// MetricsConfig selects the metric exporter.
type MetricsConfig struct {
	// Exporter is prometheus, otlp or stdout.
	Exporter string `mapstructure:"exporter" yaml:"exporter"`
	// DetailedLabels adds the list label to script execution metrics.
	DetailedLabels bool `mapstructure:"detailed_labels" yaml:"detailed_labels"`
}

// TracingConfig selects the span exporter and sampling.
type TracingConfig struct {
	// Exporter is otlp, stdout or none.
	Exporter   string  `mapstructure:"exporter" yaml:"exporter"`
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// OTLPConfig points both OTLP exporters at a collector.
type OTLPConfig struct {
	// Endpoint is host:port without a scheme.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure bool   `mapstructure:"insecure" yaml:"insecure"`
}

// AuditConfig controls the audit log of tool calls.
type AuditConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// IncludeTaskNames logs task titles in clear text instead of hashes.
	IncludeTaskNames bool `mapstructure:"include_task_names" yaml:"include_task_names"`
}

// DefaultConfig returns Prometheus metrics, no tracing and hashed audit
// logging.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Service: ServiceConfig{Name: DefaultServiceName},
		Metrics: MetricsConfig{Exporter: ExporterPrometheus},
		Tracing: TracingConfig{Exporter: ExporterNone, SampleRate: 0.1},
		Audit:   AuditConfig{Enabled: true},
	}
}

// Validate checks exporter names, the sample rate and that OTLP exporters
// have somewhere to send to.
func (c *Config) Validate() error {
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("trace sample rate must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate)
	}

	switch c.Metrics.Exporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.Metrics.Exporter)
	}

	switch c.Tracing.Exporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.Tracing.Exporter)
	}

	if c.OTLP.Endpoint == "" && (c.Metrics.Exporter == ExporterOTLP || c.Tracing.Exporter == ExporterOTLP) {
		return fmt.Errorf("OTLP endpoint is required when an exporter is otlp")
	}
	return nil
}
