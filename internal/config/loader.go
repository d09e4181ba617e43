package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. THINGS3_MCP_LOG_LEVEL.
const EnvPrefix = "THINGS3_MCP"

// Load reads configuration from path, or from DefaultPath when path is
// empty. A missing default file is not an error; a missing explicit file
// is. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := newViper()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newViper returns a viper instance seeded with defaults and bound to the
// environment. Every key needs a default so Unmarshal sees env overrides.
func newViper() *viper.Viper {
	d := DefaultConfig()

	v := viper.New()
	v.SetDefault("interpreter", d.Interpreter)
	v.SetDefault("temp_dir", d.TempDir)
	v.SetDefault("read_only", d.ReadOnly)
	v.SetDefault("transport", d.Transport)
	v.SetDefault("http_addr", d.HTTPAddr)
	v.SetDefault("week_start", d.WeekStart)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.addr", d.Metrics.Addr)

	t := d.Telemetry
	v.SetDefault("telemetry.enabled", t.Enabled)
	v.SetDefault("telemetry.service.name", t.Service.Name)
	v.SetDefault("telemetry.service.instance_id", t.Service.InstanceID)
	v.SetDefault("telemetry.metrics.exporter", t.Metrics.Exporter)
	v.SetDefault("telemetry.metrics.detailed_labels", t.Metrics.DetailedLabels)
	v.SetDefault("telemetry.tracing.exporter", t.Tracing.Exporter)
	v.SetDefault("telemetry.tracing.sample_rate", t.Tracing.SampleRate)
	v.SetDefault("telemetry.otlp.endpoint", t.OTLP.Endpoint)
	v.SetDefault("telemetry.otlp.insecure", t.OTLP.Insecure)
	v.SetDefault("telemetry.audit.enabled", t.Audit.Enabled)
	v.SetDefault("telemetry.audit.include_task_names", t.Audit.IncludeTaskNames)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Standard OpenTelemetry variables are honoured after our own.
	for key, otelEnv := range otelEnvAliases {
		_ = v.BindEnv(key, envKey(key), otelEnv)
	}
	return v
}

var otelEnvAliases = map[string]string{
	"telemetry.service.name":        "OTEL_SERVICE_NAME",
	"telemetry.service.instance_id": "OTEL_SERVICE_INSTANCE_ID",
	"telemetry.otlp.endpoint":       "OTEL_EXPORTER_OTLP_ENDPOINT",
	"telemetry.otlp.insecure":       "OTEL_EXPORTER_OTLP_INSECURE",
	"telemetry.tracing.sample_rate": "OTEL_TRACES_SAMPLER_ARG",
}

// envKey returns the prefixed variable AutomaticEnv would look up for key.
func envKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// DefaultPath returns $XDG_CONFIG_HOME/things3-mcp/config.yaml, falling
// back to ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "things3-mcp", "config.yaml")
}
