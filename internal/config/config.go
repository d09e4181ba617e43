package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teemow/things3-mcp/internal/instrumentation"
	"github.com/teemow/things3-mcp/internal/logging"
)

// Transport names accepted by the serve command.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Config is the effective server configuration.
type Config struct {
	// Interpreter is the script interpreter binary.
	Interpreter string `mapstructure:"interpreter" yaml:"interpreter"`

	// TempDir holds transient script files. Empty means the OS default.
	TempDir string `mapstructure:"temp_dir" yaml:"temp_dir"`

	// ReadOnly hides every tool that changes Things.
	ReadOnly bool `mapstructure:"read_only" yaml:"read_only"`

	Transport string `mapstructure:"transport" yaml:"transport"`
	HTTPAddr  string `mapstructure:"http_addr" yaml:"http_addr"`

	// WeekStart is the first day of the week for date ranges.
	WeekStart string `mapstructure:"week_start" yaml:"week_start"`

	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	Telemetry instrumentation.Config `mapstructure:"telemetry" yaml:"telemetry"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig configures the dedicated metrics server.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Interpreter: "osascript",
		Transport:   TransportStdio,
		HTTPAddr:    ":8080",
		WeekStart:   "sunday",
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Telemetry: instrumentation.DefaultConfig(),
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Interpreter) == "" {
		return fmt.Errorf("interpreter must not be empty")
	}

	switch c.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("invalid transport %q, must be one of: %s, %s", c.Transport, TransportStdio, TransportStreamableHTTP)
	}

	if c.Transport == TransportStreamableHTTP && c.HTTPAddr == "" {
		return fmt.Errorf("http_addr is required for the %s transport", TransportStreamableHTTP)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q, must be one of: text, json", c.Log.Format)
	}

	if _, err := c.WeekStartDay(); err != nil {
		return err
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// WeekStartDay parses WeekStart. Only sunday and monday are accepted.
func (c *Config) WeekStartDay() (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(c.WeekStart)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("invalid week_start %q, must be sunday or monday", c.WeekStart)
	}
}

// YAML renders the configuration in config file form.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}
