package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teemow/things3-mcp/internal/config"
)

// Flag values are only applied when set explicitly, so the config file and
// THINGS3_MCP_* environment variables keep working underneath them.

func addScriptFlags(fs *pflag.FlagSet, defaults *config.Config) {
	fs.String("interpreter", defaults.Interpreter, "Script interpreter binary")
	fs.String("temp-dir", defaults.TempDir, "Directory for transient script files (default: OS temp dir)")
}

func addLogFlags(fs *pflag.FlagSet, defaults *config.Config) {
	fs.Bool("debug", false, "Enable debug logging (same as --log-level=debug)")
	fs.String("log-level", defaults.Log.Level, "Log level: debug, info, warn or error")
	fs.String("log-format", defaults.Log.Format, "Log format: text or json")
}

func addWeekStartFlag(fs *pflag.FlagSet, defaults *config.Config) {
	fs.String("week-start", defaults.WeekStart, "First day of the week for date ranges: sunday or monday")
}

// applyFlagOverrides copies explicitly set flags into cfg. Flags that are
// not registered on fs are ignored.
func applyFlagOverrides(fs *pflag.FlagSet, cfg *config.Config) error {
	strs := map[string]*string{
		"interpreter":  &cfg.Interpreter,
		"temp-dir":     &cfg.TempDir,
		"transport":    &cfg.Transport,
		"http-addr":    &cfg.HTTPAddr,
		"week-start":   &cfg.WeekStart,
		"log-level":    &cfg.Log.Level,
		"log-format":   &cfg.Log.Format,
		"metrics-addr": &cfg.Metrics.Addr,
	}
	for name, dst := range strs {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}

	bools := map[string]*bool{
		"read-only":       &cfg.ReadOnly,
		"metrics-enabled": &cfg.Metrics.Enabled,
	}
	for name, dst := range bools {
		if f := fs.Lookup(name); f != nil && f.Changed {
			v, err := fs.GetBool(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}

	if f := fs.Lookup("debug"); f != nil && f.Changed {
		debug, err := fs.GetBool("debug")
		if err != nil {
			return err
		}
		if debug {
			cfg.Log.Level = "debug"
		}
	}
	return nil
}

// loadConfig reads the config file and environment, then applies the
// command's explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlagOverrides(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
