package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/things3-mcp/internal/config"
	"github.com/teemow/things3-mcp/internal/logging"
	"github.com/teemow/things3-mcp/internal/things"
)

var errThingsUnavailable = errors.New("things 3 is not available")

func newCheckCmd() *cobra.Command {
	defaults := config.DefaultConfig()
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that Things 3 can be scripted",
		Long: `Run the installed and running probes through the configured interpreter.
Exits non-zero when Things 3 cannot be addressed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			client, err := newThingsClient(cfg, logger, nil)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runCheck(ctx, cmd.OutOrStdout(), client, cfg)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "Time allowed for both probes")
	addScriptFlags(cmd.Flags(), defaults)
	addLogFlags(cmd.Flags(), defaults)

	return cmd
}

func runCheck(ctx context.Context, w io.Writer, client *things.Client, cfg *config.Config) error {
	status := client.Status(ctx)

	fmt.Fprintf(w, "Interpreter: %s\n", cfg.Interpreter)
	fmt.Fprintf(w, "Installed:   %t\n", status.Installed)
	fmt.Fprintf(w, "Running:     %t\n", status.Running)
	fmt.Fprintln(w, status.String())

	if !status.Installed {
		return errThingsUnavailable
	}
	return nil
}
