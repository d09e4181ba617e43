package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/things3-mcp/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration serve would use after merging defaults, the config
file and THINGS3_MCP_* environment variables, as YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}

			source := configPath
			if source == "" {
				source = config.DefaultPath()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n%s", source, out)
			return nil
		},
	}
}
