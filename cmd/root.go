package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the things3-mcp application
var rootCmd = &cobra.Command{
	Use:   "things3-mcp",
	Short: "MCP server for the Things 3 task manager",
	Long: `things3-mcp exposes Things 3 to AI assistants over the Model Context
Protocol. Tasks are created, listed, updated, completed, deleted and moved
by running generated AppleScript through osascript.

Dates accept YYYY-MM-DD or natural language such as "tomorrow",
"next friday" or "end of month".

It can run as:
  - An MCP server over stdio (default)
  - An MCP server over streamable HTTP`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// configPath is the --config flag shared by every subcommand.
var configPath string

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "things3-mcp version %s\n" .Version}}`)

	// MCP clients launch the binary without arguments
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/things3-mcp/config.yaml)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newDateCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
