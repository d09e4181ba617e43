// Package cmd implements the command-line interface for things3-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server (default when no subcommand is given)
//   - check: Probe whether Things 3 is installed and running
//   - date: Preview natural language date normalization
//   - config: Print the effective configuration
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// Settings come from defaults, then the YAML config file, then
// THINGS3_MCP_* environment variables, then explicitly set flags.
package cmd
