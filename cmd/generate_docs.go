package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/things3-mcp/internal/logging"
	"github.com/teemow/things3-mcp/internal/resources"
	"github.com/teemow/things3-mcp/internal/server"
	"github.com/teemow/things3-mcp/internal/things"
	"github.com/teemow/things3-mcp/internal/tools/things_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate a markdown reference of every MCP tool and resource.
The reference is built from the registered tool definitions, so it never
drifts from what clients see.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := registeredTools()
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			writeToolsMarkdown(&buf, tools)

			if outputFile == "" {
				_, err = buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(outputFile, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// registeredTools builds the full server, write tools included, and returns
// its tool definitions. The client is never asked to run a script.
func registeredTools() ([]mcp.Tool, error) {
	sc := server.NewServerContext(context.Background(), things.NewClient(nil, nil, logging.Nop()))
	defer func() { _ = sc.Shutdown() }()

	mcpSrv, err := newMCPServer(sc)
	if err != nil {
		return nil, err
	}

	registered := mcpSrv.ListTools()
	tools := make([]mcp.Tool, 0, len(registered))
	for _, name := range slices.Sorted(maps.Keys(registered)) {
		tools = append(tools, registered[name].Tool)
	}
	return tools, nil
}

func writeToolsMarkdown(w io.Writer, tools []mcp.Tool) {
	byCategory := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		c := toolCategory(tool.Name)
		byCategory[c] = append(byCategory[c], tool)
	}
	categories := slices.Sorted(maps.Keys(byCategory))

	fmt.Fprint(w, "# MCP Tools Reference\n\n")
	fmt.Fprint(w, "Every tool and resource available when running things3-mcp as an MCP server.\n\n")
	fmt.Fprint(w, "**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	fmt.Fprint(w, "## Table of Contents\n\n")
	for _, c := range categories {
		fmt.Fprintf(w, "- [%s](#%s)\n", c, strings.ToLower(strings.ReplaceAll(c, " ", "-")))
	}
	fmt.Fprint(w, "- [Resources](#resources)\n\n")

	fmt.Fprint(w, "## Read-Only Mode\n\n")
	fmt.Fprint(w, "With `--read-only` (or `read_only: true` in the config file) only these tools are registered:\n\n")
	for _, name := range things_tools.ToolNames(true) {
		fmt.Fprintf(w, "- `%s`\n", name)
	}

	fmt.Fprint(w, "\n## Date Arguments\n\n")
	fmt.Fprint(w, "Date arguments accept `YYYY-MM-DD` or natural language such as `tomorrow`, `next friday`, ")
	fmt.Fprint(w, "`in 2 weeks` or `end of month`. The value `none` leaves the date unset.\n\n")

	for _, c := range categories {
		fmt.Fprintf(w, "## %s\n\n", c)
		group := byCategory[c]
		slices.SortFunc(group, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })
		for _, tool := range group {
			writeToolMarkdown(w, tool)
		}
	}

	fmt.Fprint(w, "## Resources\n\n")
	fmt.Fprintf(w, "- `%s`: whether Things is installed and running, and whether the server is read-only\n", resources.StatusURI)
	fmt.Fprintf(w, "- `%s`: the list names `get_tasks` accepts, date range periods and the week start\n", resources.ListsURI)
}

func toolCategory(name string) string {
	switch {
	case strings.HasSuffix(name, "_task"), strings.HasSuffix(name, "_tasks"):
		return "Task Tools"
	case strings.Contains(name, "date"):
		return "Date Tools"
	case strings.HasPrefix(name, "things_"):
		return "Status Tools"
	default:
		return "Other"
	}
}

func writeToolMarkdown(w io.Writer, tool mcp.Tool) {
	fmt.Fprintf(w, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(w, "%s\n\n", tool.Description)
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return
	}

	fmt.Fprint(w, "| Argument | Type | Required | Description |\n")
	fmt.Fprint(w, "|---|---|---|---|\n")
	for _, name := range slices.Sorted(maps.Keys(props)) {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		required := "no"
		if slices.Contains(tool.InputSchema.Required, name) {
			required = "yes"
		}
		desc, _ := prop["description"].(string)
		if values := enumValues(prop); len(values) > 0 {
			desc = strings.TrimSpace(desc + " One of: " + strings.Join(values, ", ") + ".")
		}
		fmt.Fprintf(w, "| `%s` | %s | %s | %s |\n", name, propertyType(prop), required, desc)
	}
	fmt.Fprint(w, "\n")
}

// propertyType renders the JSON schema type, with the item type for arrays.
func propertyType(prop map[string]any) string {
	t, ok := prop["type"].(string)
	if !ok {
		return "any"
	}
	if t == "array" {
		if items, ok := prop["items"].(map[string]any); ok {
			if it, ok := items["type"].(string); ok {
				return it + "[]"
			}
		}
	}
	return t
}

func enumValues(prop map[string]any) []string {
	switch v := prop["enum"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}
