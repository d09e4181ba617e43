package things_tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/things3-mcp/internal/server"
	"github.com/teemow/things3-mcp/internal/tools/common"
	"github.com/teemow/things3-mcp/internal/things"
)

type statusResult struct {
	things.Status
	Message  string `json:"message"`
	ReadOnly bool   `json:"read_only"`
}

func statusTool() mcp.Tool {
	return mcp.NewTool("things_status",
		mcp.WithDescription("Check whether Things 3 is installed and running and whether write tools are enabled"),
	)
}

func handleStatus(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status := sc.Client().Status(ctx)

		result, _ := json.MarshalIndent(statusResult{
			Status:   status,
			Message:  status.String(),
			ReadOnly: sc.ReadOnly(),
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}
