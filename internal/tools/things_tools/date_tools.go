package things_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/things3-mcp/internal/dates"
	"github.com/teemow/things3-mcp/internal/server"
	"github.com/teemow/things3-mcp/internal/tools/common"
)

// parsedDate is the parse_date result.
type parsedDate struct {
	dates.Token
	Relative string `json:"relative"`
	Overdue  bool   `json:"overdue"`
}

// dateRange is the get_date_range result.
type dateRange struct {
	Period string `json:"period"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Days   int    `json:"days"`
}

func parseDateTool() mcp.Tool {
	return mcp.NewTool("parse_date",
		mcp.WithDescription("Preview how a date expression is interpreted before using it in add_task or update_task"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date expression, e.g. 'next friday', 'end of month', '2025-07-18'"),
		),
	)
}

func handleParseDate(sc *server.ServerContext) common.ToolHandler {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := common.StringArg(request.GetArguments(), "date")
		if dates.IsNone(input) {
			return mcp.NewToolResultText("No date: the field will be left unset"), nil
		}

		parser := sc.Parser()
		tok := parser.Parse(input)
		if tok == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Could not understand date %q", input)), nil
		}

		relative, _ := parser.RelativeDescription(input)
		result, _ := json.MarshalIndent(parsedDate{
			Token:    *tok,
			Relative: relative,
			Overdue:  parser.IsOverdue(input),
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func periodNames() string {
	names := make([]string, 0, len(dates.Periods()))
	for _, p := range dates.Periods() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func getDateRangeTool() mcp.Tool {
	return mcp.NewTool("get_date_range",
		mcp.WithDescription("Get the first and last day of a named period"),
		mcp.WithString("period",
			mcp.Required(),
			mcp.Description("One of: "+periodNames()),
		),
	)
}

func handleGetDateRange(sc *server.ServerContext) common.ToolHandler {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		period := strings.ToLower(strings.TrimSpace(common.StringArg(request.GetArguments(), "period")))

		r, ok := sc.Parser().DateRange(dates.Period(period))
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown period %q, expected one of: %s", period, periodNames())), nil
		}

		result, _ := json.MarshalIndent(dateRange{
			Period: period,
			Start:  r.Start.Format(dates.ISOLayout),
			End:    r.End.Format(dates.ISOLayout),
			Days:   r.Days(),
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}
