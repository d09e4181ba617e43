package things_tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/things3-mcp/internal/instrumentation"
	"github.com/teemow/things3-mcp/internal/server"
	"github.com/teemow/things3-mcp/internal/tools/common"
)

// toolDef pairs a tool definition with its handler and the script
// operation it performs.
type toolDef struct {
	tool      mcp.Tool
	operation string
	write     bool
	handler   func(sc *server.ServerContext) common.ToolHandler
}

func toolDefs() []toolDef {
	return []toolDef{
		{tool: addTaskTool(), operation: instrumentation.OperationAdd, write: true, handler: handleAddTask},
		{tool: getTasksTool(), operation: instrumentation.OperationList, handler: handleGetTasks},
		{tool: updateTaskTool(), operation: instrumentation.OperationUpdate, write: true, handler: handleUpdateTask},
		{tool: completeTaskTool(), operation: instrumentation.OperationComplete, write: true, handler: handleCompleteTask},
		{tool: deleteTaskTool(), operation: instrumentation.OperationDelete, write: true, handler: handleDeleteTask},
		{tool: moveTaskTool(), operation: instrumentation.OperationMove, write: true, handler: handleMoveTask},
		{tool: parseDateTool(), handler: handleParseDate},
		{tool: getDateRangeTool(), handler: handleGetDateRange},
		{tool: statusTool(), operation: instrumentation.OperationProbe, handler: handleStatus},
	}
}

// RegisterThingsTools registers all Things tools with the MCP server. Tools
// that change Things are skipped when sc is read-only.
func RegisterThingsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	for _, def := range toolDefs() {
		if def.write && sc.ReadOnly() {
			continue
		}
		s.AddTool(def.tool, common.InstrumentedToolHandler(def.tool.Name, def.operation, sc, def.handler(sc)))
	}
	return nil
}

// ToolNames lists every tool name, optionally without write tools.
func ToolNames(readOnly bool) []string {
	var names []string
	for _, def := range toolDefs() {
		if def.write && readOnly {
			continue
		}
		names = append(names, def.tool.Name)
	}
	return names
}
