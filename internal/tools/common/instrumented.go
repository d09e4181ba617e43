package common

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/things3-mcp/internal/instrumentation"
	"github.com/teemow/things3-mcp/internal/logging"
	"github.com/teemow/things3-mcp/internal/server"
)

// ToolHandler is the signature mcp-go expects for tool handlers.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps handler in a tool span and records the call
// in the tool metrics and the audit log. operation is the script operation
// the tool performs, or "" for tools that run no script.
//
//	s.AddTool(tool, common.InstrumentedToolHandler("add_task", instrumentation.OperationAdd, sc, handler))
func InstrumentedToolHandler(toolName, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics, audit := sc.Metrics(), sc.AuditLogger()
		if metrics == nil && audit == nil {
			return handler(ctx, request)
		}

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().WithReadOnly(sc.ReadOnly()).Build()...)
		defer span.End()

		args := request.GetArguments()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithOperation(operation).
			WithList(StringArg(args, "list")).
			WithTask(TaskNameFromArgs(args))

		start := time.Now()
		result, err := handler(ctx, request)
		elapsed := time.Since(start)

		failure := callFailure(result, err)
		invocation.Finish(failure)
		if failure != nil {
			instrumentation.SetSpanError(span, failure)
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		status := invocation.Status()
		metrics.RecordToolInvocation(ctx, toolName, status, elapsed)
		audit.LogToolInvocation(invocation)
		sc.Logger().Debug("tool call finished",
			slog.String("tool", toolName),
			logging.Status(status),
			logging.Duration(elapsed))

		return result, err
	}
}

// callFailure returns the handler error, or the text of an error result,
// or nil when the call succeeded.
func callFailure(result *mcp.CallToolResult, err error) error {
	if err != nil {
		return err
	}
	if result == nil || !result.IsError {
		return nil
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok && text.Text != "" {
			return errors.New(text.Text)
		}
	}
	return errors.New("tool returned an error result")
}
