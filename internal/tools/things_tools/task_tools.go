package things_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/things3-mcp/internal/applescript"
	"github.com/teemow/things3-mcp/internal/server"
	"github.com/teemow/things3-mcp/internal/things"
	"github.com/teemow/things3-mcp/internal/tools/batch"
	"github.com/teemow/things3-mcp/internal/tools/common"
)

const dateHelp = "Accepts YYYY-MM-DD or natural language such as 'tomorrow', 'next friday', 'in 2 weeks', 'end of month'. Use 'none' to leave unset."

func listNames() string {
	names := make([]string, 0, len(applescript.ListTypes()))
	for _, l := range applescript.ListTypes() {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}

func addTaskTool() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription("Add a new task to Things 3 with natural language date parsing"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("notes",
			mcp.Description("Task notes"),
		),
		mcp.WithString("project",
			mcp.Description("Project to file the task under. Takes precedence over area."),
		),
		mcp.WithString("area",
			mcp.Description("Area to file the task under"),
		),
		mcp.WithArray("tags",
			mcp.Description("Tag names"),
			mcp.WithStringItems(),
		),
		mcp.WithString("start_date",
			mcp.Description("When the task shows up in Today. "+dateHelp),
		),
		mcp.WithString("due_date",
			mcp.Description("Deadline. "+dateHelp),
		),
		mcp.WithString("deadline",
			mcp.Description("Alias for due_date, used when due_date is not given"),
		),
	)
}

func handleAddTask(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		title := common.StringArg(args, "title")
		if strings.TrimSpace(title) == "" {
			return mcp.NewToolResultError("title is required"), nil
		}
		tags, _ := common.StringSliceArg(args, "tags")

		out, err := sc.Client().AddTask(ctx, things.AddTaskInput{
			Title:     title,
			Notes:     common.StringArg(args, "notes"),
			Project:   common.StringArg(args, "project"),
			Area:      common.StringArg(args, "area"),
			Tags:      tags,
			StartDate: common.StringArg(args, "start_date"),
			DueDate:   common.StringArg(args, "due_date"),
			Deadline:  common.StringArg(args, "deadline"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error adding task: %v", err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func getTasksTool() mcp.Tool {
	return mcp.NewTool("get_tasks",
		mcp.WithDescription("Retrieve tasks from a Things 3 list with optional project, area and tag filters"),
		mcp.WithString("list",
			mcp.Description("Which list to read ("+listNames()+"). Default: "+string(applescript.DefaultList)),
		),
		mcp.WithString("project",
			mcp.Description("Only tasks in this project"),
		),
		mcp.WithString("area",
			mcp.Description("Only tasks in this area. Ignored when project is given."),
		),
		mcp.WithString("tag",
			mcp.Description("Only tasks carrying this tag"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return. 0 or absent means no limit."),
		),
	)
}

func handleGetTasks(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		out, err := sc.Client().GetTasks(ctx, things.GetTasksInput{
			List:    common.StringArg(args, "list"),
			Project: common.StringArg(args, "project"),
			Area:    common.StringArg(args, "area"),
			Tag:     common.StringArg(args, "tag"),
			Limit:   common.IntArg(args, "limit"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error getting tasks: %v", err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func updateTaskTool() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription("Update an open task in Things 3. Only the given fields change."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Title of the task to update"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("notes",
			mcp.Description("New notes. An empty string clears them."),
		),
		mcp.WithString("project",
			mcp.Description("Move into this project. 'none' moves the task back to the Inbox."),
		),
		mcp.WithString("area",
			mcp.Description("Move into this area. 'none' moves the task back to the Inbox."),
		),
		mcp.WithArray("tags",
			mcp.Description("Replace all tags. An empty list removes every tag."),
			mcp.WithStringItems(),
		),
		mcp.WithString("start_date",
			mcp.Description("New start date. "+dateHelp),
		),
		mcp.WithString("due_date",
			mcp.Description("New deadline. "+dateHelp),
		),
		mcp.WithString("deadline",
			mcp.Description("Alias for due_date, used when due_date is not given"),
		),
	)
}

func handleUpdateTask(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		name := common.StringArg(args, "task_id")
		if strings.TrimSpace(name) == "" {
			return mcp.NewToolResultError("task_id is required"), nil
		}
		tags, present := common.StringSliceArg(args, "tags")
		if present && tags == nil {
			tags = []string{}
		}

		out, err := sc.Client().UpdateTask(ctx, things.UpdateTaskInput{
			Name:      name,
			Title:     common.OptionalStringArg(args, "title"),
			Notes:     common.OptionalStringArg(args, "notes"),
			Project:   common.OptionalStringArg(args, "project"),
			Area:      common.OptionalStringArg(args, "area"),
			Tags:      tags,
			StartDate: common.OptionalStringArg(args, "start_date"),
			DueDate:   common.OptionalStringArg(args, "due_date"),
			Deadline:  common.OptionalStringArg(args, "deadline"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error updating task: %v", err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func completeTaskTool() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription("Mark an open task in Things 3 as completed"),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Title of the task to complete (string) or array of titles"),
		),
	)
}

func handleCompleteTask(sc *server.ServerContext) common.ToolHandler {
	return handleTaskAction("completing", sc.Client().CompleteTask)
}

func deleteTaskTool() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Move a task in Things 3 to the Trash"),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Title of the task to delete (string) or array of titles"),
		),
	)
}

func handleDeleteTask(sc *server.ServerContext) common.ToolHandler {
	return handleTaskAction("deleting", sc.Client().DeleteTask)
}

// handleTaskAction runs action for one title, or for each title of an
// array with a per-title summary.
func handleTaskAction(verb string, action func(ctx context.Context, name string) (string, error)) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		titles, many, err := batch.Titles(request.GetArguments()["task_id"], "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if !many {
			out, err := action(ctx, titles[0])
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Error %s task: %v", verb, err)), nil
			}
			return mcp.NewToolResultText(out), nil
		}

		results := batch.Process(ctx, titles, action)
		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	}
}

func moveTaskTool() mcp.Tool {
	return mcp.NewTool("move_task",
		mcp.WithDescription("Move an open task in Things 3 to a project or area"),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Title of the task to move"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Name of the destination project or area"),
		),
		mcp.WithString("destination_type",
			mcp.Description("Whether destination is a project or an area. Default: project"),
			mcp.Enum(string(applescript.DestinationProject), string(applescript.DestinationArea)),
		),
	)
}

func handleMoveTask(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		out, err := sc.Client().MoveTask(ctx, things.MoveTaskInput{
			Name:            common.StringArg(args, "task_id"),
			Destination:     common.StringArg(args, "destination"),
			DestinationType: common.StringArg(args, "destination_type"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error moving task: %v", err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
