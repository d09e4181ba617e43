// Package things_tools provides MCP tools for Things 3.
//
// Task tools: add_task, get_tasks, update_task, complete_task, delete_task
// and move_task. Date tools: parse_date and get_date_range. Status tool:
// things_status.
//
// Tasks are identified by title. The first open task with a matching title
// is used, so duplicate titles act on whichever Things returns first.
//
// In read-only mode only get_tasks, parse_date, get_date_range and
// things_status are registered.
package things_tools
