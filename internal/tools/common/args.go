package common

import (
	"strings"
)

// StringArg returns the string argument key, or "" when it is absent or
// not a string.
func StringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// OptionalStringArg returns a pointer to the string argument key, or nil
// when it is absent. It distinguishes "not given" from "given empty".
func OptionalStringArg(args map[string]interface{}, key string) *string {
	v, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// IntArg returns the numeric argument key as an int. JSON numbers arrive as
// float64.
func IntArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

// StringSliceArg returns the list argument key and whether it was given.
// Clients may send a JSON array or a comma separated string. Blank entries
// are dropped.
func StringSliceArg(args map[string]interface{}, key string) ([]string, bool) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, false
	}

	var items []string
	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	case []string:
		items = v
	case string:
		items = strings.Split(v, ",")
	default:
		return nil, false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, true
}

// TaskNameFromArgs returns the task a tool call refers to: task_id for
// tools acting on an existing task, title for add_task.
func TaskNameFromArgs(args map[string]interface{}) string {
	if name := StringArg(args, "task_id"); name != "" {
		return name
	}
	return StringArg(args, "title")
}
