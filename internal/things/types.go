package things

import (
	"errors"
	"fmt"
)

// ErrMissingTitle is returned when a new task has no title.
var ErrMissingTitle = errors.New("task title is required")

// ErrMissingName is returned when an operation on an existing task has no
// task name.
var ErrMissingName = errors.New("task name is required")

// ErrMissingDestination is returned by MoveTask without a destination.
var ErrMissingDestination = errors.New("destination is required")

// InvalidDateError reports date input the parser could not understand.
type InvalidDateError struct {
	Field string
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s %q: expected YYYY-MM-DD or an expression like \"tomorrow\" or \"next friday\"", e.Field, e.Input)
}

// AddTaskInput describes a new task as received from a caller. Dates are
// free-form and normalized by the client.
type AddTaskInput struct {
	Title     string
	Notes     string
	Project   string
	Area      string
	Tags      []string
	StartDate string
	DueDate   string
	// Deadline is used as the due date when DueDate is empty.
	Deadline string
}

// UpdateTaskInput describes changes to the open task called Name. Nil
// fields are left untouched; a non-nil empty Tags clears all tags.
type UpdateTaskInput struct {
	Name      string
	Title     *string
	Notes     *string
	Project   *string
	Area      *string
	Tags      []string
	StartDate *string
	DueDate   *string
	Deadline  *string
}

// GetTasksInput selects tasks from one list. An empty List means inbox.
type GetTasksInput struct {
	List    string
	Project string
	Area    string
	Tag     string
	Limit   int
}

// MoveTaskInput moves the open task called Name into a project or area.
type MoveTaskInput struct {
	Name            string
	Destination     string
	DestinationType string
}

// Status reports whether Things can be scripted.
type Status struct {
	Installed bool `json:"installed"`
	Running   bool `json:"running"`
}

// String describes the status in one line.
func (s Status) String() string {
	switch {
	case !s.Installed:
		return "Things 3 is not installed or cannot be scripted"
	case !s.Running:
		return "Things 3 is installed but not running"
	default:
		return "Things 3 is installed and running"
	}
}
