package applescript

import (
	"fmt"
	"strings"
)

// AppName is the application every generated script targets.
const AppName = "Things3"

// ListType names one of the built-in Things lists.
type ListType string

const (
	ListInbox     ListType = "inbox"
	ListToday     ListType = "today"
	ListUpcoming  ListType = "upcoming"
	ListAnytime   ListType = "anytime"
	ListSomeday   ListType = "someday"
	ListCompleted ListType = "completed"
	ListCanceled  ListType = "canceled"
	ListAll       ListType = "all"
)

// DefaultList is read when no list is named.
const DefaultList = ListToday

// ListTypes returns every supported list type in display order.
func ListTypes() []ListType {
	return []ListType{
		ListInbox, ListToday, ListUpcoming, ListAnytime,
		ListSomeday, ListCompleted, ListCanceled, ListAll,
	}
}

// ParseListType validates a list name. Matching is case-insensitive.
func ParseListType(s string) (ListType, error) {
	lt := ListType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ListTypes() {
		if lt == known {
			return lt, nil
		}
	}
	return "", fmt.Errorf("unknown list type %q", s)
}

// source returns the script expression that yields the list's to dos.
func (l ListType) source() (string, error) {
	switch l {
	case ListInbox:
		return `to dos of list "Inbox"`, nil
	case ListToday:
		return `to dos of list "Today"`, nil
	case ListUpcoming:
		return `to dos of list "Upcoming"`, nil
	case ListAnytime:
		return `to dos of list "Anytime"`, nil
	case ListSomeday:
		return `to dos of list "Someday"`, nil
	case ListCompleted:
		return "completed to dos", nil
	case ListCanceled:
		return "canceled to dos", nil
	case ListAll:
		return "to dos", nil
	default:
		return "", fmt.Errorf("unknown list type %q", string(l))
	}
}

// DestinationType is the kind of container a to do can be moved into.
type DestinationType string

const (
	DestinationProject DestinationType = "project"
	DestinationArea    DestinationType = "area"
)

// ParseDestinationType validates a destination kind. Empty means project.
func ParseDestinationType(s string) (DestinationType, error) {
	switch DestinationType(strings.ToLower(strings.TrimSpace(s))) {
	case "", DestinationProject:
		return DestinationProject, nil
	case DestinationArea:
		return DestinationArea, nil
	default:
		return "", fmt.Errorf("destination type must be 'project' or 'area', got %q", s)
	}
}

// title returns the capitalized kind for use in messages.
func (d DestinationType) title() string {
	if d == DestinationArea {
		return "Area"
	}
	return "Project"
}

// AddTaskParams describes a new to do. Empty fields are omitted. StartDate
// and DueDate are literal dates as produced by the dates package.
type AddTaskParams struct {
	Title     string
	Notes     string
	Project   string
	Area      string
	Tags      []string
	StartDate string
	DueDate   string
}

// UpdateTaskParams describes changes to an open to do identified by name.
// Nil fields are left untouched. A non-nil empty Tags slice clears all
// tags. Project or Area set to "none" moves the to do back to the Inbox.
type UpdateTaskParams struct {
	Name      string
	Title     *string
	Notes     *string
	Project   *string
	Area      *string
	Tags      []string
	StartDate *string
	DueDate   *string
}

// MoveTaskParams describes moving an open to do into a project or area.
type MoveTaskParams struct {
	Name            string
	Destination     string
	DestinationType DestinationType
}

// ListTasksParams describes a listing. Project takes precedence over Area.
// Limit <= 0 means unlimited.
type ListTasksParams struct {
	List    ListType
	Project string
	Area    string
	Tag     string
	Limit   int
}

// ExecutionError is returned when the script interpreter exits unsuccessfully.
type ExecutionError struct {
	// Output is the combined stdout and stderr of the interpreter
	Output string

	// ExitCode is the interpreter's exit status, or -1 if it did not run
	ExitCode int

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("AppleScript execution failed: %v", e.Err)
	}
	return "AppleScript execution failed: " + out
}

// Unwrap implements the errors.Unwrap interface
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Response is the envelope returned by RunWithResponse. Exactly one of
// Result and Error is set. Result holds the trimmed output and may be
// empty.
type Response struct {
	Success bool    `json:"success"`
	Result  *string `json:"result"`
	Error   *string `json:"error"`
}

// returned reports whether the script succeeded with exactly want.
func (r Response) returned(want string) bool {
	return r.Success && r.Result != nil && *r.Result == want
}
