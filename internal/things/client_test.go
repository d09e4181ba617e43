package things

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/things3-mcp/internal/applescript"
	"github.com/teemow/things3-mcp/internal/dates"
	"github.com/teemow/things3-mcp/internal/instrumentation"
	"github.com/teemow/things3-mcp/internal/logging"
)

// Tuesday 15 July 2025.
var testNow = time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC)

// fakeRunner records scripts and answers with respond, or output when
// respond is nil.
type fakeRunner struct {
	scripts []string
	output  string
	err     error
	respond func(script string) (string, error)
}

func (f *fakeRunner) Execute(_ context.Context, script string) (string, error) {
	f.scripts = append(f.scripts, script)
	if f.respond != nil {
		return f.respond(script)
	}
	return f.output, f.err
}

func (f *fakeRunner) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.scripts, "no script was executed")
	return f.scripts[len(f.scripts)-1]
}

func newTestClient(runner ScriptRunner, opts ...Option) *Client {
	parser := dates.NewParser(dates.WithClock(dates.FixedClock(testNow)))
	return NewClient(runner, parser, logging.Nop(), opts...)
}

func strPtr(s string) *string { return &s }

func TestAddTask(t *testing.T) {
	runner := &fakeRunner{output: "  ✅ Task created: Buy milk, Start: 16 July 2025\n"}
	c := newTestClient(runner)

	out, err := c.AddTask(context.Background(), AddTaskInput{
		Title:     "Buy milk",
		Notes:     "2%",
		Project:   "Errands",
		Tags:      []string{" home ", "", "shopping"},
		StartDate: "tomorrow",
		DueDate:   "2025-07-20",
	})
	require.NoError(t, err)
	assert.Equal(t, "✅ Task created: Buy milk, Start: 16 July 2025", out)

	script := runner.last(t)
	assert.Contains(t, script, `schedule theToDo for date "16 July 2025"`)
	assert.Contains(t, script, `set due date of theToDo to date "2025-07-20"`)
	assert.Contains(t, script, `set tag names of theToDo to "home, shopping"`)
	assert.Contains(t, script, `first project whose name is "Errands"`)
}

func TestAddTask_DeadlineAlias(t *testing.T) {
	runner := &fakeRunner{output: "✅"}
	c := newTestClient(runner)

	_, err := c.AddTask(context.Background(), AddTaskInput{Title: "Report", Deadline: "end of month"})
	require.NoError(t, err)
	assert.Contains(t, runner.last(t), `set due date of theToDo to date "31 July 2025"`)

	_, err = c.AddTask(context.Background(), AddTaskInput{Title: "Report", DueDate: "2025-08-01", Deadline: "end of month"})
	require.NoError(t, err)
	assert.Contains(t, runner.last(t), `date "2025-08-01"`, "due date wins over deadline")
	assert.NotContains(t, runner.last(t), "31 July 2025")
}

func TestAddTask_NoneDates(t *testing.T) {
	runner := &fakeRunner{output: "✅"}
	c := newTestClient(runner)

	_, err := c.AddTask(context.Background(), AddTaskInput{Title: "Call mum", StartDate: "none", DueDate: " "})
	require.NoError(t, err)
	assert.NotContains(t, runner.last(t), "schedule theToDo")
	assert.NotContains(t, runner.last(t), "due date")
}

func TestAddTask_Validation(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestClient(runner)

	_, err := c.AddTask(context.Background(), AddTaskInput{Title: "  "})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = c.AddTask(context.Background(), AddTaskInput{Title: "Buy milk", DueDate: "banana smoothie"})
	var dateErr *InvalidDateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "due date", dateErr.Field)
	assert.Equal(t, "banana smoothie", dateErr.Input)
	assert.Contains(t, err.Error(), `invalid due date "banana smoothie"`)

	assert.Empty(t, runner.scripts, "nothing runs when validation fails")
}

func TestGetTasks(t *testing.T) {
	tests := []struct {
		name       string
		input      GetTasksInput
		wantSource string
	}{
		{name: "default today", input: GetTasksInput{}, wantSource: `to dos of list "Today"`},
		{name: "inbox", input: GetTasksInput{List: "Inbox"}, wantSource: `to dos of list "Inbox"`},
		{name: "completed", input: GetTasksInput{List: "completed", Limit: 5}, wantSource: "completed to dos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{output: "• Buy milk\n"}
			c := newTestClient(runner)

			out, err := c.GetTasks(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, "• Buy milk", out)
			assert.Contains(t, runner.last(t), tt.wantSource)
		})
	}
}

func TestGetTasks_UnknownList(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestClient(runner)

	_, err := c.GetTasks(context.Background(), GetTasksInput{List: "tomorrow"})
	assert.Error(t, err)
	assert.Empty(t, runner.scripts)
}

func TestUpdateTask(t *testing.T) {
	runner := &fakeRunner{output: "✏️ Updated 'Buy milk': Updated notes"}
	c := newTestClient(runner)

	out, err := c.UpdateTask(context.Background(), UpdateTaskInput{
		Name:      "Buy milk",
		Notes:     strPtr("oat"),
		StartDate: strPtr("none"),
		Deadline:  strPtr("christmas"),
		Tags:      []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, "✏️ Updated 'Buy milk': Updated notes", out)

	script := runner.last(t)
	assert.Contains(t, script, `whose name is "Buy milk" and status is open`)
	assert.Contains(t, script, `set notes of theToDo to "oat"`)
	assert.NotContains(t, script, "schedule theToDo")
	assert.Contains(t, script, `set due date of theToDo to date "25 December 2025"`)
	assert.Contains(t, script, `set tag names of theToDo to ""`, "empty tag list clears tags")
}

func TestUpdateTask_TagsUntouched(t *testing.T) {
	runner := &fakeRunner{output: "❓"}
	c := newTestClient(runner)

	_, err := c.UpdateTask(context.Background(), UpdateTaskInput{Name: "Buy milk"})
	require.NoError(t, err)
	assert.NotContains(t, runner.last(t), "tag names")
}

func TestUpdateTask_Validation(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestClient(runner)

	_, err := c.UpdateTask(context.Background(), UpdateTaskInput{})
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = c.UpdateTask(context.Background(), UpdateTaskInput{Name: "x", StartDate: strPtr("someday maybe")})
	var dateErr *InvalidDateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "start date", dateErr.Field)
	assert.Empty(t, runner.scripts)
}

func TestCompleteDeleteMove(t *testing.T) {
	runner := &fakeRunner{output: "done\n"}
	c := newTestClient(runner)
	ctx := context.Background()

	out, err := c.CompleteTask(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Contains(t, runner.last(t), `set status of theToDo to completed`)

	_, err = c.DeleteTask(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Contains(t, runner.last(t), "delete theToDo")

	_, err = c.MoveTask(ctx, MoveTaskInput{Name: "Buy milk", Destination: "Home", DestinationType: "area"})
	require.NoError(t, err)
	assert.Contains(t, runner.last(t), `first area whose name is "Home"`)

	_, err = c.MoveTask(ctx, MoveTaskInput{Name: "Buy milk", Destination: "Errands"})
	require.NoError(t, err)
	assert.Contains(t, runner.last(t), `first project whose name is "Errands"`)
}

func TestCompleteDeleteMove_Validation(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestClient(runner)
	ctx := context.Background()

	_, err := c.CompleteTask(ctx, "")
	assert.ErrorIs(t, err, ErrMissingName)
	_, err = c.DeleteTask(ctx, " ")
	assert.ErrorIs(t, err, ErrMissingName)
	_, err = c.MoveTask(ctx, MoveTaskInput{Name: "x"})
	assert.ErrorIs(t, err, ErrMissingDestination)
	_, err = c.MoveTask(ctx, MoveTaskInput{Name: "x", Destination: "y", DestinationType: "tag"})
	assert.Error(t, err)
	assert.Empty(t, runner.scripts)
}

func TestExecutionErrorPassesThrough(t *testing.T) {
	execErr := &applescript.ExecutionError{Output: "syntax error", ExitCode: 1, Err: errors.New("exit status 1")}
	c := newTestClient(&fakeRunner{err: execErr})

	_, err := c.CompleteTask(context.Background(), "Buy milk")
	var got *applescript.ExecutionError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 1, got.ExitCode)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		respond func(string) (string, error)
		want    Status
		text    string
	}{
		{
			name: "running",
			respond: func(s string) (string, error) {
				if strings.Contains(s, "System Events") {
					return "true\n", nil
				}
				return "installed\n", nil
			},
			want: Status{Installed: true, Running: true},
			text: "Things 3 is installed and running",
		},
		{
			name: "not running",
			respond: func(s string) (string, error) {
				if strings.Contains(s, "System Events") {
					return "false", nil
				}
				return "installed", nil
			},
			want: Status{Installed: true},
			text: "Things 3 is installed but not running",
		},
		{
			name: "status output must match exactly",
			respond: func(s string) (string, error) {
				if strings.Contains(s, "System Events") {
					return "true story", nil
				}
				return "installed but not scriptable", nil
			},
			want: Status{},
			text: "Things 3 is not installed or cannot be scripted",
		},
		{
			name:    "interpreter missing",
			respond: func(string) (string, error) { return "", errors.New("exec: not found") },
			want:    Status{},
			text:    "Things 3 is not installed or cannot be scripted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{respond: tt.respond}
			c := newTestClient(runner)

			got := c.Status(context.Background())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
			assert.Len(t, runner.scripts, 2)
		})
	}
}

func TestClient_RecordsScriptMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := instrumentation.NewMetrics(mp.Meter("test"), true)
	require.NoError(t, err)

	runner := &fakeRunner{output: "• a"}
	c := newTestClient(runner, WithMetrics(metrics))

	_, err = c.GetTasks(context.Background(), GetTasksInput{List: "today"})
	require.NoError(t, err)
	runner.err = errors.New("boom")
	_, _ = c.CompleteTask(context.Background(), "a")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "applescript_executions_total" {
				continue
			}
			for _, p := range m.Data.(metricdata.Sum[int64]).DataPoints {
				total += p.Value
			}
		}
	}
	assert.Equal(t, int64(2), total)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(&fakeRunner{}, nil, nil)
	assert.NotNil(t, c.Parser())
	assert.NotNil(t, c.logger)
}
