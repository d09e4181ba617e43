package things

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/things3-mcp/internal/applescript"
	"github.com/teemow/things3-mcp/internal/dates"
	"github.com/teemow/things3-mcp/internal/instrumentation"
	"github.com/teemow/things3-mcp/internal/logging"
)

// ScriptRunner executes one generated script and returns its raw output.
// *applescript.Executor satisfies it.
type ScriptRunner = applescript.Runner

// Client binds date normalization, script generation and execution into
// task operations. It holds no mutable state and is safe for concurrent use.
type Client struct {
	runner  ScriptRunner
	parser  *dates.Parser
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records script executions on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a Client. A nil parser uses the system clock; a nil
// logger uses slog.Default.
func NewClient(runner ScriptRunner, parser *dates.Parser, logger *slog.Logger, opts ...Option) *Client {
	if parser == nil {
		parser = dates.NewParser()
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		runner: runner,
		parser: parser,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parser returns the date parser used for date fields.
func (c *Client) Parser() *dates.Parser {
	return c.parser
}

// AddTask creates a task and returns the confirmation text.
func (c *Client) AddTask(ctx context.Context, in AddTaskInput) (string, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", ErrMissingTitle
	}

	start, err := c.literalDate("start date", in.StartDate)
	if err != nil {
		return "", err
	}
	dueInput := in.DueDate
	if dueInput == "" {
		dueInput = in.Deadline
	}
	due, err := c.literalDate("due date", dueInput)
	if err != nil {
		return "", err
	}

	script := applescript.AddTaskScript(applescript.AddTaskParams{
		Title:     in.Title,
		Notes:     in.Notes,
		Project:   in.Project,
		Area:      in.Area,
		Tags:      cleanTags(in.Tags),
		StartDate: start,
		DueDate:   due,
	})
	return c.run(ctx, instrumentation.OperationAdd, "", in.Title, script)
}

// GetTasks lists tasks from one of the Things lists.
func (c *Client) GetTasks(ctx context.Context, in GetTasksInput) (string, error) {
	listName := in.List
	if listName == "" {
		listName = string(applescript.DefaultList)
	}
	list, err := applescript.ParseListType(listName)
	if err != nil {
		return "", err
	}

	script, err := applescript.ListTasksScript(applescript.ListTasksParams{
		List:    list,
		Project: in.Project,
		Area:    in.Area,
		Tag:     in.Tag,
		Limit:   in.Limit,
	})
	if err != nil {
		return "", err
	}
	return c.run(ctx, instrumentation.OperationList, string(list), "", script)
}

// UpdateTask changes fields of an open task.
func (c *Client) UpdateTask(ctx context.Context, in UpdateTaskInput) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", ErrMissingName
	}

	start, err := c.optionalDate("start date", in.StartDate)
	if err != nil {
		return "", err
	}
	dueInput := in.DueDate
	if dueInput == nil || *dueInput == "" {
		dueInput = in.Deadline
	}
	due, err := c.optionalDate("due date", dueInput)
	if err != nil {
		return "", err
	}

	var tags []string
	if in.Tags != nil {
		tags = cleanTags(in.Tags)
		if tags == nil {
			tags = []string{}
		}
	}

	script := applescript.UpdateTaskScript(applescript.UpdateTaskParams{
		Name:      in.Name,
		Title:     in.Title,
		Notes:     in.Notes,
		Project:   in.Project,
		Area:      in.Area,
		Tags:      tags,
		StartDate: start,
		DueDate:   due,
	})
	return c.run(ctx, instrumentation.OperationUpdate, "", in.Name, script)
}

// CompleteTask marks an open task as completed.
func (c *Client) CompleteTask(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrMissingName
	}
	return c.run(ctx, instrumentation.OperationComplete, "", name, applescript.CompleteTaskScript(name))
}

// DeleteTask moves a task to the trash.
func (c *Client) DeleteTask(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrMissingName
	}
	return c.run(ctx, instrumentation.OperationDelete, "", name, applescript.DeleteTaskScript(name))
}

// MoveTask moves an open task into a project or area.
func (c *Client) MoveTask(ctx context.Context, in MoveTaskInput) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", ErrMissingName
	}
	if strings.TrimSpace(in.Destination) == "" {
		return "", ErrMissingDestination
	}
	kind, err := applescript.ParseDestinationType(in.DestinationType)
	if err != nil {
		return "", err
	}

	script := applescript.MoveTaskScript(applescript.MoveTaskParams{
		Name:            in.Name,
		Destination:     in.Destination,
		DestinationType: kind,
	})
	return c.run(ctx, instrumentation.OperationMove, "", in.Name, script)
}

// Status probes whether Things is installed and running. Probe failures
// report false rather than an error.
func (c *Client) Status(ctx context.Context) Status {
	r := statusRunner{c}
	return Status{
		Installed: applescript.CheckInstalled(ctx, r),
		Running:   applescript.CheckRunning(ctx, r),
	}
}

// statusRunner sends the status scripts through Client.run so they are traced
// and counted like task operations.
type statusRunner struct{ c *Client }

func (s statusRunner) Execute(ctx context.Context, script string) (string, error) {
	return s.c.run(ctx, instrumentation.OperationProbe, "", "", script)
}

// run executes script once inside a span and returns the trimmed output.
func (c *Client) run(ctx context.Context, operation, list, task, script string) (string, error) {
	attrs := instrumentation.NewSpanAttributeBuilder().
		WithList(list).
		WithTaskHash(logging.AnonymizeText(task)).
		WithScriptBytes(len(script)).
		Build()
	ctx, span := instrumentation.StartScriptSpan(ctx, operation, attrs...)
	defer span.End()

	started := time.Now()
	out, err := c.runner.Execute(ctx, script)
	elapsed := time.Since(started)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordScriptExecution(ctx, operation, list, status, elapsed)

	c.logger.Debug("script finished",
		logging.Operation(operation),
		logging.List(list),
		logging.TaskHash(task),
		logging.Status(status),
		logging.Duration(elapsed),
		logging.Err(err))

	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// literalDate normalizes a date argument. Empty input and "none" yield "".
func (c *Client) literalDate(field, input string) (string, error) {
	if dates.IsNone(input) {
		return "", nil
	}
	literal, ok := c.parser.FormatForScript(input)
	if !ok {
		return "", &InvalidDateError{Field: field, Input: input}
	}
	return literal, nil
}

func (c *Client) optionalDate(field string, input *string) (*string, error) {
	if input == nil {
		return nil, nil
	}
	literal, err := c.literalDate(field, *input)
	if err != nil || literal == "" {
		return nil, err
	}
	return &literal, nil
}

// cleanTags trims tags and drops empty ones.
func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
