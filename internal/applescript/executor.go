package applescript

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/teemow/things3-mcp/internal/logging"
)

// DefaultInterpreter is the command used to run scripts.
const DefaultInterpreter = "osascript"

// Executor runs generated scripts through an external interpreter.
// It holds no per-call state and is safe for concurrent use.
type Executor struct {
	interpreter string
	tempDir     string
	logger      logging.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithInterpreter overrides the interpreter command.
func WithInterpreter(path string) Option {
	return func(e *Executor) {
		if path != "" {
			e.interpreter = path
		}
	}
}

// WithTempDir sets the directory for temporary script files.
// Empty means the system default.
func WithTempDir(dir string) Option {
	return func(e *Executor) {
		e.tempDir = dir
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger logging.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an Executor using osascript unless overridden.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		interpreter: DefaultInterpreter,
		logger:      logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Interpreter returns the configured interpreter command.
func (e *Executor) Interpreter() string {
	return e.interpreter
}

// Execute writes script to a temporary file, runs the interpreter on it and
// returns the combined stdout and stderr. The temporary file is removed on
// every path. A non-zero exit status yields an *ExecutionError carrying the
// output. Execute imposes no timeout of its own; cancel ctx to stop it.
func (e *Executor) Execute(ctx context.Context, script string) (string, error) {
	path, err := e.writeScript(script)
	if err != nil {
		return "", &ExecutionError{ExitCode: -1, Err: err}
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			e.logger.Warn("failed to remove script file", "path", path, logging.KeyError, rmErr.Error())
		}
	}()

	e.logger.Debug("executing script", logging.Script(script))

	start := time.Now()
	cmd := exec.CommandContext(ctx, e.interpreter, path)
	out, runErr := cmd.CombinedOutput()
	output := strings.ToValidUTF8(string(out), "�")
	elapsed := time.Since(start)

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		e.logger.Debug("script failed",
			logging.KeyExitCode, exitCode,
			logging.KeyDuration, elapsed,
			logging.Script(output))
		return "", &ExecutionError{Output: output, ExitCode: exitCode, Err: runErr}
	}

	e.logger.Debug("script finished",
		logging.KeyExitCode, 0,
		logging.KeyDuration, elapsed,
		logging.Script(output))
	return output, nil
}

// Runner executes one script and returns its raw output. *Executor
// satisfies it.
type Runner interface {
	Execute(ctx context.Context, script string) (string, error)
}

// RunWithResponse runs script on r and folds the outcome into a Response.
func RunWithResponse(ctx context.Context, r Runner, script string) Response {
	out, err := r.Execute(ctx, script)
	if err != nil {
		msg := err.Error()
		return Response{Error: &msg}
	}
	result := strings.TrimSpace(out)
	return Response{Success: true, Result: &result}
}

// CheckInstalled reports whether the application can be addressed by
// scripts run through r.
func CheckInstalled(ctx context.Context, r Runner) bool {
	return RunWithResponse(ctx, r, InstalledProbeScript()).returned("installed")
}

// CheckRunning reports whether the application process is running.
func CheckRunning(ctx context.Context, r Runner) bool {
	return RunWithResponse(ctx, r, RunningProbeScript()).returned("true")
}

// ExecuteWithResponse runs script and folds the outcome into a Response.
// It never returns an error.
func (e *Executor) ExecuteWithResponse(ctx context.Context, script string) Response {
	return RunWithResponse(ctx, e, script)
}

func (e *Executor) IsInstalled(ctx context.Context) bool {
	return CheckInstalled(ctx, e)
}

func (e *Executor) IsRunning(ctx context.Context) bool {
	return CheckRunning(ctx, e)
}

func (e *Executor) writeScript(script string) (string, error) {
	f, err := os.CreateTemp(e.tempDir, "things3_script_*.scpt")
	if err != nil {
		return "", fmt.Errorf("failed to create script file: %w", err)
	}
	if _, err := f.WriteString(script); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write script file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close script file: %w", err)
	}
	return f.Name(), nil
}
