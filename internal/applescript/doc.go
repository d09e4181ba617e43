// Package applescript builds and runs the AppleScript programs that drive the
// Things 3 application.
//
// The package has three parts:
//   - Document and Block, a small typed builder for tell blocks, guarded
//     try/on error regions and nested control flow
//   - one generator function per task operation (AddTaskScript,
//     ListTasksScript, UpdateTaskScript and friends) that escape every
//     user-supplied value before embedding it in a string literal
//   - Executor, which writes a script to a temporary file and runs it
//     through osascript, returning the combined output
//
// Generators are pure functions; rendering the same parameters twice yields
// identical text. Lookups that fail inside Things are handled by the
// generated script itself and come back as ordinary output, so only
// interpreter failures surface as *ExecutionError.
//
// Example usage:
//
//	exec := applescript.NewExecutor()
//	out, err := exec.Execute(ctx, applescript.CompleteTaskScript("Buy milk"))
//	if err != nil {
//	    var execErr *applescript.ExecutionError
//	    if errors.As(err, &execErr) {
//	        log.Printf("osascript exited %d: %s", execErr.ExitCode, execErr.Output)
//	    }
//	}
package applescript
