package applescript

import (
	"strconv"
	"strings"
)

// Escape makes s safe to embed inside a double-quoted script literal.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// quote returns s as an escaped script string literal.
func quote(s string) string {
	return `"` + Escape(s) + `"`
}

func isNone(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "none")
}

// findTask binds theToDo to the first to do with the given name.
func findTask(name string, openOnly bool) Line {
	expr := "set theToDo to first to do whose name is " + quote(name)
	if openOnly {
		expr += " and status is open"
	}
	return Line(expr)
}

func note(s string) Line {
	return Line("set end of result_parts to " + quote(s))
}

// moveToContainer moves theToDo into a project or area. A failed lookup
// is recorded as a note instead of aborting the script. The value "none"
// moves the to do back to the Inbox.
func moveToContainer(kind DestinationType, name string) *Block {
	b := NewBlock()
	if isNone(name) {
		return b.Line("try").
			Nest(func(in *Block) {
				in.Line(`move theToDo to list "Inbox"`)
				in.Append(note("removed from " + string(kind)))
			}).
			Line("end try")
	}
	return b.Line("try").
		Nest(func(in *Block) {
			in.Line("set targetDestination to first " + string(kind) + " whose name is " + quote(name))
			in.Line("move theToDo to targetDestination")
			in.Append(note("Moved to " + string(kind) + " '" + name + "'"))
		}).
		Line("on error").
		Nest(func(in *Block) {
			in.Append(note(kind.title() + " '" + name + "' not found"))
		}).
		Line("end try")
}

func scheduleStart(date string) *Block {
	return guardedDate("schedule theToDo for date "+quote(date), "Start: "+date, "Invalid start date format")
}

func setDueDate(date string) *Block {
	return guardedDate("set due date of theToDo to date "+quote(date), "Due: "+date, "Invalid due date format")
}

func guardedDate(stmt, ok, failed string) *Block {
	return NewBlock().
		Line("try").
		Nest(func(in *Block) {
			in.Line(stmt)
			in.Append(note(ok))
		}).
		Line("on error").
		Nest(func(in *Block) {
			in.Append(note(failed))
		}).
		Line("end try")
}

// setTags replaces the full tag set. Things stores tag names as one
// comma separated string.
func setTags(tags []string, msg string) *Block {
	return NewBlock().
		Line("set tag names of theToDo to " + quote(strings.Join(tags, ", "))).
		Append(note(msg))
}

// joinParts coerces a list variable to text using the given delimiter.
func joinParts(list, into, delimiter string) *Block {
	return NewBlock().
		Line("set AppleScript's text item delimiters to " + delimiter).
		Line("set " + into + " to " + list + " as string").
		Line(`set AppleScript's text item delimiters to ""`)
}

// AddTaskScript creates a to do and reports every property that was set.
func AddTaskScript(p AddTaskParams) string {
	props := "name:" + quote(p.Title)
	if p.Notes != "" {
		props += ", notes:" + quote(p.Notes)
	}

	doc := NewDocument(AppName)
	doc.Try(Line("set theToDo to make new to do with properties {" + props + "}"))
	doc.Try(Line(`set result_parts to {"Task created: " & name of theToDo}`))

	switch {
	case p.Project != "" && !isNone(p.Project):
		doc.Try(moveToContainer(DestinationProject, p.Project))
	case p.Area != "" && !isNone(p.Area):
		doc.Try(moveToContainer(DestinationArea, p.Area))
	}
	if p.StartDate != "" {
		doc.Try(scheduleStart(p.StartDate))
	}
	if p.DueDate != "" {
		doc.Try(setDueDate(p.DueDate))
	}
	if len(p.Tags) > 0 {
		doc.Try(setTags(p.Tags, "Tags: "+strings.Join(p.Tags, ", ")))
	}

	doc.Try(joinParts("result_parts", "resultText", `", "`))
	doc.Try(Line(`return "✅ " & resultText`))
	doc.OnError(Line("return " + quote("❌ Task could not be added: "+p.Title)))
	return doc.Render()
}

// CompleteTaskScript marks an open to do as completed. A missing task and
// an already completed task produce the same message.
func CompleteTaskScript(name string) string {
	return NewDocument(AppName).
		Try(findTask(name, true)).
		Try(Line("set status of theToDo to completed")).
		Try(Line(`return "✅ Completed: " & name of theToDo`)).
		OnError(Line("return " + quote("❌ Task not found or already completed: "+name))).
		Render()
}

// DeleteTaskScript deletes a to do of any status.
func DeleteTaskScript(name string) string {
	return NewDocument(AppName).
		Try(findTask(name, false)).
		Try(Line("set taskName to name of theToDo")).
		Try(Line("delete theToDo")).
		Try(Line(`return "🗑️ Deleted task: " & taskName`)).
		OnError(Line("return " + quote("❌ Task not found: "+name))).
		Render()
}

// MoveTaskScript moves an open to do into a project or area. The error
// handler tells a missing destination apart from a missing task.
func MoveTaskScript(p MoveTaskParams) string {
	kind := p.DestinationType
	if kind == "" {
		kind = DestinationProject
	}

	marker := "get " + string(kind)
	handler := NewBlock().
		Line(`if errorMsg contains "Can't ` + marker + `" or errorMsg contains "Can’t ` + marker + `" then`).
		Nest(func(in *Block) {
			in.Line("return " + quote("❌ "+kind.title()+" not found: "+p.Destination))
		}).
		Line("else").
		Nest(func(in *Block) {
			in.Line("return " + quote("❌ Task not found: "+p.Name))
		}).
		Line("end if")

	return NewDocument(AppName).
		Try(findTask(p.Name, true)).
		Try(Line("set targetDestination to first " + string(kind) + " whose name is " + quote(p.Destination))).
		Try(Line("move theToDo to targetDestination")).
		Try(Line(`return "📁 Moved '" & name of theToDo & "' to ` + string(kind) + `: ` + Escape(p.Destination) + `"`)).
		OnError(handler).
		Render()
}

// UpdateTaskScript applies every non-nil field of p to an open to do, in a
// fixed order, and reports what changed.
func UpdateTaskScript(p UpdateTaskParams) string {
	doc := NewDocument(AppName)
	doc.Try(findTask(p.Name, true))
	doc.Try(Line("set result_parts to {}"))

	if p.Title != nil && *p.Title != "" {
		doc.Try(Line("set name of theToDo to " + quote(*p.Title)))
		doc.Try(note("Updated name"))
	}
	if p.Notes != nil {
		doc.Try(Line("set notes of theToDo to " + quote(*p.Notes)))
		doc.Try(note("Updated notes"))
	}
	if p.Project != nil && *p.Project != "" {
		doc.Try(moveToContainer(DestinationProject, *p.Project))
	}
	if p.Area != nil && *p.Area != "" {
		doc.Try(moveToContainer(DestinationArea, *p.Area))
	}
	if p.StartDate != nil && *p.StartDate != "" {
		doc.Try(scheduleStart(*p.StartDate))
	}
	if p.DueDate != nil && *p.DueDate != "" {
		doc.Try(setDueDate(*p.DueDate))
	}
	if p.Tags != nil {
		doc.Try(setTags(p.Tags, "Updated tags"))
	}

	doc.Try(NewBlock().
		Line("if length of result_parts is 0 then").
		Nest(func(in *Block) {
			in.Line("return " + quote("❓ No changes specified for task '"+p.Name+"'"))
		}).
		Line("else").
		Nest(func(in *Block) {
			in.Append(joinParts("result_parts", "resultText", `", "`))
			in.Line(`return "✏️ Updated '" & name of theToDo & "': " & resultText`)
		}).
		Line("end if"))
	doc.OnError(Line("return " + quote("❌ Task not found: "+p.Name)))
	return doc.Render()
}

// filterTasks narrows theTasks to the items matching predicate. Items
// whose properties cannot be read are skipped.
func filterTasks(predicate string) *Block {
	return NewBlock().
		Line("set filteredTasks to {}").
		Line("repeat with aToDo in theTasks").
		Nest(func(loop *Block) {
			loop.Line("try").
				Nest(func(try *Block) {
					try.Line("if " + predicate + " then").
						Nest(func(then *Block) {
							then.Line("set end of filteredTasks to aToDo")
						}).
						Line("end if")
				}).
				Line("end try")
		}).
		Line("end repeat").
		Line("set theTasks to filteredTasks")
}

// taskField is a property read into a variable inside its own try block.
type taskField struct {
	variable string
	expr     string
	label    string
}

var taskFields = []taskField{
	{variable: "taskName", expr: "name of aToDo"},
	{variable: "taskNotes", expr: "notes of aToDo"},
	{variable: "taskStatus", expr: "status of aToDo as string"},
	{variable: "taskProject", expr: "name of project of aToDo", label: "Project"},
	{variable: "taskArea", expr: "name of area of aToDo", label: "Area"},
	{variable: "taskDueDate", expr: "due date of aToDo as string", label: "Due"},
	{variable: "taskTags", expr: "tag names of aToDo", label: "Tags"},
}

func taskLoop(limit int) *Block {
	return NewBlock().
		Line("repeat with aToDo in theTasks").
		Nest(func(loop *Block) {
			if limit > 0 {
				loop.Line("if taskCount ≥ " + strconv.Itoa(limit) + " then").
					Nest(func(in *Block) { in.Line("exit repeat") }).
					Line("end if")
			}
			loop.Line("set taskCount to taskCount + 1")
			for _, f := range taskFields {
				loop.Line("set " + f.variable + ` to ""`)
			}
			for _, f := range taskFields {
				loop.Line("try").
					Nest(func(in *Block) { in.Line("set " + f.variable + " to " + f.expr) }).
					Line("end try")
			}
			loop.Line(`set taskInfo to "• " & taskName`)
			loop.Line(`if taskStatus is not "" and taskStatus is not "open" then`).
				Nest(func(in *Block) { in.Line(`set taskInfo to taskInfo & " [" & taskStatus & "]"`) }).
				Line("end if")
			for _, f := range taskFields {
				if f.label == "" {
					continue
				}
				loop.Line("if " + f.variable + ` is not "" then`).
					Nest(func(in *Block) {
						in.Line(`set taskInfo to taskInfo & " (` + f.label + `: " & ` + f.variable + ` & ")"`)
					}).
					Line("end if")
			}
			loop.Line(`if taskNotes is not "" then`).
				Nest(func(in *Block) { in.Line(`set taskInfo to taskInfo & linefeed & "  Notes: " & taskNotes`) }).
				Line("end if")
			loop.Line("set end of taskList to taskInfo")
		}).
		Line("end repeat")
}

// ListTasksScript lists the to dos of a built-in list, optionally narrowed
// by project or area and by tag, and renders one line per to do.
func ListTasksScript(p ListTasksParams) (string, error) {
	source, err := p.List.source()
	if err != nil {
		return "", err
	}

	doc := NewDocument(AppName)
	doc.Do(Line("set taskList to {}"))
	doc.Do(Line("set taskCount to 0"))
	doc.Do(Line("set theTasks to " + source))

	switch {
	case p.Project != "":
		doc.Do(filterTasks("name of project of aToDo is " + quote(p.Project)))
	case p.Area != "":
		doc.Do(filterTasks("name of area of aToDo is " + quote(p.Area)))
	}
	if p.Tag != "" {
		doc.Do(filterTasks(`(", " & tag names of aToDo & ", ") contains ` + quote(", "+p.Tag+", ")))
	}

	doc.Do(taskLoop(p.Limit))
	doc.Do(NewBlock().
		Line("if length of taskList is 0 then").
		Nest(func(in *Block) {
			in.Line("return " + quote("No tasks found in "+string(p.List)+" list"))
		}).
		Line("else").
		Nest(func(in *Block) {
			in.Append(joinParts("taskList", "taskText", "linefeed"))
			in.Line("return taskText")
		}).
		Line("end if"))
	return doc.Render(), nil
}

// InstalledProbeScript returns "installed" when the application can be
// addressed and "not_installed" otherwise.
func InstalledProbeScript() string {
	return strings.Join(NewBlock().
		Line("try").
		Nest(func(in *Block) {
			in.Line(`tell application "` + AppName + `"`).
				Nest(func(tell *Block) { tell.Line(`return "installed"`) }).
				Line("end tell")
		}).
		Line("on error").
		Nest(func(in *Block) { in.Line(`return "not_installed"`) }).
		Line("end try").
		Lines(), "\n")
}

// RunningProbeScript returns "true" when the application process is running.
func RunningProbeScript() string {
	return NewDocument("System Events").
		Do(Line(`return (name of processes) contains "` + AppName + `"`)).
		Render()
}
