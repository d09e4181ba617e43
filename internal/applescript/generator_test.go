package applescript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "plain", want: "plain"},
		{input: `Task with "quotes"`, want: `Task with \"quotes\"`},
		{input: `back\slash`, want: `back\\slash`},
		{input: `trailing\`, want: `trailing\\`},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.input))
		})
	}
}

func TestAddTaskScript(t *testing.T) {
	t.Run("title only", func(t *testing.T) {
		script := AddTaskScript(AddTaskParams{Title: "Buy milk"})

		assert.True(t, strings.HasPrefix(script, `tell application "Things3"`))
		assert.True(t, strings.HasSuffix(script, "end tell"))
		assert.Contains(t, script, `set theToDo to make new to do with properties {name:"Buy milk"}`)
		assert.Contains(t, script, `set result_parts to {"Task created: " & name of theToDo}`)
		assert.Contains(t, script, `return "✅ " & resultText`)
		assert.Contains(t, script, `return "❌ Task could not be added: Buy milk"`)
		assert.NotContains(t, script, "schedule theToDo")
		assert.NotContains(t, script, "due date")
		assert.NotContains(t, script, "tag names")
	})

	t.Run("all fields", func(t *testing.T) {
		script := AddTaskScript(AddTaskParams{
			Title:     "Write report",
			Notes:     "Quarterly numbers",
			Project:   "Work",
			Tags:      []string{"urgent", "office"},
			StartDate: "20 July 2025",
			DueDate:   "25 July 2025",
		})

		assert.Contains(t, script, `{name:"Write report", notes:"Quarterly numbers"}`)
		assert.Contains(t, script, `set targetDestination to first project whose name is "Work"`)
		assert.Contains(t, script, `set end of result_parts to "Project 'Work' not found"`)
		assert.Contains(t, script, `schedule theToDo for date "20 July 2025"`)
		assert.Contains(t, script, `set end of result_parts to "Start: 20 July 2025"`)
		assert.Contains(t, script, `set due date of theToDo to date "25 July 2025"`)
		assert.Contains(t, script, `set end of result_parts to "Due: 25 July 2025"`)
		assert.Contains(t, script, `set tag names of theToDo to "urgent, office"`)
	})

	t.Run("project wins over area", func(t *testing.T) {
		script := AddTaskScript(AddTaskParams{Title: "x", Project: "P", Area: "A"})
		assert.Contains(t, script, `first project whose name is "P"`)
		assert.NotContains(t, script, "first area")
	})

	t.Run("area when no project", func(t *testing.T) {
		script := AddTaskScript(AddTaskParams{Title: "x", Area: "Home"})
		assert.Contains(t, script, `first area whose name is "Home"`)
		assert.Contains(t, script, `"Area 'Home' not found"`)
	})

	t.Run("escapes quotes everywhere", func(t *testing.T) {
		script := AddTaskScript(AddTaskParams{Title: `Task with "quotes"`, Notes: `say "hi"`})
		assert.Contains(t, script, `name:"Task with \"quotes\""`)
		assert.Contains(t, script, `notes:"say \"hi\""`)
		assert.Contains(t, script, `"❌ Task could not be added: Task with \"quotes\""`)
	})

	t.Run("empty tag list is omitted", func(t *testing.T) {
		script := AddTaskScript(AddTaskParams{Title: "x", Tags: []string{}})
		assert.NotContains(t, script, "tag names")
	})

	t.Run("deterministic", func(t *testing.T) {
		p := AddTaskParams{Title: "x", Notes: "y", Tags: []string{"a"}, DueDate: "1 August 2025"}
		assert.Equal(t, AddTaskScript(p), AddTaskScript(p))
	})
}

func TestCompleteTaskScript(t *testing.T) {
	script := CompleteTaskScript("Buy milk")

	assert.Contains(t, script, `set theToDo to first to do whose name is "Buy milk" and status is open`)
	assert.Contains(t, script, "set status of theToDo to completed")
	assert.Contains(t, script, `return "✅ Completed: " & name of theToDo`)
	assert.Contains(t, script, `on error errorMsg`)
	assert.Contains(t, script, `return "❌ Task not found or already completed: Buy milk"`)
}

func TestDeleteTaskScript(t *testing.T) {
	script := DeleteTaskScript("Old task")

	assert.Contains(t, script, `set theToDo to first to do whose name is "Old task"`)
	assert.NotContains(t, script, "status is open")
	assert.Contains(t, script, "set taskName to name of theToDo\n    delete theToDo")
	assert.Contains(t, script, `return "🗑️ Deleted task: " & taskName`)
	assert.Contains(t, script, `return "❌ Task not found: Old task"`)
}

func TestMoveTaskScript(t *testing.T) {
	t.Run("project", func(t *testing.T) {
		script := MoveTaskScript(MoveTaskParams{Name: "Report", Destination: "Work", DestinationType: DestinationProject})

		assert.Contains(t, script, `first to do whose name is "Report" and status is open`)
		assert.Contains(t, script, `set targetDestination to first project whose name is "Work"`)
		assert.Contains(t, script, "move theToDo to targetDestination")
		assert.Contains(t, script, `return "📁 Moved '" & name of theToDo & "' to project: Work"`)
		assert.Contains(t, script, `if errorMsg contains "Can't get project" or errorMsg contains "Can’t get project" then`)
		assert.Contains(t, script, `return "❌ Project not found: Work"`)
		assert.Contains(t, script, `return "❌ Task not found: Report"`)
	})

	t.Run("area", func(t *testing.T) {
		script := MoveTaskScript(MoveTaskParams{Name: "Report", Destination: "Home", DestinationType: DestinationArea})

		assert.Contains(t, script, `set targetDestination to first area whose name is "Home"`)
		assert.Contains(t, script, `errorMsg contains "Can't get area"`)
		assert.Contains(t, script, `return "❌ Area not found: Home"`)
	})

	t.Run("default destination type", func(t *testing.T) {
		script := MoveTaskScript(MoveTaskParams{Name: "Report", Destination: "Work"})
		assert.Contains(t, script, "first project whose name is")
	})

	t.Run("escapes destination in success message", func(t *testing.T) {
		script := MoveTaskScript(MoveTaskParams{Name: "R", Destination: `The "Big" One`})
		assert.Contains(t, script, `"' to project: The \"Big\" One"`)
	})
}

func TestScripts_EscapeTaskName(t *testing.T) {
	const (
		name    = `Say "hi" \ now`
		escaped = `Say \"hi\" \\ now`
	)

	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "update",
			script: UpdateTaskScript(UpdateTaskParams{Name: name}),
			want: []string{
				`set theToDo to first to do whose name is "` + escaped + `" and status is open`,
				`return "❓ No changes specified for task '` + escaped + `'"`,
				`return "❌ Task not found: ` + escaped + `"`,
			},
		},
		{
			name:   "complete",
			script: CompleteTaskScript(name),
			want: []string{
				`set theToDo to first to do whose name is "` + escaped + `" and status is open`,
				`return "❌ Task not found or already completed: ` + escaped + `"`,
			},
		},
		{
			name:   "delete",
			script: DeleteTaskScript(name),
			want: []string{
				`set theToDo to first to do whose name is "` + escaped + `"`,
				`return "❌ Task not found: ` + escaped + `"`,
			},
		},
		{
			name:   "move",
			script: MoveTaskScript(MoveTaskParams{Name: name, Destination: name, DestinationType: DestinationArea}),
			want: []string{
				`set theToDo to first to do whose name is "` + escaped + `" and status is open`,
				`set targetDestination to first area whose name is "` + escaped + `"`,
				`return "❌ Area not found: ` + escaped + `"`,
				`return "❌ Task not found: ` + escaped + `"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.want {
				assert.Contains(t, tt.script, want)
			}
			assert.NotContains(t, tt.script, `"Say "hi"`)
			assert.NotContains(t, tt.script, `'Say "hi"`)
			assert.NotContains(t, tt.script, `: Say "hi"`)
		})
	}
}

func TestUpdateTaskScript(t *testing.T) {
	t.Run("no fields", func(t *testing.T) {
		script := UpdateTaskScript(UpdateTaskParams{Name: "Task"})

		assert.Contains(t, script, `first to do whose name is "Task" and status is open`)
		assert.Contains(t, script, "set result_parts to {}")
		assert.Contains(t, script, "if length of result_parts is 0 then")
		assert.Contains(t, script, `return "❓ No changes specified for task 'Task'"`)
		assert.Contains(t, script, `return "❌ Task not found: Task"`)
		assert.NotContains(t, script, "set name of theToDo")
	})

	t.Run("fields in fixed order", func(t *testing.T) {
		script := UpdateTaskScript(UpdateTaskParams{
			Name:      "Task",
			Title:     strPtr("New title"),
			Notes:     strPtr("New notes"),
			Project:   strPtr("Work"),
			Area:      strPtr("Home"),
			StartDate: strPtr("1 August 2025"),
			DueDate:   strPtr("2 August 2025"),
			Tags:      []string{"urgent", "work"},
		})

		order := []string{
			`set name of theToDo to "New title"`,
			`set notes of theToDo to "New notes"`,
			`first project whose name is "Work"`,
			`first area whose name is "Home"`,
			`schedule theToDo for date "1 August 2025"`,
			`set due date of theToDo to date "2 August 2025"`,
			`set tag names of theToDo to "urgent, work"`,
		}
		last := -1
		for _, fragment := range order {
			idx := strings.Index(script, fragment)
			require.NotEqual(t, -1, idx, "missing %q", fragment)
			assert.Greater(t, idx, last, "%q out of order", fragment)
			last = idx
		}
		assert.Contains(t, script, `return "✏️ Updated '" & name of theToDo & "': " & resultText`)
	})

	t.Run("none removes from project", func(t *testing.T) {
		script := UpdateTaskScript(UpdateTaskParams{Name: "Task", Project: strPtr("none")})
		assert.Contains(t, script, `move theToDo to list "Inbox"`)
		assert.Contains(t, script, `"removed from project"`)
		assert.NotContains(t, script, "first project whose name")
	})

	t.Run("soft failure notes", func(t *testing.T) {
		script := UpdateTaskScript(UpdateTaskParams{Name: "Task", Project: strPtr("Missing"), DueDate: strPtr("bad")})
		assert.Contains(t, script, `set end of result_parts to "Project 'Missing' not found"`)
		assert.Contains(t, script, `set end of result_parts to "Invalid due date format"`)
	})

	t.Run("empty tag list clears tags", func(t *testing.T) {
		script := UpdateTaskScript(UpdateTaskParams{Name: "Task", Tags: []string{}})
		assert.Contains(t, script, `set tag names of theToDo to ""`)
	})

	t.Run("nil tags untouched", func(t *testing.T) {
		script := UpdateTaskScript(UpdateTaskParams{Name: "Task", Tags: nil})
		assert.NotContains(t, script, "tag names")
	})

	t.Run("empty notes clear notes", func(t *testing.T) {
		script := UpdateTaskScript(UpdateTaskParams{Name: "Task", Notes: strPtr("")})
		assert.Contains(t, script, `set notes of theToDo to ""`)
	})
}

func TestListTasksScript(t *testing.T) {
	sources := map[ListType]string{
		ListInbox:     `set theTasks to to dos of list "Inbox"`,
		ListToday:     `set theTasks to to dos of list "Today"`,
		ListUpcoming:  `set theTasks to to dos of list "Upcoming"`,
		ListAnytime:   `set theTasks to to dos of list "Anytime"`,
		ListSomeday:   `set theTasks to to dos of list "Someday"`,
		ListCompleted: "set theTasks to completed to dos",
		ListCanceled:  "set theTasks to canceled to dos",
		ListAll:       "set theTasks to to dos\n",
	}
	for _, lt := range ListTypes() {
		t.Run(string(lt), func(t *testing.T) {
			script, err := ListTasksScript(ListTasksParams{List: lt})
			require.NoError(t, err)
			assert.Contains(t, script, sources[lt])
			assert.Contains(t, script, `return "No tasks found in `+string(lt)+` list"`)
			assert.NotContains(t, script, "filteredTasks")
			assert.NotContains(t, script, "exit repeat")
		})
	}

	t.Run("unknown list type", func(t *testing.T) {
		_, err := ListTasksScript(ListTasksParams{List: ListType("bogus")})
		assert.Error(t, err)
	})

	t.Run("project filter wins over area", func(t *testing.T) {
		script, err := ListTasksScript(ListTasksParams{List: ListToday, Project: "Work", Area: "Home"})
		require.NoError(t, err)
		assert.Contains(t, script, `if name of project of aToDo is "Work" then`)
		assert.NotContains(t, script, "name of area of aToDo is")
		assert.Equal(t, 1, strings.Count(script, "set filteredTasks to {}"))
	})

	t.Run("area filter", func(t *testing.T) {
		script, err := ListTasksScript(ListTasksParams{List: ListToday, Area: "Home"})
		require.NoError(t, err)
		assert.Contains(t, script, `if name of area of aToDo is "Home" then`)
	})

	t.Run("tag filter composes with project filter", func(t *testing.T) {
		script, err := ListTasksScript(ListTasksParams{List: ListAll, Project: "Work", Tag: "urgent"})
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(script, "set filteredTasks to {}"))
		assert.Contains(t, script, `(", " & tag names of aToDo & ", ") contains ", urgent, "`)
		assert.Less(t, strings.Index(script, "name of project of aToDo is"), strings.Index(script, `contains ", urgent, "`))
	})

	t.Run("positive limit", func(t *testing.T) {
		script, err := ListTasksScript(ListTasksParams{List: ListInbox, Limit: 5})
		require.NoError(t, err)
		assert.Contains(t, script, "if taskCount ≥ 5 then\n      exit repeat\n    end if\n    set taskCount to taskCount + 1")
	})

	t.Run("non-positive limit is unlimited", func(t *testing.T) {
		script, err := ListTasksScript(ListTasksParams{List: ListInbox, Limit: 0})
		require.NoError(t, err)
		assert.NotContains(t, script, "exit repeat")
	})

	t.Run("wraps every property read in try", func(t *testing.T) {
		script, err := ListTasksScript(ListTasksParams{List: ListInbox})
		require.NoError(t, err)
		for _, read := range []string{
			"set taskName to name of aToDo",
			"set taskNotes to notes of aToDo",
			"set taskStatus to status of aToDo as string",
			"set taskProject to name of project of aToDo",
			"set taskArea to name of area of aToDo",
			"set taskDueDate to due date of aToDo as string",
			"set taskTags to tag names of aToDo",
		} {
			assert.Contains(t, script, "try\n      "+read+"\n    end try")
		}
		assert.Contains(t, script, `set taskInfo to "• " & taskName`)
		assert.Contains(t, script, `" (Project: " & taskProject & ")"`)
		assert.Contains(t, script, `" (Due: " & taskDueDate & ")"`)
		assert.Contains(t, script, `linefeed & "  Notes: " & taskNotes`)
		assert.Contains(t, script, "set AppleScript's text item delimiters to linefeed")
	})

	t.Run("escapes filter values", func(t *testing.T) {
		script, err := ListTasksScript(ListTasksParams{List: ListAll, Project: `My "P"`})
		require.NoError(t, err)
		assert.Contains(t, script, `name of project of aToDo is "My \"P\""`)
	})
}

func TestParseListType(t *testing.T) {
	tests := []struct {
		input   string
		want    ListType
		wantErr bool
	}{
		{input: "inbox", want: ListInbox},
		{input: "Today", want: ListToday},
		{input: " someday ", want: ListSomeday},
		{input: "canceled", want: ListCanceled},
		{input: "logbook", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseListType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDestinationType(t *testing.T) {
	got, err := ParseDestinationType("")
	require.NoError(t, err)
	assert.Equal(t, DestinationProject, got)

	got, err = ParseDestinationType("Area")
	require.NoError(t, err)
	assert.Equal(t, DestinationArea, got)

	_, err = ParseDestinationType("heading")
	assert.Error(t, err)
}

func TestProbeScripts(t *testing.T) {
	assert.Equal(t, "try\n"+
		"  tell application \"Things3\"\n"+
		"    return \"installed\"\n"+
		"  end tell\n"+
		"on error\n"+
		"  return \"not_installed\"\n"+
		"end try", InstalledProbeScript())

	assert.Equal(t, "tell application \"System Events\"\n"+
		"  return (name of processes) contains \"Things3\"\n"+
		"end tell", RunningProbeScript())
}
