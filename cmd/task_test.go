package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rnwolfe/prio/internal/task"
)

func resetTaskFlags(t *testing.T) {
	t.Helper()
	resetFlags(t, taskAddCmd.Flags())
	resetFlags(t, taskEditCmd.Flags())
	resetFlags(t, taskListCmd.Flags())
}

func getTask(t *testing.T, id int) *task.Task {
	t.Helper()
	db, ts, err := openTasks()
	if err != nil {
		t.Fatalf("openTasks: %v", err)
	}
	defer db.Close()
	tk, err := ts.Get(id)
	if err != nil {
		t.Fatalf("Get(%d): %v", id, err)
	}
	return tk
}

func TestRunTaskAdd(t *testing.T) {
	configTestEnv(t)
	resetTaskFlags(t)
	dep := seedTasks(t, task.Task{Title: "draft outline"})[0]

	_ = taskAddCmd.Flags().Set("due", "+3d")
	_ = taskAddCmd.Flags().Set("importance", "8")
	_ = taskAddCmd.Flags().Set("after", "#1")
	_ = taskAddCmd.Flags().Set("notes", "see thread")

	out := captureStdout(t, func() {
		if err := runTaskAdd(nil, []string{"write", "the", "report"}); err != nil {
			t.Errorf("runTaskAdd: %v", err)
		}
	})
	if !strings.Contains(out, "Added #2") || !strings.Contains(out, "write the report") {
		t.Errorf("unexpected output:\n%s", out)
	}

	got := getTask(t, 2)
	if got.Title != "write the report" || got.Importance != 8 || got.EstimatedHours != task.DefaultHours || got.Notes != "see thread" {
		t.Errorf("unexpected task %+v", got)
	}
	if got.DueDate == nil || got.DueDate.Format("2006-01-02") != "2026-02-27" {
		t.Errorf("due = %v, want 2026-02-27", got.DueDate)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0] != dep {
		t.Errorf("dependencies = %v", got.Dependencies)
	}
}

func TestRunTaskAdd_Errors(t *testing.T) {
	configTestEnv(t)

	tests := []struct {
		name  string
		flag  string
		value string
		want  string
	}{
		{"bad due", "due", "someday", "invalid date"},
		{"bad dependency id", "after", "x", "not a valid task id"},
		{"missing dependency", "after", "42", "42"},
		{"importance out of range", "importance", "11", "importance must be 1-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetTaskFlags(t)
			_ = taskAddCmd.Flags().Set(tt.flag, tt.value)
			var err error
			captureStdout(t, func() { err = runTaskAdd(nil, []string{"something"}) })
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRunTaskList(t *testing.T) {
	configTestEnv(t)
	resetTaskFlags(t)

	out := captureStdout(t, func() {
		if err := runTaskList(nil, nil); err != nil {
			t.Errorf("runTaskList: %v", err)
		}
	})
	if !strings.Contains(out, "No tasks yet") {
		t.Errorf("empty list should say so:\n%s", out)
	}

	ids := seedTasks(t,
		task.Task{Title: "ship release", DueDate: date("2026-02-25")},
		task.Task{Title: "old chore"},
	)
	seedTasks(t, task.Task{Title: "write notes", Dependencies: []int{ids[0]}})
	db, ts, _ := openTasks()
	_ = ts.Complete(ids[1])
	db.Close()

	out = captureStdout(t, func() { _ = runTaskList(nil, nil) })
	for _, want := range []string{"ship release", "(due tomorrow)", "after #1", "2 open · 1 done"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "old chore") {
		t.Error("done tasks should be hidden by default")
	}

	_ = taskListCmd.Flags().Set("done", "true")
	out = captureStdout(t, func() { _ = runTaskList(nil, nil) })
	if !strings.Contains(out, "old chore") {
		t.Errorf("--done should include completed tasks:\n%s", out)
	}
}

func TestRunTaskDoneUndoRm(t *testing.T) {
	configTestEnv(t)
	ids := seedTasks(t, task.Task{Title: "book flights"})
	seedTasks(t, task.Task{Title: "pack", Dependencies: []int{ids[0]}})

	out := captureStdout(t, func() {
		if err := runTaskDone(nil, []string{"1"}); err != nil {
			t.Errorf("runTaskDone: %v", err)
		}
	})
	if !strings.Contains(out, "Done! book flights") || !getTask(t, 1).Done {
		t.Errorf("task should be done:\n%s", out)
	}

	out = captureStdout(t, func() {
		if err := runTaskUndo(nil, []string{"#1"}); err != nil {
			t.Errorf("runTaskUndo: %v", err)
		}
	})
	if !strings.Contains(out, "Reopened #1") || getTask(t, 1).Done {
		t.Errorf("task should be open again:\n%s", out)
	}

	out = captureStdout(t, func() {
		if err := runTaskRm(nil, []string{"1"}); err != nil {
			t.Errorf("runTaskRm: %v", err)
		}
	})
	if !strings.Contains(out, "Removed #1") || !strings.Contains(out, "1 other task(s)") {
		t.Errorf("unexpected rm output:\n%s", out)
	}
	if deps := getTask(t, 2).Dependencies; len(deps) != 0 {
		t.Errorf("removed task should be unlinked, got %v", deps)
	}

	var err error
	captureStdout(t, func() { err = runTaskDone(nil, []string{"1"}) })
	if err == nil {
		t.Error("completing a removed task should fail")
	}
}

func TestRunTaskEdit(t *testing.T) {
	configTestEnv(t)
	resetTaskFlags(t)
	ids := seedTasks(t, task.Task{Title: "first"}, task.Task{Title: "second", DueDate: date("2026-03-01")})

	_ = taskEditCmd.Flags().Set("title", "second, renamed")
	_ = taskEditCmd.Flags().Set("importance", "9")
	_ = taskEditCmd.Flags().Set("after", "1")

	out := captureStdout(t, func() {
		if err := runTaskEdit(taskEditCmd, []string{"2"}); err != nil {
			t.Errorf("runTaskEdit: %v", err)
		}
	})
	if !strings.Contains(out, "Updated #2") {
		t.Errorf("unexpected output:\n%s", out)
	}
	got := getTask(t, ids[1])
	if got.Title != "second, renamed" || got.Importance != 9 || got.EstimatedHours != task.DefaultHours {
		t.Errorf("unexpected task %+v", got)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0] != ids[0] || got.DueDate == nil {
		t.Errorf("dependencies %v due %v", got.Dependencies, got.DueDate)
	}
}

func TestRunTaskEdit_ClearFields(t *testing.T) {
	configTestEnv(t)
	resetTaskFlags(t)
	ids := seedTasks(t, task.Task{Title: "first"})
	seedTasks(t, task.Task{Title: "second", DueDate: date("2026-03-01"), Dependencies: ids})

	_ = taskEditCmd.Flags().Set("clear-due", "true")
	_ = taskEditCmd.Flags().Set("after", "none")
	captureStdout(t, func() {
		if err := runTaskEdit(taskEditCmd, []string{"2"}); err != nil {
			t.Errorf("runTaskEdit: %v", err)
		}
	})
	got := getTask(t, 2)
	if got.DueDate != nil || len(got.Dependencies) != 0 {
		t.Errorf("due and dependencies should be cleared, got %v %v", got.DueDate, got.Dependencies)
	}
}

func TestRunTaskEdit_NothingToChange(t *testing.T) {
	configTestEnv(t)
	resetTaskFlags(t)
	seedTasks(t, task.Task{Title: "first"})

	err := runTaskEdit(taskEditCmd, []string{"1"})
	if err == nil || !strings.Contains(err.Error(), "nothing to change") {
		t.Fatalf("expected nothing to change, got %v", err)
	}
}

func TestRunTaskImportExport(t *testing.T) {
	configTestEnv(t)
	resetFlags(t, taskExportCmd.Flags())

	path := writeFile(t, "tasks.json", `{"tasks": [
		{"id": "a", "title": "design", "importance": 8, "estimated_hours": 3},
		{"id": "b", "title": "build", "dependencies": ["a", "zzz"], "importance": 42},
		{"title": "celebrate", "done": true}
	]}`)

	out := captureStdout(t, func() {
		if err := runTaskImport(nil, []string{path}); err != nil {
			t.Errorf("runTaskImport: %v", err)
		}
	})
	if !strings.Contains(out, "Imported 3 task(s)") {
		t.Errorf("unexpected import output:\n%s", out)
	}
	if !strings.Contains(out, "zzz") {
		t.Errorf("the dangling dependency should be reported:\n%s", out)
	}
	if got := getTask(t, 2); got.Importance != 10 || len(got.Dependencies) != 1 || got.Dependencies[0] != 1 {
		t.Errorf("imported task not normalized and remapped: %+v", got)
	}

	out = captureStdout(t, func() {
		if err := runTaskExport(nil, nil); err != nil {
			t.Errorf("runTaskExport: %v", err)
		}
	})
	var exported task.Batch
	if err := json.Unmarshal([]byte(out), &exported); err != nil {
		t.Fatalf("export is not JSON: %v\n%s", err, out)
	}
	if len(exported.Tasks) != 3 || exported.Tasks[2]["done"] != true {
		t.Errorf("unexpected export %+v", exported.Tasks)
	}

	_ = taskExportCmd.Flags().Set("format", "yaml")
	out = captureStdout(t, func() { _ = runTaskExport(nil, nil) })
	if !strings.Contains(out, "title: design") {
		t.Errorf("expected YAML export:\n%s", out)
	}
}
