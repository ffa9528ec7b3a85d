package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/task"
	"github.com/rnwolfe/prio/internal/tips"
	"github.com/rnwolfe/prio/internal/version"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var testToday = time.Date(2026, 2, 24, 9, 30, 0, 0, time.UTC)

// configTestEnv sets up a temp XDG environment and pins the command clock.
func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
	t.Setenv("PRIO_DB", "")

	now = func() time.Time { return testToday }
	t.Cleanup(func() { now = time.Now })
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = old
		r.Close()
	}()

	fn()

	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("io.Copy: %v", err)
	}
	return buf.String()
}

// resetFlags restores every flag in fs to its default when the test ends.
func resetFlags(t *testing.T, fs *pflag.FlagSet) {
	t.Helper()
	t.Cleanup(func() {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
}

// seedTasks adds tasks straight to the store and returns their ids.
func seedTasks(t *testing.T, tasks ...task.Task) []int {
	t.Helper()
	db, ts, err := openTasks()
	if err != nil {
		t.Fatalf("openTasks: %v", err)
	}
	defer db.Close()

	ids := make([]int, len(tasks))
	for i, tk := range tasks {
		if tk.EstimatedHours == 0 {
			tk.EstimatedHours = task.DefaultHours
		}
		if tk.Importance == 0 {
			tk.Importance = task.DefaultImportance
		}
		id, err := ts.Add(tk)
		if err != nil {
			t.Fatalf("Add(%q): %v", tk.Title, err)
		}
		ids[i] = id
	}
	return ids
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func date(s string) *time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return &d
}

func TestRunStatus_Empty(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runStatus(nil, nil); err != nil {
			t.Errorf("runStatus: %v", err)
		}
	})
	for _, want := range []string{"0 open", "smart_balance", "prio task add"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}

func TestRunStatus_NextUp(t *testing.T) {
	configTestEnv(t)
	seedTasks(t,
		task.Task{Title: "renew passport", DueDate: date("2026-02-20"), Importance: 9},
		task.Task{Title: "water plants"},
	)

	out := captureStdout(t, func() {
		if err := runStatus(nil, nil); err != nil {
			t.Errorf("runStatus: %v", err)
		}
	})
	for _, want := range []string{"2 open", "1 overdue", "Next up:", "renew passport", "Tuesday, February 24", tips.Daily(testToday)} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}

func TestRunVersion(t *testing.T) {
	resetFlags(t, versionCmd.Flags())

	out := captureStdout(t, func() {
		if err := runVersion(nil, nil); err != nil {
			t.Errorf("runVersion: %v", err)
		}
	})
	if !strings.HasPrefix(out, "prio ") || !strings.Contains(out, version.Short()) {
		t.Errorf("unexpected version output %q", out)
	}

	_ = versionCmd.Flags().Set("short", "true")
	out = captureStdout(t, func() { _ = runVersion(nil, nil) })
	if strings.TrimSpace(out) != version.Short() {
		t.Errorf("--short printed %q", out)
	}
}

func TestRunVersion_JSON(t *testing.T) {
	resetFlags(t, versionCmd.Flags())
	_ = versionCmd.Flags().Set("json", "true")

	out := captureStdout(t, func() {
		if err := runVersion(nil, nil); err != nil {
			t.Errorf("runVersion: %v", err)
		}
	})
	var info version.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("not JSON: %v\n%s", err, out)
	}
	if info.Version != version.Short() || !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestStrategyValue(t *testing.T) {
	v := &strategyValue{known: func() (*rank.StrategySet, error) { return rank.DefaultStrategies(), nil }}

	if err := v.Set("deadline_driven"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v.String() != "deadline_driven" {
		t.Errorf("String() = %q", v.String())
	}

	err := v.Set("yolo")
	if err == nil || !strings.Contains(err.Error(), "unknown strategy") || !strings.Contains(err.Error(), "fastest_wins") {
		t.Fatalf("expected unknown strategy error listing names, got %v", err)
	}
	if v.String() != "deadline_driven" {
		t.Error("a rejected value should not replace the current one")
	}
}

func TestFormatValue(t *testing.T) {
	v := newFormatValue(formatText, formatText, formatJSON, formatYAML)
	if err := v.Set("YAML"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v.format != formatYAML || v.encoding() != task.YAML {
		t.Errorf("got format %q encoding %v", v.format, v.encoding())
	}

	export := newFormatValue(formatJSON, formatJSON, formatYAML)
	if err := export.Set("text"); err == nil || !strings.Contains(err.Error(), "valid: json, yaml") {
		t.Errorf("text should be rejected for export, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{"#12", 12, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v", tt.in, got, err)
		}
	}

	ids, err := parseIDList("1, #2,3")
	if err != nil || len(ids) != 3 || ids[1] != 2 {
		t.Errorf("parseIDList = %v, %v", ids, err)
	}
	if ids, err := parseIDList(""); err != nil || ids != nil {
		t.Errorf("empty list = %v, %v", ids, err)
	}
}

func TestDueLabel(t *testing.T) {
	tests := []struct {
		days int64
		ok   bool
		want string
	}{
		{0, false, ""},
		{-3, true, "(overdue 3d)"},
		{0, true, "(due today!)"},
		{1, true, "(due tomorrow)"},
		{5, true, "(due in 5d)"},
	}
	for _, tt := range tests {
		if got := strings.TrimSpace(dueLabel(tt.days, tt.ok)); got != tt.want {
			t.Errorf("dueLabel(%d, %v) = %q, want %q", tt.days, tt.ok, got, tt.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	late := time.Date(2026, 2, 24, 23, 59, 0, 0, time.UTC)
	if d := daysUntil(*date("2026-02-24"), late); d != 0 {
		t.Errorf("same day should be 0, got %d", d)
	}
	if d := daysUntil(*date("2026-03-01"), testToday); d != 5 {
		t.Errorf("expected 5 days across month end, got %d", d)
	}
}
