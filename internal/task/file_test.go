package task

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDecode_ListAndObject(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		enc      Encoding
		tasks    int
		strategy string
	}{
		{"json list", `[{"title": "a"}, {"title": "b"}]`, JSON, 2, ""},
		{"json object", `{"tasks": [{"title": "a"}], "strategy": "fastest_wins", "completed_ids": [1]}`, JSON, 1, "fastest_wins"},
		{"json object without tasks", `{"strategy": "balanced"}`, JSON, 0, "balanced"},
		{"yaml list", "- title: a\n  due_date: 2026-03-01\n- title: b\n", YAML, 2, ""},
		{"yaml object", "strategy: high_impact\ntasks:\n  - title: a\n    dependencies: [1, 2]\n", YAML, 1, "high_impact"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Decode([]byte(tt.data), tt.enc)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(b.Tasks) != tt.tasks {
				t.Errorf("expected %d tasks, got %d", tt.tasks, len(b.Tasks))
			}
			if b.Strategy != tt.strategy {
				t.Errorf("expected strategy %q, got %q", tt.strategy, b.Strategy)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"tasks not a list", `{"tasks": "nope"}`, ErrTasksNotList},
		{"scalar document", `42`, ErrTasksNotList},
		{"task not an object", `[1, 2]`, ErrTaskNotObject},
		{"completed ids not a list", `{"tasks": [{"title": "a"}], "completed_ids": 1}`, ErrCompletedNotList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), JSON)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Decode([]byte(`[{`), JSON); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestBatchFrom_StrategyNotAName(t *testing.T) {
	for _, v := range []any{5.0, []any{"high_impact"}, true} {
		_, err := BatchFrom(map[string]any{"tasks": []any{}, "strategy": v})
		var invalid *InvalidStrategyError
		if !errors.As(err, &invalid) {
			t.Fatalf("strategy %v: expected InvalidStrategyError, got %v", v, err)
		}
		if invalid.Value == nil {
			t.Errorf("strategy %v: error should carry the value", v)
		}
	}

	b, err := BatchFrom(map[string]any{"tasks": []any{}, "strategy": nil, "completed_ids": nil})
	if err != nil {
		t.Fatalf("null fields should read as absent: %v", err)
	}
	if b.Strategy != "" || b.CompletedIDs != nil {
		t.Errorf("expected empty batch options, got %+v", b)
	}

	_, err = BatchFrom(map[string]any{"strategy": 5.0})
	if err == nil || err.Error() != "Invalid strategy: 5" {
		t.Errorf("unexpected error text %v", err)
	}
}

func TestEncodingFor(t *testing.T) {
	tests := map[string]Encoding{
		"tasks.json": JSON,
		"tasks.YAML": YAML,
		"tasks.yml":  YAML,
		"tasks":      JSON,
		"-":          JSON,
	}
	for path, want := range tests {
		if got := EncodingFor(path); got != want {
			t.Errorf("EncodingFor(%q): got %s, want %s", path, got, want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")
	if err := os.WriteFile(path, []byte("- title: from yaml\n  importance: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(b.Tasks) != 1 || b.Tasks[0]["title"] != "from yaml" || b.Tasks[0]["importance"] != 7 {
		t.Fatalf("unexpected batch %+v", b.Tasks)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	for _, enc := range []Encoding{JSON, YAML} {
		t.Run(string(enc), func(t *testing.T) {
			src := NewStore(setupTestDB(t))
			a, _ := src.Add(newTask("a"))
			in := newTask("b")
			in.Dependencies = []int{a}
			in.DueDate = date(2026, 4, 2)
			in.Notes = "note"
			_, _ = src.Add(in)
			_ = src.Complete(a)

			tasks, _ := src.List(ListOptions{ShowDone: true})
			var buf bytes.Buffer
			if err := Export(&buf, tasks, enc); err != nil {
				t.Fatalf("Export: %v", err)
			}

			b, err := Decode(buf.Bytes(), enc)
			if err != nil {
				t.Fatalf("Decode exported file: %v\n%s", err, buf.String())
			}

			dst := NewStore(setupTestDB(t))
			// Shift ids so remapping is actually exercised.
			_, _ = dst.Add(newTask("existing"))
			res, err := dst.Import(b)
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if res.Added != 2 || len(res.Warnings) != 0 {
				t.Fatalf("unexpected result %+v", res)
			}

			all, _ := dst.List(ListOptions{ShowDone: true})
			if len(all) != 3 {
				t.Fatalf("expected 3 tasks, got %d", len(all))
			}
			gotA, gotB := all[1], all[2]
			if !gotA.Done || gotB.Done {
				t.Errorf("done flags not preserved: %v %v", gotA.Done, gotB.Done)
			}
			if len(gotB.Dependencies) != 1 || gotB.Dependencies[0] != gotA.ID {
				t.Errorf("dependency not remapped: %v (a=%d)", gotB.Dependencies, gotA.ID)
			}
			if gotB.DueDate == nil || gotB.DueDate.Format(time.DateOnly) != "2026-04-02" || gotB.Notes != "note" {
				t.Errorf("fields lost: %+v", gotB)
			}
		})
	}
}

func TestImport_NormalizesAndWarns(t *testing.T) {
	s := NewStore(setupTestDB(t))
	b, err := Decode([]byte(`[
		{"id": "x", "importance": 42, "dependencies": ["y", "x"]},
		{"id": "y", "title": "fine", "estimated_hours": -4}
	]`), JSON)
	if err != nil {
		t.Fatal(err)
	}

	res, err := s.Import(b)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Added != 2 {
		t.Fatalf("expected 2 added, got %d", res.Added)
	}
	joined := strings.Join(res.Warnings, "\n")
	for _, want := range []string{"task 1: Missing title", "task 1: Importance above 10", "task 2: Invalid hours"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing warning %q in:\n%s", want, joined)
		}
	}

	all, _ := s.List(ListOptions{})
	if all[0].Importance != 10 || all[0].Title != "Untitled Task" {
		t.Errorf("unexpected first task %+v", all[0])
	}
	// The self reference is dropped; the reference to y is remapped.
	if len(all[0].Dependencies) != 1 || all[0].Dependencies[0] != all[1].ID {
		t.Errorf("unexpected dependencies %v", all[0].Dependencies)
	}
	if all[1].EstimatedHours != 4 {
		t.Errorf("expected hours 4, got %d", all[1].EstimatedHours)
	}
}

func TestImport_DropsUnknownDependencies(t *testing.T) {
	s := NewStore(setupTestDB(t))
	b := &Batch{Tasks: nil}
	b.Tasks = append(b.Tasks, map[string]any{"title": "a", "dependencies": []any{77.0}})

	res, err := s.Import(b)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "dependency 77 is not in the file") {
		t.Fatalf("unexpected warnings %v", res.Warnings)
	}
}

func TestImport_RejectsLongTitleAtomically(t *testing.T) {
	s := NewStore(setupTestDB(t))
	b := &Batch{}
	b.Tasks = append(b.Tasks,
		map[string]any{"title": "ok"},
		map[string]any{"title": strings.Repeat("x", 201)},
	)

	if _, err := s.Import(b); err == nil {
		t.Fatal("expected error for long title")
	}
	if open, _, _ := s.Count(); open != 0 {
		t.Fatalf("import should be all-or-nothing, found %d tasks", open)
	}
}

func TestParseDue(t *testing.T) {
	now := time.Date(2026, 2, 24, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want string
	}{
		{"today", "2026-02-24"},
		{"Tomorrow", "2026-02-25"},
		{"+7d", "2026-03-03"},
		{"2026-12-25", "2026-12-25"},
		{"12/25/2026", "2026-12-25"},
	}
	for _, tt := range tests {
		got, err := ParseDue(tt.in, now)
		if err != nil {
			t.Errorf("ParseDue(%q): %v", tt.in, err)
			continue
		}
		if got.Format(time.DateOnly) != tt.want {
			t.Errorf("ParseDue(%q): got %s, want %s", tt.in, got.Format(time.DateOnly), tt.want)
		}
	}
	for _, bad := range []string{"someday", "+xd", "2026-13-01"} {
		if _, err := ParseDue(bad, now); err == nil {
			t.Errorf("ParseDue(%q): expected error", bad)
		}
	}
}
