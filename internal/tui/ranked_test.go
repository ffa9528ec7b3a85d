package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rnwolfe/prio/internal/rank"
)

var today = time.Date(2026, 2, 24, 12, 0, 0, 0, time.UTC)

func analyzed(t *testing.T, tasks ...rank.RawTask) rank.BatchResult {
	t.Helper()
	return rank.NewEngine(nil).Analyze(tasks, rank.Options{Today: today})
}

func sampleResult(t *testing.T) rank.BatchResult {
	return analyzed(t,
		rank.RawTask{"id": 1, "title": "write report", "due_date": "2026-02-20", "importance": 8, "estimated_hours": 3},
		rank.RawTask{"id": 2, "title": "fix login bug", "due_date": "2026-02-24", "importance": 9, "estimated_hours": 1},
		rank.RawTask{"id": 3, "title": "tidy backlog", "importance": 2, "estimated_hours": 6},
	)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewRankedModel_Defaults(t *testing.T) {
	m := NewRankedModel(sampleResult(t), false)
	if m.cursor != 0 || m.mode != rankedModeNormal {
		t.Fatalf("unexpected initial state cursor=%d mode=%d", m.cursor, m.mode)
	}
	if len(m.filtered) != 3 {
		t.Fatalf("all tasks should be visible, got %d", len(m.filtered))
	}
	sel, ok := m.Selected()
	if !ok || sel.Rank != 1 {
		t.Fatalf("expected top-ranked task selected, got %+v", sel)
	}
}

func TestRankedModel_Navigation(t *testing.T) {
	m := NewRankedModel(sampleResult(t), false)

	m.Update(key("j"))
	m.Update(key("j"))
	m.Update(key("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor should clamp at 2, got %d", m.cursor)
	}
	m.Update(key("k"))
	if m.cursor != 1 {
		t.Fatalf("cursor should be 1 after k, got %d", m.cursor)
	}
	m.Update(key("g"))
	if m.cursor != 0 {
		t.Fatalf("g should jump to top, got %d", m.cursor)
	}
	m.Update(key("G"))
	if m.cursor != 2 {
		t.Fatalf("G should jump to bottom, got %d", m.cursor)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 1 {
		t.Fatalf("up arrow should move up, got %d", m.cursor)
	}
}

func TestRankedModel_Filter(t *testing.T) {
	m := NewRankedModel(sampleResult(t), false)

	m.Update(key("/"))
	if m.mode != rankedModeFilter {
		t.Fatal("/ should enter filter mode")
	}
	for _, r := range "bug" {
		m.Update(key(string(r)))
	}
	if len(m.filtered) != 1 || m.filtered[0].Title != "fix login bug" {
		t.Fatalf("filter 'bug' should leave one task, got %d", len(m.filtered))
	}
	if !strings.Contains(m.View(), `filter: "bug"`) {
		t.Error("view should show the active filter")
	}

	m.Update(key("backspace"))
	if m.filter != "bu" {
		t.Fatalf("backspace should trim filter, got %q", m.filter)
	}

	m.Update(key("esc"))
	if m.mode != rankedModeNormal || m.filter != "" || len(m.filtered) != 3 {
		t.Fatalf("esc should clear the filter, got mode=%d filter=%q shown=%d", m.mode, m.filter, len(m.filtered))
	}
}

func TestRankedModel_DetailView(t *testing.T) {
	m := NewRankedModel(sampleResult(t), false)

	m.Update(key("enter"))
	if m.mode != rankedModeDetail {
		t.Fatal("enter should open details")
	}
	sel, _ := m.Selected()
	view := m.View()
	for _, want := range []string{sel.Title, "urgency", "dependency", sel.Explanations.Importance, rank.Advice(sel)} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(key("q"))
	if m.mode != rankedModeNormal || cmd != nil {
		t.Fatal("q in details should go back, not quit")
	}
	_, cmd = m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q in the list should quit")
	}
}

func TestRankedModel_MarkDone(t *testing.T) {
	m := NewRankedModel(sampleResult(t), true)
	top, _ := m.Selected()

	m.Update(key("x"))
	if len(m.Actions) != 1 || m.Actions[0].Type != "done" || m.Actions[0].ID != top.ID {
		t.Fatalf("unexpected actions %+v", m.Actions)
	}
	if len(m.filtered) != 2 {
		t.Fatalf("done task should leave the list, got %d", len(m.filtered))
	}

	m.Update(key("G"))
	m.Update(key("x"))
	if m.cursor != 0 || len(m.filtered) != 1 {
		t.Fatalf("cursor should follow the shrinking list, got cursor=%d shown=%d", m.cursor, len(m.filtered))
	}
}

func TestRankedModel_ReadOnly(t *testing.T) {
	m := NewRankedModel(sampleResult(t), false)
	m.Update(key("x"))
	if len(m.Actions) != 0 || len(m.filtered) != 3 {
		t.Fatal("read-only browser should ignore x")
	}

	// String ids from a task file have no stored row.
	m = NewRankedModel(analyzed(t, rank.RawTask{"id": "a", "title": "from file"}), true)
	m.Update(key("x"))
	if len(m.Actions) != 0 {
		t.Fatalf("string ids should not produce actions, got %+v", m.Actions)
	}
}

func TestRankedModel_View(t *testing.T) {
	m := NewRankedModel(sampleResult(t), true)
	view := m.View()
	for _, want := range []string{"Ranked tasks", "smart_balance", "CRITICAL", "write report", "overdue 4d", "due today!", "3/3 shown", "x done"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	cyclic := analyzed(t,
		rank.RawTask{"id": 1, "title": "a", "dependencies": []any{2}},
		rank.RawTask{"id": 2, "title": "b", "dependencies": []any{1}},
	)
	if view := NewRankedModel(cyclic, false).View(); !strings.Contains(view, "1 dependency cycle(s)") {
		t.Errorf("view should report the cycle:\n%s", view)
	}

	if view := NewRankedModel(rank.BatchResult{}, false).View(); !strings.Contains(view, "Nothing to rank.") {
		t.Errorf("empty view missing placeholder:\n%s", view)
	}
}

func TestRankedModel_WindowSize(t *testing.T) {
	m := NewRankedModel(sampleResult(t), false)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Fatalf("expected 120x40, got %dx%d", m.width, m.height)
	}
}

func TestStoreID(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{7, 7, true},
		{int64(8), 8, true},
		{9.0, 9, true},
		{9.5, 0, false},
		{"9", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := storeID(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("storeID(%v) = %d, %v", tt.in, got, ok)
		}
	}
}
