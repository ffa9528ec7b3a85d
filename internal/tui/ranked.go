package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/ui"
)

// RankAction represents an action taken in the ranked browser.
type RankAction struct {
	Type string // "done"
	ID   int
}

// RankedModel is an interactive Bubbletea model for browsing a ranked batch.
type RankedModel struct {
	result   rank.BatchResult
	tasks    []rank.ScoredTask
	filtered []rank.ScoredTask
	cursor   int
	filter   string
	mode     rankedMode

	// editable allows marking stored tasks done from the browser.
	editable bool

	width  int
	height int

	// pending actions to apply after quitting
	Actions []RankAction
}

type rankedMode int

const (
	rankedModeNormal rankedMode = iota
	rankedModeFilter
	rankedModeDetail
)

// NewRankedModel creates a browser over an analysis result. When editable is
// true, tasks with store ids can be marked done.
func NewRankedModel(result rank.BatchResult, editable bool) *RankedModel {
	m := &RankedModel{
		result:   result,
		tasks:    append([]rank.ScoredTask(nil), result.Tasks...),
		editable: editable,
		width:    ui.DefaultWidth,
		height:   24,
	}
	m.applyFilter()
	return m
}

// RunRanked launches the ranked browser. Returns actions for the caller to apply.
func RunRanked(result rank.BatchResult, editable bool) ([]RankAction, error) {
	m := NewRankedModel(result, editable)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("ranked tui: %w", err)
	}
	return final.(*RankedModel).Actions, nil
}

func (m *RankedModel) Init() tea.Cmd {
	return nil
}

func (m *RankedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case rankedModeFilter:
			return m.handleFilterKey(msg)
		case rankedModeDetail:
			return m.handleDetailKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

// Selected returns the task under the cursor.
func (m *RankedModel) Selected() (rank.ScoredTask, bool) {
	if len(m.filtered) == 0 {
		return rank.ScoredTask{}, false
	}
	return m.filtered[m.cursor], true
}

func (m *RankedModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "g":
		m.cursor = 0

	case "G":
		if len(m.filtered) > 0 {
			m.cursor = len(m.filtered) - 1
		}

	case "enter", "l", "right":
		if len(m.filtered) > 0 {
			m.mode = rankedModeDetail
		}

	case "x":
		m.markDone()

	case "/":
		m.mode = rankedModeFilter
		m.filter = ""
		m.applyFilter()
		m.cursor = 0
	}
	return m, nil
}

func (m *RankedModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q", "enter", "h", "left":
		m.mode = rankedModeNormal
	case "x":
		m.markDone()
		m.mode = rankedModeNormal
	}
	return m, nil
}

func (m *RankedModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = rankedModeNormal
		m.filter = ""
		m.applyFilter()
		m.cursor = 0

	case "enter":
		m.mode = rankedModeNormal

	case "backspace":
		if len(m.filter) > 0 {
			runes := []rune(m.filter)
			m.filter = string(runes[:len(runes)-1])
			m.applyFilter()
			m.cursor = 0
		}

	default:
		if len(msg.Runes) > 0 {
			m.filter += string(msg.Runes)
			m.applyFilter()
			m.cursor = 0
		}
	}
	return m, nil
}

// markDone records a done action for the selected task and drops it from the
// list. Rankings are not recomputed until the next run.
func (m *RankedModel) markDone() {
	if !m.editable || len(m.filtered) == 0 {
		return
	}
	id, ok := storeID(m.filtered[m.cursor].ID)
	if !ok {
		return
	}
	m.Actions = append(m.Actions, RankAction{Type: "done", ID: id})
	for i, t := range m.tasks {
		if sid, ok := storeID(t.ID); ok && sid == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			break
		}
	}
	m.applyFilter()
	if m.cursor >= len(m.filtered) && m.cursor > 0 {
		m.cursor = len(m.filtered) - 1
	}
}

func (m *RankedModel) applyFilter() {
	m.filtered = nil
	for _, t := range m.tasks {
		if ok, _ := FuzzyMatch(m.filter, t.Title); ok {
			m.filtered = append(m.filtered, t)
		}
	}
}

func (m *RankedModel) View() string {
	if m.mode == rankedModeDetail {
		if t, ok := m.Selected(); ok {
			return m.detailView(t)
		}
	}

	var b strings.Builder

	header := ui.Title.Render("  Ranked tasks")
	header += ui.Muted.Render("  " + m.result.Summary.Strategy)
	if m.filter != "" {
		header += ui.Muted.Render(fmt.Sprintf("  filter: %q", m.filter))
	}
	b.WriteString(header + "\n\n")

	visHeight := max(m.height-9, 3)
	offset := 0
	if m.cursor >= visHeight {
		offset = m.cursor - visHeight + 1
	}

	if len(m.filtered) == 0 {
		if m.filter != "" {
			b.WriteString("  " + ui.Muted.Render("No matches. Press esc to clear filter.") + "\n")
		} else {
			b.WriteString("  " + ui.Muted.Render("Nothing to rank.") + "\n")
		}
	} else {
		end := min(offset+visHeight, len(m.filtered))
		for i := offset; i < end; i++ {
			b.WriteString(m.renderRow(m.filtered[i], i == m.cursor) + "\n")
		}
	}

	b.WriteString("\n")
	if m.mode == rankedModeFilter {
		prompt := lipgloss.NewStyle().Foreground(ui.Gold).Bold(true).Render("/")
		b.WriteString("  " + prompt + " " + m.filter + blinkCursor() + "\n")
	} else if n := len(m.result.Warnings); n > 0 {
		b.WriteString("  " + ui.Warning.Render(fmt.Sprintf("%s%d dependency cycle(s) detected", ui.IconWarn, n)) + "\n")
	} else {
		b.WriteString("\n")
	}

	s := m.result.Summary
	b.WriteString(ui.Muted.Render(fmt.Sprintf("  %d/%d shown · %d critical · %d high · %d overdue",
		len(m.filtered), len(m.tasks), s.CriticalCount, s.HighCount, s.OverdueCount)) + "\n")

	var help string
	switch {
	case m.mode == rankedModeFilter:
		help = "  esc clear · enter confirm"
	case m.editable:
		help = "  j/k move · enter details · x done · / filter · q quit"
	default:
		help = "  j/k move · enter details · / filter · q quit"
	}
	b.WriteString(ui.Muted.Render(help) + "\n")

	return b.String()
}

func (m *RankedModel) renderRow(t rank.ScoredTask, selected bool) string {
	pointer := "  "
	titleStyle := lipgloss.NewStyle()
	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		titleStyle = lipgloss.NewStyle().Foreground(ui.Gold).Bold(true)
	}

	pos := ui.Muted.Render(fmt.Sprintf("%2d.", t.Rank))
	score := fmt.Sprintf("%6.2f", t.Score)
	prefix := fmt.Sprintf("  %s %s %s %s %s ", pointer, pos, ui.LevelBadge(t.PriorityLevel), score, ui.ScoreBar(t.Score, 10))

	due := dueNote(t)
	room := m.width - lipgloss.Width(prefix) - lipgloss.Width(due)
	return prefix + titleStyle.Render(ui.Truncate(t.Title, max(room, 10))) + due
}

func (m *RankedModel) detailView(t rank.ScoredTask) string {
	var b strings.Builder

	b.WriteString("  " + ui.Title.Render(fmt.Sprintf("#%d %s", t.Rank, t.Title)) + "\n\n")
	b.WriteString(fmt.Sprintf("  %s %.2f%s\n\n", ui.LevelBadge(t.PriorityLevel), t.Score, dueNote(t)))

	factor := func(name string, score float64, why string) {
		key := ui.KeyStyle.Render(fmt.Sprintf("  %-11s", name))
		b.WriteString(fmt.Sprintf("%s %s %6.2f  %s\n", key, ui.ScoreBar(score, 20), score, ui.Muted.Render(why)))
	}
	factor("urgency", t.Breakdown.Urgency, t.Explanations.Urgency)
	factor("importance", t.Breakdown.Importance, t.Explanations.Importance)
	factor("effort", t.Breakdown.Effort, t.Explanations.Effort)
	factor("dependency", t.Breakdown.Dependency, t.Explanations.Dependency)

	b.WriteString("\n  " + ui.Info.Render(rank.Advice(t)) + "\n")
	for _, w := range t.Warnings {
		b.WriteString("  " + ui.Warning.Render(ui.IconWarn+w) + "\n")
	}

	help := "  esc back"
	if m.editable {
		help += " · x done"
	}
	b.WriteString("\n" + ui.Muted.Render(help) + "\n")
	return b.String()
}

func dueNote(t rank.ScoredTask) string {
	days, ok := t.DueIn()
	if !ok {
		return ""
	}
	switch {
	case days < 0:
		return ui.Error.Render(fmt.Sprintf(" (overdue %dd)", -days))
	case days == 0:
		return ui.Warning.Render(" (due today!)")
	case days == 1:
		return ui.Warning.Render(" (due tomorrow)")
	default:
		return ui.Muted.Render(fmt.Sprintf(" (due in %dd)", days))
	}
}

// storeID extracts a store row id from a scored task id. Tasks loaded from
// files may carry string ids, which have no stored row.
func storeID(id any) (int, bool) {
	switch v := id.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}
