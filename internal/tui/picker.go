package tui

import (
	"fmt"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/ui"
)

// Item is a row the picker can filter and select.
type Item interface {
	// FilterValue returns the string used for fuzzy matching.
	FilterValue() string
	Title() string
	// Description returns optional secondary text.
	Description() string
}

// Picker is a fuzzy-search list selector built on Bubbletea.
type Picker struct {
	title string

	items    []Item
	filtered []scored
	query    string
	cursor   int
	offset   int
	chosen   Item
	canceled bool

	termHeight int
}

type scored struct {
	item  Item
	score int
}

// NewPicker creates a Picker over items with an optional heading. The cursor
// starts on the first item whose FilterValue equals initial.
func NewPicker(title string, items []Item, initial string) *Picker {
	p := &Picker{
		title:      title,
		items:      items,
		termHeight: 24,
	}
	p.applyFilter()
	for i, s := range p.filtered {
		if s.item.FilterValue() == initial {
			p.cursor = i
			p.offset = max(0, i-p.visibleHeight()+1)
			break
		}
	}
	return p
}

// Pick shows a picker and returns the selected item, or nil if the user
// canceled.
func Pick(title string, items []Item, initial string) (Item, error) {
	p := NewPicker(title, items, initial)
	m, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	result := m.(*Picker)
	if result.canceled {
		return nil, nil
	}
	return result.chosen, nil
}

// StrategyItem presents a scoring profile in the picker.
type StrategyItem struct {
	rank.Strategy
}

func (s StrategyItem) FilterValue() string { return s.Name }
func (s StrategyItem) Title() string       { return s.Name }
func (s StrategyItem) Description() string {
	w := s.Weights
	return fmt.Sprintf("u%.2f i%.2f e%.2f d%.2f  %s", w.Urgency, w.Importance, w.Effort, w.Dependency, s.Strategy.Description)
}

// PickStrategy lets the user choose one of strategies. Returns "" if canceled.
func PickStrategy(strategies []rank.Strategy, current string) (string, error) {
	items := make([]Item, len(strategies))
	for i, s := range strategies {
		items[i] = StrategyItem{s}
	}
	chosen, err := Pick("Pick a default strategy", items, current)
	if err != nil || chosen == nil {
		return "", err
	}
	return chosen.FilterValue(), nil
}

// IsTTY returns true when stdin is connected to a terminal.
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func (p *Picker) Init() tea.Cmd {
	return nil
}

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.termHeight = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			p.canceled = true
			return p, tea.Quit

		case "enter":
			if len(p.filtered) > 0 {
				p.chosen = p.filtered[p.cursor].item
			}
			return p, tea.Quit

		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
				p.offset = min(p.offset, p.cursor)
			}

		case "down", "ctrl+n":
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
				if vis := p.visibleHeight(); p.cursor >= p.offset+vis {
					p.offset = p.cursor - vis + 1
				}
			}

		case "backspace":
			if r := []rune(p.query); len(r) > 0 {
				p.query = string(r[:len(r)-1])
				p.applyFilter()
			}

		default:
			if len(msg.Runes) > 0 {
				p.query += string(msg.Runes)
				p.applyFilter()
			}
		}
	}
	return p, nil
}

func (p *Picker) View() string {
	var b strings.Builder

	if p.title != "" {
		b.WriteString("  " + ui.Title.Render(p.title) + "\n\n")
	}

	prompt := lipgloss.NewStyle().Foreground(ui.Gold).Bold(true).Render("> ")
	b.WriteString("  " + prompt + p.query + blinkCursor() + "\n\n")

	if len(p.filtered) == 0 {
		b.WriteString("  " + ui.Muted.Render("No matches") + "\n")
	} else {
		end := min(p.offset+p.visibleHeight(), len(p.filtered))
		for i := p.offset; i < end; i++ {
			b.WriteString(renderItem(p.filtered[i].item, i == p.cursor) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(ui.Muted.Render(fmt.Sprintf("  %d/%d · ↑↓ navigate · enter select · esc cancel", len(p.filtered), len(p.items))) + "\n")
	return b.String()
}

func (p *Picker) visibleHeight() int {
	return max(min(10, p.termHeight-6), 3)
}

// applyFilter keeps items matching the query, best match first. Ties keep
// their original order.
func (p *Picker) applyFilter() {
	p.filtered = p.filtered[:0]
	for _, item := range p.items {
		if ok, sc := FuzzyMatch(p.query, item.FilterValue()); ok {
			p.filtered = append(p.filtered, scored{item: item, score: sc})
		}
	}
	slices.SortStableFunc(p.filtered, func(a, b scored) int { return b.score - a.score })
	p.cursor = 0
	p.offset = 0
}

func renderItem(item Item, selected bool) string {
	pointer := "  "
	titleStyle := lipgloss.NewStyle()
	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		titleStyle = lipgloss.NewStyle().Foreground(ui.Gold).Bold(true)
	}

	line := "  " + pointer + titleStyle.Render(item.Title())
	if desc := item.Description(); desc != "" {
		line += "  " + ui.Muted.Render(desc)
	}
	return line
}

func blinkCursor() string {
	return lipgloss.NewStyle().Foreground(ui.Gold).Render("▎")
}
