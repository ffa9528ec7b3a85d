package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/prio/internal/rank"
)

// prio's palette: a heat scale from cool to hot.
var (
	Gold     = lipgloss.Color("#FFD700")
	Amber    = lipgloss.Color("#FFBF00")
	Coral    = lipgloss.Color("#FF7F50")
	Ruby     = lipgloss.Color("#E0115F")
	Emerald  = lipgloss.Color("#50C878")
	Sapphire = lipgloss.Color("#0F52BA")
	Stone    = lipgloss.Color("#8B8680")
	Dim      = lipgloss.Color("#666666")
	Bright   = lipgloss.Color("#FFFFFF")

	// Semantic styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold)

	Success = lipgloss.NewStyle().
		Foreground(Emerald)

	Error = lipgloss.NewStyle().
		Foreground(Ruby)

	Warning = lipgloss.NewStyle().
		Foreground(Amber)

	Info = lipgloss.NewStyle().
		Foreground(Sapphire)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)

	// Component styles
	Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Stone).
		Padding(0, 1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)
)

var levelColors = map[rank.Level]lipgloss.Color{
	rank.LevelCritical: Ruby,
	rank.LevelHigh:     Coral,
	rank.LevelMedium:   Amber,
	rank.LevelLow:      Sapphire,
	rank.LevelMinimal:  Stone,
}

// LevelStyle returns the style used for a priority level.
func LevelStyle(l rank.Level) lipgloss.Style {
	c, ok := levelColors[l]
	if !ok {
		c = Dim
	}
	return lipgloss.NewStyle().Foreground(c).Bold(l == rank.LevelCritical)
}

// LevelBadge renders a level as a fixed-width tag.
func LevelBadge(l rank.Level) string {
	return LevelStyle(l).Width(8).Render(string(l))
}

const (
	IconDone  = "✓"
	IconWarn  = "⚠ "
	IconError = "✗ "
	IconOk    = "✓ "
	IconArrow = "→"
	IconDot   = "·"
)
