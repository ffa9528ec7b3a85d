package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is assumed when the terminal size is unknown.
const DefaultWidth = 80

// IsStdoutTTY returns true when stdout is connected to a terminal.
func IsStdoutTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Width returns the terminal width of stdout, or DefaultWidth.
func Width() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// ColorWanted reports whether colored output should be used given the
// config setting. NO_COLOR in the environment always wins.
func ColorWanted(configured bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return configured
}

// SetColor turns styled output on or off for the whole process. Turning it
// on keeps whatever profile lipgloss detected for the terminal.
func SetColor(enabled bool) {
	if !enabled {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Truncate shortens s to at most n display cells, marking the cut with an
// ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
