package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rnwolfe/prio/internal/config"
	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/store"
	"github.com/rnwolfe/prio/internal/task"
	"github.com/rnwolfe/prio/internal/ui"
)

// openTasks opens the local store. Callers close the returned DB.
func openTasks() (*store.DB, *task.Store, error) {
	db, err := store.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return db, task.NewStore(db.Conn()), nil
}

// newEngine builds an engine over the built-in and configured strategies.
func newEngine(cfg *config.Config) (*rank.Engine, error) {
	set, err := cfg.StrategySet()
	if err != nil {
		return nil, err
	}
	return rank.NewEngine(set), nil
}

// loadStrategies returns the strategies known to this installation.
func loadStrategies() (*rank.StrategySet, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg.StrategySet()
}

// parseID parses a task id argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid task id", s)
	}
	return id, nil
}

// parseIDList parses a comma-separated list of task ids.
func parseIDList(s string) ([]int, error) {
	var ids []int
	for _, part := range config.ParseList(s) {
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// dueLabel renders a due date annotation relative to today.
func dueLabel(days int64, ok bool) string {
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
	}
	return ui.Muted.Render(fmt.Sprintf(" (due in %dd)", days))
}
