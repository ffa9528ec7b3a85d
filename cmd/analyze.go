package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/config"
	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/store"
	"github.com/rnwolfe/prio/internal/task"
	"github.com/rnwolfe/prio/internal/tui"
	"github.com/rnwolfe/prio/internal/ui"
)

var (
	analyzeFile     string
	analyzeStrategy = &strategyValue{}
	analyzeFormat   = newFormatValue(formatText, formatText, formatJSON, formatYAML)
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Aliases: []string{"rank", "a"},
	Short:   "Rank tasks and explain every score",
	Long: `Score and rank tasks by urgency, importance, effort and dependencies.

Ranks the open tasks in the store unless --file names a JSON or YAML task
file (- reads JSON from stdin). Done tasks count as met dependencies.

In an interactive terminal the ranking opens in a browser:
  j / k        Move down / up
  enter        Show the score breakdown
  x            Mark the task done (store only)
  /            Filter by title (fuzzy search)
  g / G        Jump to top / bottom
  q / Ctrl+C   Quit`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Rank tasks from a JSON/YAML file instead of the store")
	analyzeCmd.Flags().VarP(analyzeStrategy, "strategy", "s", "Weight profile (see 'prio strategies')")
	analyzeCmd.Flags().Var(analyzeFormat, "format", "Output format: text, json, yaml")
}

// rankInput is a batch ready for the engine along with where it came from.
type rankInput struct {
	tasks     []rank.RawTask
	completed []any
	strategy  string

	// db and store are set when the batch came from the local store.
	db    *store.DB
	store *task.Store
}

func (in *rankInput) Close() {
	if in.db != nil {
		in.db.Close()
	}
}

// loadInput reads the batch from file, or from the store when file is empty.
// The strategy comes from the flag, then the file, then the config.
func loadInput(cfg *config.Config, engine *rank.Engine, file, strategy string) (*rankInput, error) {
	in := &rankInput{strategy: cfg.Rank.Strategy}
	if file != "" {
		b, err := task.LoadFile(file)
		if err != nil {
			return nil, err
		}
		in.tasks, in.completed = b.Tasks, b.CompletedIDs
		if b.Strategy != "" {
			if !engine.Strategies().Has(b.Strategy) {
				return nil, fmt.Errorf("%s: unknown strategy %q (valid: %s)",
					file, b.Strategy, strings.Join(engine.Strategies().Names(), ", "))
			}
			in.strategy = b.Strategy
		}
	} else {
		db, ts, err := openTasks()
		if err != nil {
			return nil, err
		}
		in.db, in.store = db, ts
		if in.tasks, in.completed, err = ts.Batch(); err != nil {
			db.Close()
			return nil, err
		}
	}
	if strategy != "" {
		in.strategy = strategy
	}
	return in, nil
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	in, err := loadInput(cfg, engine, analyzeFile, analyzeStrategy.name)
	if err != nil {
		return err
	}
	defer in.Close()

	result := engine.Analyze(in.tasks, rankOptions(in.strategy, in.completed))

	if analyzeFormat.format != formatText {
		return task.Encode(os.Stdout, result, analyzeFormat.encoding())
	}
	if len(result.Tasks) > 0 && tui.IsTTY() && ui.IsStdoutTTY() {
		return runRankedTUI(in.store, result)
	}
	printRanked(result)
	return nil
}

func runRankedTUI(ts *task.Store, result rank.BatchResult) error {
	actions, err := tui.RunRanked(result, ts != nil)
	if err != nil {
		return err
	}

	var failedActions []string
	for _, a := range actions {
		switch a.Type {
		case "done":
			if err := ts.Complete(a.ID); err != nil {
				failedActions = append(failedActions, fmt.Sprintf("done #%d: %v", a.ID, err))
			}
		}
	}

	if len(failedActions) > 0 {
		fmt.Println(ui.Warning.Render("Some actions failed:"))
		for _, msg := range failedActions {
			fmt.Println("  " + msg)
		}
	}
	return nil
}

func printRanked(result rank.BatchResult) {
	if len(result.Tasks) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  Nothing to rank."))
		fmt.Println()
		fmt.Printf("  Add a task: %s\n", ui.Accent.Render(`prio task add "something important"`))
		fmt.Println()
		return
	}

	width := ui.Width()
	fmt.Println()
	for _, t := range result.Tasks {
		pos := ui.Muted.Render(fmt.Sprintf("%2d.", t.Rank))
		prefix := fmt.Sprintf("  %s %s %6.2f %s ", pos, ui.LevelBadge(t.PriorityLevel), t.Score, ui.ScoreBar(t.Score, 10))
		due := dueLabel(t.DueIn())
		id := ""
		if t.ID != nil {
			id = ui.Muted.Render(fmt.Sprintf(" #%v", t.ID))
		}
		room := width - lipgloss.Width(prefix) - lipgloss.Width(due) - lipgloss.Width(id)
		fmt.Println(prefix + ui.Truncate(t.Title, max(room, 10)) + id + due)
		for _, w := range t.Warnings {
			fmt.Println(ui.Muted.Render("      " + ui.IconWarn + w))
		}
	}

	for _, w := range result.Warnings {
		fmt.Println()
		ui.Warn(w.Message)
	}

	s := result.Summary
	fmt.Println()
	counts := make([]string, 0, len(rank.Levels()))
	for _, l := range rank.Levels() {
		if n := s.ByPriority[l]; n > 0 {
			counts = append(counts, ui.LevelStyle(l).Render(fmt.Sprintf("%d %s", n, strings.ToLower(string(l)))))
		}
	}
	line := fmt.Sprintf("  %d tasks %s %s", s.Total, ui.IconDot, strings.Join(counts, ui.Muted.Render(" "+ui.IconDot+" ")))
	if s.OverdueCount > 0 {
		line += ui.Error.Render(fmt.Sprintf(" %s %d overdue", ui.IconDot, s.OverdueCount))
	}
	fmt.Println(line)
	fmt.Println(ui.Muted.Render(fmt.Sprintf("  strategy: %s (%s)", s.Strategy, s.StrategyDescription)))
	fmt.Println()
}
