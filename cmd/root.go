package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/config"
	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/tips"
	"github.com/rnwolfe/prio/internal/ui"
	"github.com/rnwolfe/prio/internal/version"
)

// now is the reference clock for due dates and urgency.
var now = time.Now

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "prio",
	Short: "Rank your tasks and know what to do next",
	Long: `prio scores tasks by urgency, importance, effort and dependencies,
then tells you what to work on and why.

Keep tasks in the local store with 'prio task', or rank a JSON/YAML file
with 'prio analyze --file'. 'prio serve' and 'prio mcp' expose the same
engine over HTTP and MCP.`,
	RunE: runStatus,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		configureColor()
	},
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// configureColor applies --no-color, NO_COLOR and ui.color. A config that
// fails to load leaves color on so `prio config` can still repair it.
func configureColor() {
	enabled := !noColor
	if cfg, err := config.Load(); err == nil {
		enabled = enabled && cfg.UI.ColorEnabled()
	}
	ui.SetColor(ui.ColorWanted(enabled))
}

// runStatus shows the at-a-glance state when you just type `prio`.
func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	db, ts, err := openTasks()
	if err != nil {
		return err
	}
	defer db.Close()

	open, done, err := ts.Count()
	if err != nil {
		return fmt.Errorf("counting tasks: %w", err)
	}

	fmt.Println()
	summary := fmt.Sprintf("%d open", open)
	if done > 0 {
		summary += fmt.Sprintf(" / %d done", done)
	}

	if open == 0 {
		ui.Kv("Tasks", summary)
		ui.Kv("Strategy", cfg.Rank.Strategy)
		ui.Tip("`prio task add \"something important\"` to capture a task.")
		fmt.Println()
		return nil
	}

	tasks, completed, err := ts.Batch()
	if err != nil {
		return err
	}
	result := engine.Suggest(tasks, 1, rankOptions(cfg.Rank.Strategy, completed))
	if n := result.Summary.OverdueCount; n > 0 {
		summary += ui.Error.Render(fmt.Sprintf(" (%d overdue!)", n))
	}
	ui.Kv("Tasks", summary)
	ui.Kv("Strategy", cfg.Rank.Strategy)
	ui.Kv("Today", now().Format("Monday, January 2"))
	ui.Kv("prio", version.Short())

	top := result.Suggestions[0]
	fmt.Println()
	fmt.Printf("  %s %s %s\n", ui.Muted.Render("Next up:"), ui.LevelBadge(top.PriorityLevel), ui.Accent.Render(top.Title))
	fmt.Println(ui.Muted.Render("  " + result.Message))

	ui.Tip(tips.Daily(now()))
	fmt.Println()
	return nil
}

// rankOptions builds engine options against the command clock.
func rankOptions(strategy string, completed []any) rank.Options {
	return rank.Options{Strategy: strategy, Completed: completed, Today: now()}
}
