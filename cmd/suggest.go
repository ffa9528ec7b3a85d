package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/config"
	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/task"
	"github.com/rnwolfe/prio/internal/ui"
)

var (
	suggestFile     string
	suggestStrategy = &strategyValue{}
	suggestFormat   = newFormatValue(formatText, formatText, formatJSON, formatYAML)
)

var suggestCmd = &cobra.Command{
	Use:     "suggest [n]",
	Aliases: []string{"next", "s"},
	Short:   "What should you work on? The top n tasks and why",
	Long: `Rank tasks and show the top n (default from rank.suggest_count, max 10)
with the reasons behind each pick and advice on how to approach it.

Reads the store unless --file names a JSON or YAML task file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestFile, "file", "f", "", "Suggest from a JSON/YAML file instead of the store")
	suggestCmd.Flags().VarP(suggestStrategy, "strategy", "s", "Weight profile (see 'prio strategies')")
	suggestCmd.Flags().Var(suggestFormat, "format", "Output format: text, json, yaml")
}

func runSuggest(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	count := cfg.Rank.SuggestCount
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > rank.MaxSuggestions {
			return fmt.Errorf("%q is not a valid count; use 1 to %d", args[0], rank.MaxSuggestions)
		}
		count = n
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	in, err := loadInput(cfg, engine, suggestFile, suggestStrategy.name)
	if err != nil {
		return err
	}
	defer in.Close()

	result := engine.Suggest(in.tasks, count, rankOptions(in.strategy, in.completed))

	if suggestFormat.format != formatText {
		return task.Encode(os.Stdout, result, suggestFormat.encoding())
	}
	printSuggestions(result)
	return nil
}

func printSuggestions(result rank.SuggestionResult) {
	fmt.Println()
	if len(result.Suggestions) == 0 {
		fmt.Println(ui.Success.Render("  " + result.Message))
		fmt.Println()
		fmt.Printf("  Add a task: %s\n", ui.Accent.Render(`prio task add "something important"`))
		fmt.Println()
		return
	}

	fmt.Println(ui.Title.Render("  " + result.Message))
	fmt.Println()

	width := min(ui.Width()-4, 78)
	for _, s := range result.Suggestions {
		var body strings.Builder
		head := fmt.Sprintf("%s %s", ui.Muted.Render(fmt.Sprintf("%d.", s.SuggestionRank)), ui.Accent.Render(s.Title))
		if s.ID != nil {
			head += ui.Muted.Render(fmt.Sprintf(" #%v", s.ID))
		}
		body.WriteString(head + dueLabel(s.DueIn()) + "\n")
		body.WriteString(fmt.Sprintf("%s %.2f %s\n", ui.LevelBadge(s.PriorityLevel), s.Score, ui.ScoreBar(s.Score, 10)))
		for _, why := range s.Why {
			body.WriteString(ui.Muted.Render(ui.IconDot+" "+why) + "\n")
		}
		body.WriteString(ui.Info.Render(ui.IconArrow + " " + s.Action))

		card := ui.Card.Width(width).Render(body.String())
		for _, line := range strings.Split(card, "\n") {
			fmt.Println("  " + line)
		}
	}
	fmt.Println()

	if result.AllTasksAnalyzed > len(result.Suggestions) {
		rest := result.AllTasksAnalyzed - len(result.Suggestions)
		fmt.Println(ui.Muted.Render(fmt.Sprintf("  %d more task(s) ranked. `prio analyze` shows them all.", rest)))
		fmt.Println()
	}
}
