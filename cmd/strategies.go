package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/config"
	"github.com/rnwolfe/prio/internal/tui"
	"github.com/rnwolfe/prio/internal/ui"
)

var strategiesPick bool

var strategiesCmd = &cobra.Command{
	Use:     "strategies",
	Aliases: []string{"strategy"},
	Short:   "List the weight profiles used to combine factor scores",
	Long: `List the built-in and configured weight profiles. Each profile weighs the
urgency, importance, effort and dependency scores; weights sum to 1.

Add your own under [[strategies]] in the config file. Use --pick to choose
the default interactively.`,
	Args: cobra.NoArgs,
	RunE: runStrategies,
}

func init() {
	strategiesCmd.Flags().BoolVarP(&strategiesPick, "pick", "p", false, "Pick the default strategy interactively")
}

func runStrategies(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	set, err := cfg.StrategySet()
	if err != nil {
		return err
	}

	if strategiesPick {
		if !tui.IsTTY() {
			return fmt.Errorf("--pick needs an interactive terminal; use %s",
				ui.Accent.Render("prio config set rank.strategy <name>"))
		}
		name, err := tui.PickStrategy(set.All(), cfg.Rank.Strategy)
		if err != nil || name == "" {
			return err
		}
		cfg.Rank.Strategy = name
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		ui.Ok("Default strategy is now " + name)
		return nil
	}

	name := lipgloss.NewStyle().Width(17)
	num := lipgloss.NewStyle().Width(11)

	fmt.Println()
	fmt.Println(ui.Muted.Render("    " + name.Render("strategy") + num.Render("urgency") + num.Render("importance") +
		num.Render("effort") + num.Render("dependency")))
	for _, s := range set.All() {
		marker := "  "
		if s.Name == cfg.Rank.Strategy {
			marker = ui.Accent.Render(ui.IconArrow + " ")
		}
		w := s.Weights
		fmt.Printf("  %s%s%s%s%s%s\n", marker, ui.Accent.Render(name.Render(s.Name)),
			num.Render(fmt.Sprintf("%.2f", w.Urgency)), num.Render(fmt.Sprintf("%.2f", w.Importance)),
			num.Render(fmt.Sprintf("%.2f", w.Effort)), num.Render(fmt.Sprintf("%.2f", w.Dependency)))
		fmt.Println(ui.Muted.Render("    " + s.Description))
	}
	fmt.Println()
	ui.Tip(fmt.Sprintf("Change the default with %s", ui.Accent.Render("prio strategies --pick")))
	fmt.Println()
	return nil
}
