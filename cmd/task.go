package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/task"
	"github.com/rnwolfe/prio/internal/ui"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"t", "tasks"},
	Short:   "Manage the tasks prio ranks",
	Long: `Add, complete, edit and remove tasks in the local store.

With no subcommand, lists open tasks. Use 'prio analyze' or 'prio suggest'
to rank them.`,
	RunE: runTaskList,
}

var (
	taskShowDone   bool
	taskDue        string
	taskClearDue   bool
	taskHours      int
	taskImportance int
	taskAfter      string
	taskNotes      string

	editTitle      string
	editDue        string
	editHours      int
	editImportance int
	editAfter      string
	editNotes      string
)

func init() {
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskUndoCmd)
	taskCmd.AddCommand(taskRmCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskImportCmd)
	taskCmd.AddCommand(taskExportCmd)

	taskCmd.Flags().BoolVar(&taskShowDone, "done", false, "Show completed tasks too")
	taskListCmd.Flags().BoolVar(&taskShowDone, "done", false, "Show completed tasks too")

	taskAddCmd.Flags().StringVarP(&taskDue, "due", "d", "", "Due date (YYYY-MM-DD, today, tomorrow, +3d)")
	taskAddCmd.Flags().IntVarP(&taskHours, "hours", "H", task.DefaultHours, "Estimated hours of work")
	taskAddCmd.Flags().IntVarP(&taskImportance, "importance", "i", task.DefaultImportance, "Importance from 1 to 10")
	taskAddCmd.Flags().StringVarP(&taskAfter, "after", "a", "", "Comma-separated ids this task depends on")
	taskAddCmd.Flags().StringVarP(&taskNotes, "notes", "n", "", "Free-form notes")

	taskEditCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	taskEditCmd.Flags().StringVarP(&editDue, "due", "d", "", "New due date")
	taskEditCmd.Flags().BoolVar(&taskClearDue, "clear-due", false, "Remove the due date")
	taskEditCmd.Flags().IntVarP(&editHours, "hours", "H", 0, "New estimated hours")
	taskEditCmd.Flags().IntVarP(&editImportance, "importance", "i", 0, "New importance")
	taskEditCmd.Flags().StringVarP(&editAfter, "after", "a", "", "Replace dependencies (comma-separated ids, \"none\" to clear)")
	taskEditCmd.Flags().StringVarP(&editNotes, "notes", "n", "", "Replace notes")
	taskEditCmd.MarkFlagsMutuallyExclusive("due", "clear-due")
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Capture a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks in the order they were added",
	Args:    cobra.NoArgs,
	RunE:    runTaskList,
}

func runTaskAdd(_ *cobra.Command, args []string) error {
	t := task.Task{
		Title:          strings.Join(args, " "),
		Notes:          taskNotes,
		EstimatedHours: taskHours,
		Importance:     taskImportance,
	}
	if taskDue != "" {
		due, err := task.ParseDue(taskDue, now())
		if err != nil {
			return err
		}
		t.DueDate = &due
	}
	deps, err := parseIDList(taskAfter)
	if err != nil {
		return err
	}
	t.Dependencies = deps

	db, ts, err := openTasks()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := ts.Add(t)
	if err != nil {
		return err
	}

	fmt.Printf("  %s Added %s\n", ui.Success.Render(ui.IconDone), ui.Accent.Render(fmt.Sprintf("#%d", id)))
	fmt.Printf("    %s\n", strings.TrimSpace(t.Title))
	return nil
}

func runTaskList(_ *cobra.Command, _ []string) error {
	db, ts, err := openTasks()
	if err != nil {
		return err
	}
	defer db.Close()

	tasks, err := ts.List(task.ListOptions{ShowDone: taskShowDone})
	if err != nil {
		return err
	}
	return printTaskList(tasks, ts)
}

func printTaskList(tasks []task.Task, ts *task.Store) error {
	if len(tasks) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  No tasks yet. Nothing to rank."))
		fmt.Println()
		fmt.Printf("  Add one: %s\n", ui.Accent.Render(`prio task add "something important"`))
		fmt.Println()
		return nil
	}

	today := now()
	fmt.Println()
	for _, t := range tasks {
		marker := " "
		if t.Done {
			marker = ui.Success.Render(ui.IconDone)
		}
		id := ui.Muted.Render(fmt.Sprintf("#%-3d", t.ID))
		meta := ui.Muted.Render(fmt.Sprintf("i%-2d %2dh", t.Importance, t.EstimatedHours))

		title := t.Title
		if t.Done {
			title = ui.Muted.Render(title)
		}
		line := fmt.Sprintf("  %s %s %s %s", marker, id, meta, title)

		if t.DueDate != nil && !t.Done {
			line += dueLabel(daysUntil(*t.DueDate, today), true)
		}
		if len(t.Dependencies) > 0 {
			refs := make([]string, len(t.Dependencies))
			for i, d := range t.Dependencies {
				refs[i] = fmt.Sprintf("#%d", d)
			}
			line += ui.Muted.Render(" after " + strings.Join(refs, ","))
		}
		fmt.Println(line)
	}

	open, done, err := ts.Count()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(ui.Muted.Render(fmt.Sprintf("  %d open %s %d done", open, ui.IconDot, done)))
	fmt.Println()
	return nil
}

// daysUntil counts calendar days from today to due.
func daysUntil(due, today time.Time) int64 {
	day := func(t time.Time) int64 {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
	}
	return day(due) - day(today)
}
