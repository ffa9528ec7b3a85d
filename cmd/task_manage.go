package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/task"
	"github.com/rnwolfe/prio/internal/ui"
)

var taskDoneCmd = &cobra.Command{
	Use:     "done <id>",
	Aliases: []string{"do", "complete", "x"},
	Short:   "Mark a task complete",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDone,
}

var taskUndoCmd = &cobra.Command{
	Use:     "undo <id>",
	Aliases: []string{"reopen"},
	Short:   "Reopen a completed task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskUndo,
}

var taskRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a task and drop it from other tasks' dependencies",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a task's title, due date, effort, importance or dependencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

func runTaskDone(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	db, ts, err := openTasks()
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := ts.Get(id)
	if err != nil {
		return err
	}
	if err := ts.Complete(id); err != nil {
		return err
	}

	fmt.Printf("  %s Done! %s\n", ui.Success.Render(ui.IconDone), ui.Muted.Render(t.Title))
	return nil
}

func runTaskUndo(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	db, ts, err := openTasks()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ts.Uncomplete(id); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Reopened #%d", id))
	return nil
}

func runTaskRm(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	db, ts, err := openTasks()
	if err != nil {
		return err
	}
	defer db.Close()

	unlinked, err := ts.Delete(id)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Removed #%d", id))
	if unlinked > 0 {
		ui.Inf(fmt.Sprintf("Dropped it from %d other task(s)' dependencies", unlinked))
	}
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var p task.Patch
	flags := cmd.Flags()
	if flags.Changed("title") {
		p.Title = &editTitle
	}
	if flags.Changed("notes") {
		p.Notes = &editNotes
	}
	if flags.Changed("due") {
		due, err := task.ParseDue(editDue, now())
		if err != nil {
			return err
		}
		p.DueDate = &due
	}
	p.ClearDue = taskClearDue
	if flags.Changed("hours") {
		p.EstimatedHours = &editHours
	}
	if flags.Changed("importance") {
		p.Importance = &editImportance
	}
	if flags.Changed("after") {
		deps := []int{}
		if !strings.EqualFold(strings.TrimSpace(editAfter), "none") {
			if deps, err = parseIDList(editAfter); err != nil {
				return err
			}
		}
		p.Dependencies = &deps
	}
	if p == (task.Patch{}) {
		return fmt.Errorf("nothing to change; see %s", ui.Accent.Render("prio task edit --help"))
	}

	db, ts, err := openTasks()
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := ts.Edit(id, p)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Updated #%d", t.ID))
	fmt.Printf("    %s\n", t.Title)
	return nil
}
