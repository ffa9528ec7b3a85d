package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/task"
	"github.com/rnwolfe/prio/internal/ui"
)

var exportFormat = newFormatValue(formatJSON, formatJSON, formatYAML)

var taskImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add tasks from a JSON or YAML file",
	Long: `Add every task in a JSON or YAML file to the store. The file holds a list
of tasks or an object with a "tasks" list, the same shapes 'prio analyze
--file' and the HTTP API accept. Use - to read JSON from standard input.

Ids in the file are only used to link dependencies; imported tasks get new
ids. Out-of-range values are corrected with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskImport,
}

var taskExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all tasks to stdout as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE:  runTaskExport,
}

func init() {
	taskExportCmd.Flags().VarP(exportFormat, "format", "f", "Output format: json, yaml")
}

func runTaskImport(_ *cobra.Command, args []string) error {
	b, err := task.LoadFile(args[0])
	if err != nil {
		return err
	}
	if len(b.Tasks) == 0 {
		ui.Warn(fmt.Sprintf("No tasks in %s", args[0]))
		return nil
	}

	db, ts, err := openTasks()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := ts.Import(b)
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	for _, w := range res.Warnings {
		ui.Warn(w)
	}
	ui.Ok(fmt.Sprintf("Imported %d task(s)", res.Added))
	return nil
}

func runTaskExport(_ *cobra.Command, _ []string) error {
	db, ts, err := openTasks()
	if err != nil {
		return err
	}
	defer db.Close()

	tasks, err := ts.List(task.ListOptions{ShowDone: true})
	if err != nil {
		return err
	}
	return task.Export(os.Stdout, tasks, exportFormat.encoding())
}
