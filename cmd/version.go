package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/prio/internal/task"
	"github.com/rnwolfe/prio/internal/version"
)

var (
	versionShort bool
	versionJSON  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the prio version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build details as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

func runVersion(_ *cobra.Command, _ []string) error {
	switch {
	case versionJSON:
		return task.Encode(os.Stdout, version.Get(), task.JSON)
	case versionShort:
		fmt.Println(version.Short())
	default:
		fmt.Printf("prio %s\n", version.Full())
	}
	return nil
}
