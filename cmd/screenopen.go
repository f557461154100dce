package cmd

import (
	"github.com/huangsam/taskrecon/core"
	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/internal/outwriter"
	"github.com/huangsam/taskrecon/internal/source"
	"github.com/spf13/cobra"
)

// screenOpenCmd correlates auto-assignments with screen-open telemetry.
var screenOpenCmd = &cobra.Command{
	Use:   "screen-open [source-dir]",
	Short: "Show how long auto-assigned users took to open the work screen.",
	Long: `For every auto-assignment, find the assignee's earliest screen open and the
minutes between assignment and that open.

Minutes are only reported when the first open comes after the assignment.

Examples:
  taskrecon screen-open ./exports
  taskrecon screen-open ./exports --output csv --output-file screen-open.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScreenOpenReport(rootCtx, cfg, source.NewLoader(cfg), outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot run screen-open analysis", err)
		}
	},
}
