package cmd

import (
	"github.com/huangsam/taskrecon/core"
	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/internal/outwriter"
	"github.com/huangsam/taskrecon/internal/source"
	"github.com/spf13/cobra"
)

// reportCmd builds the main reconciliation report.
var reportCmd = &cobra.Command{
	Use:   "report [source-dir]",
	Short: "Show one reconciled row per task.",
	Long: `Join task actions, status history and auto-assignments into one row per task.

Each row carries:
- The assignee, resolved to a display name where the users collection knows it
- The assignment mode (Auto, Manual or Unknown)
- Created, assigned, maker-complete and open timestamps in UTC
- Waiting minutes (created to assigned) and productive minutes (assigned to maker complete)

Durations are always derived from the phase timestamps. Exported duration
columns in the source are never trusted.

Examples:
  # Report every task from CSV exports in the current directory
  taskrecon report

  # Only auto-assigned tasks, matched on the work status column
  taskrecon report ./exports --mode auto --status-field work

  # Export as Parquet for analytics
  taskrecon report ./exports --output parquet --output-file tasks.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTaskReport(rootCtx, cfg, source.NewLoader(cfg), outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot run task report", err)
		}
	},
}
