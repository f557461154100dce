package cmd

import (
	"github.com/huangsam/taskrecon/core"
	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/internal/outwriter"
	"github.com/huangsam/taskrecon/internal/source"
	"github.com/spf13/cobra"
)

// taskCmd explains a single task.
var taskCmd = &cobra.Command{
	Use:   "task <task-id> [source-dir]",
	Short: "Explain how one task's row was derived.",
	Long: `Show one task's reconciled row next to the evidence behind it: how many
actions and history entries mention it, whether it was auto-assigned, and the
duration values the source exported for comparison.

Examples:
  taskrecon task TASK-1042 ./exports
  taskrecon task TASK-1042 --output json`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args[1:])
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteTaskExplain(rootCtx, cfg, source.NewLoader(cfg), outwriter.NewOutWriter(), args[0]); err != nil {
			contract.LogFatal("Cannot explain task", err)
		}
	},
}
