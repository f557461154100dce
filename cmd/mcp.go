package cmd

import (
	"github.com/huangsam/taskrecon/internal/mcp"
	"github.com/huangsam/taskrecon/internal/source"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [source-dir]",
	Short: "Start the taskrecon MCP server",
	Long: `Launch an MCP server that lets AI agents query task reports via standard tools.

The source is loaded once at startup. Tools:
  get_task_report           - reconciled rows, with mode filter and limit
  get_task_phases           - evidence behind one task's row
  get_screen_open_analysis  - auto-assignment to first screen open
  get_diagnostics           - dropped rows and unparsable dates`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, source.NewLoader(cfg))
	},
}
