package cmd

import (
	"github.com/huangsam/gauge/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Gauge MCP server",
	Long:  `Launch an MCP server that allows AI agents to analyze reports and read measure history via standard tools.`,
	Args:  cobra.NoArgs,
	// Stdio carries the protocol, so nothing else may be printed on stdout.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
