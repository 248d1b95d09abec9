package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/chartscope/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [data]",
	Short: "Start the chartscope MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents open charts, move their
viewport and read the resulting axis spans through standard tools.

The optional dataset becomes the default of the data_path tool argument.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr, stdio is used for the protocol
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
