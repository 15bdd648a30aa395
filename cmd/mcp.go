package cmd

import (
	"github.com/foomo/docs-versionpanel/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long:  `Runs the version panel tools as an MCP server speaking over stdin and stdout. Logs go to stderr.`,
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	_, logger, _, svc, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	return server.ServeStdio(mcp.NewServer(logger, svc))
}
