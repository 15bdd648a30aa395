package cmd

import (
	"fmt"

	"github.com/foomo/docs-versionpanel/mcp"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of versionpanel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "versionpanel %s (mcp %s)\n", Version, mcp.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
