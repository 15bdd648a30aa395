package cmd

import (
	"fmt"

	"github.com/foomo/docs-versionpanel/panel"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the version panel fragment",
	Long:  `Renders the "Versions" and "Downloads" panel for the configured builds and prints it, as HTML or as a markdown preview.`,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("current", "", "version to emphasize")
	renderCmd.Flags().Bool("markdown", false, "print a markdown preview instead of HTML")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	_, logger, store, _, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	current, _ := cmd.Flags().GetString("current")
	fragment := panel.NewRenderer(logger).Render(store.List(), current)

	if markdown, _ := cmd.Flags().GetBool("markdown"); markdown {
		preview, err := panel.Preview(fragment)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), preview)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), fragment)
	return nil
}
