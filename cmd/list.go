package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured builds",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	_, logger, store, _, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	list := store.List()
	if len(list) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No versions in %s\n", store.Path())
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tFOLDER\tPDF")
	for _, d := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Version, d.Folder, d.PDFName)
	}
	return w.Flush()
}
