package cmd

import (
	"fmt"

	"github.com/foomo/docs-versionpanel/progress"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the version panels of the whole site",
	Long:  `Walks the folder of every configured build below the site root and rewrites the version panels of all matching pages.`,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().Bool("quiet", false, "do not report progress")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, logger, _, svc, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var reporter progress.Reporter = progress.NewReporter()
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		reporter = progress.Nop{}
	}

	report, err := svc.UpdateSite(cmd.Context(), reporter)
	if err != nil {
		return fmt.Errorf("updating site: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Site %s: %d pages, %d updated, %d unchanged, %d failed\n",
		cfg.SiteRoot, report.Pages, report.Updated, report.Unchanged, report.Failed)
	for _, folder := range report.Skipped {
		fmt.Fprintf(out, "  skipped missing folder %s\n", folder)
	}
	for _, result := range report.Results {
		if result.Err != "" {
			fmt.Fprintf(out, "  %s: %s\n", result.Path, result.Err)
		}
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d pages could not be updated", report.Failed)
	}
	return nil
}
