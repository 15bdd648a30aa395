package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var injectCmd = &cobra.Command{
	Use:   "inject FILE...",
	Short: "Update the version panels of single pages",
	Long:  `Rewrites the version panels of the given HTML files in place. Files without a panel are left untouched.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInject,
}

func init() {
	injectCmd.Flags().String("current", "", "version the pages belong to")
	_ = injectCmd.MarkFlagRequired("current")
	rootCmd.AddCommand(injectCmd)
}

func runInject(cmd *cobra.Command, args []string) error {
	_, logger, _, svc, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	current, _ := cmd.Flags().GetString("current")

	var errs error
	for _, file := range args {
		result, err := svc.UpdatePage(cmd.Context(), file, current)
		if err != nil {
			logger.Error("failed to update page", zap.String("path", file), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		switch {
		case result.Containers == 0:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no version panel\n", file)
		case result.Changed:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: updated %d panel(s)\n", file, result.Containers)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: up to date\n", file)
		}
	}
	if errs != nil {
		return fmt.Errorf("updating pages: %w", errs)
	}
	return nil
}
