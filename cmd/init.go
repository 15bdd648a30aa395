package cmd

import (
	"fmt"
	"os"

	"github.com/foomo/docs-versionpanel/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default versionpanel configuration",
	Long:  `Writes the default configuration to the --config path, with the site root and versions file overridable by flags.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("versions-file", "", "versions data file, relative to the site root")
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if force, _ := cmd.Flags().GetBool("force"); !force {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", cfgFile)
		}
	}

	cfg := config.DefaultConfig()
	if siteRoot != "" {
		cfg.SiteRoot = siteRoot
	}
	if versionsFile, _ := cmd.Flags().GetString("versions-file"); versionsFile != "" {
		cfg.VersionsFile = versionsFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(cfgFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Config written: %s\n", cfgFile)
	return nil
}
