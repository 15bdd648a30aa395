package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	siteRoot string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "versionpanel",
	Short: "Maintain the version switcher of multi-version documentation sites",
	Long: `versionpanel keeps the "other versions" panel of every page of a documentation
site in sync with the list of published builds. It renders the panel into the
pages on disk, serves a site with the panel injected on the fly, and maintains
the versions.js data file consumed by the pages.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "versionpanel.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&siteRoot, "root", "", "override the site root")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
