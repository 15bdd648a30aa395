package cmd

import (
	"fmt"

	"github.com/foomo/docs-versionpanel/service/vo"
	"github.com/foomo/docs-versionpanel/versions"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a build to the versions file",
	Long: `Adds a build to the versions data file and keeps the list sorted newest first.
The current list is read from --from-url (or versions_url) when given, else from the local file.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("version", "", "version label of the build")
	addCmd.Flags().String("folder", "", "folder of the build below the site root")
	addCmd.Flags().String("pdf-name", "", "file name of the PDF download, if any")
	addCmd.Flags().String("from-url", "", "URL of the published versions file")
	_ = addCmd.MarkFlagRequired("version")
	_ = addCmd.MarkFlagRequired("folder")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	version, _ := cmd.Flags().GetString("version")
	folder, _ := cmd.Flags().GetString("folder")
	pdfName, _ := cmd.Flags().GetString("pdf-name")
	url, _ := cmd.Flags().GetString("from-url")
	if url == "" {
		url = cfg.VersionsURL
	}

	file := cfg.VersionsPath()
	var list []vo.VersionDescriptor
	if url != "" {
		list, err = versions.Fetch(cmd.Context(), nil, url)
	} else {
		list, err = versions.Load(file)
	}
	if err != nil {
		return fmt.Errorf("reading versions: %w", err)
	}

	d, err := vo.NewVersionDescriptor(version, folder, pdfName)
	if err != nil {
		return err
	}
	list, added, err := versions.Add(list, d)
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintln(cmd.OutOrStdout(), "Version already configured. Skipping update!")
		return nil
	}
	if err := versions.Save(file, list); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "File updated: %s\n", file)
	return nil
}
