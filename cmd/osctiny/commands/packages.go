package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/SUSE/osc-tiny/pkg/osc"
)

// NewPackagesCommand creates the packages command group.
func NewPackagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Manage packages",
	}

	cmd.AddCommand(newPackagesListCommand())
	cmd.AddCommand(newPackagesFilesCommand())
	cmd.AddCommand(newPackagesDownloadCommand())

	return cmd
}

func newPackagesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List packages in a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			doc, err := client.Packages().List(context.Background(), args[0], false)
			if err != nil {
				return fmt.Errorf("listing packages: %w", err)
			}

			names := entryAttr(doc, "//entry", "name")

			switch viper.GetString("output") {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(names)
			case OutputFormatYAML:
				return yaml.NewEncoder(os.Stdout).Encode(names)
			case OutputFormatXML:
				printXML(doc)

				return nil
			default:
				return renderNameTable("Package", names)
			}
		},
	}
}

func newPackagesFilesCommand() *cobra.Command {
	var (
		revision string
		expand   bool
	)

	cmd := &cobra.Command{
		Use:   "files PROJECT PACKAGE",
		Short: "List the files of a package",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			opts := &osc.FileListOptions{Revision: revision, Expand: expand}

			doc, err := client.Packages().GetFiles(context.Background(), args[0], args[1], opts)
			if err != nil {
				return fmt.Errorf("listing package files: %w", err)
			}

			if viper.GetString("output") == OutputFormatXML {
				printXML(doc)

				return nil
			}

			entries := doc.SelectElements("//entry")
			if len(entries) == 0 {
				_, _ = os.Stdout.WriteString("No files found\n")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Name", "Size", "MD5", "Modified")

			for _, entry := range entries {
				_ = table.Append([]string{
					entry.SelectAttr("name"),
					entry.SelectAttr("size"),
					entry.SelectAttr("md5"),
					entry.SelectAttr("mtime"),
				})
			}

			return table.Render()
		},
	}

	cmd.Flags().StringVar(&revision, "rev", "", "source revision")
	cmd.Flags().BoolVar(&expand, "expand", false, "expand source links")

	return cmd
}

func newPackagesDownloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "download PROJECT PACKAGE FILE",
		Short: "Download a source file to stdout",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			stream, err := client.Packages().DownloadFile(context.Background(), args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("downloading file: %w", err)
			}

			defer func() { _ = stream.Close() }()

			_, err = io.Copy(os.Stdout, stream)
			if err != nil {
				return fmt.Errorf("writing file: %w", err)
			}

			return nil
		},
	}
}
