package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}

	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsMetaCommand())

	return cmd
}

func newProjectsListCommand() *cobra.Command {
	var deleted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			doc, err := client.Projects().List(context.Background(), deleted)
			if err != nil {
				return fmt.Errorf("listing projects: %w", err)
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
				return renderNameTable("Project", names)
			}
		},
	}

	cmd.Flags().BoolVar(&deleted, "deleted", false, "list deleted projects")

	return cmd
}

func newProjectsMetaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "meta PROJECT",
		Short: "Show project metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			doc, err := client.Projects().GetMeta(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("getting project meta: %w", err)
			}

			printXML(doc)

			return nil
		},
	}
}

func renderNameTable(header string, names []string) error {
	if len(names) == 0 {
		_, _ = os.Stdout.WriteString("No entries found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(header)

	for _, name := range names {
		_ = table.Append(name)
	}

	return table.Render()
}
