package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/antchfx/xmlquery"
)

// NewRequestsCommand creates the requests command group.
func NewRequestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage submit requests",
	}

	cmd.AddCommand(newRequestsListCommand())
	cmd.AddCommand(newRequestsShowCommand())

	return cmd
}

func newRequestsListCommand() *cobra.Command {
	var (
		user    string
		project string
		states  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submit requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			query := url.Values{}
			if user != "" {
				query.Set("user", user)
			}

			if project != "" {
				query.Set("project", project)
			}

			if states != "" {
				query.Set("states", states)
			}

			doc, err := client.Requests().List(context.Background(), query)
			if err != nil {
				return fmt.Errorf("listing requests: %w", err)
			}

			if viper.GetString("output") == OutputFormatXML {
				printXML(doc)

				return nil
			}

			return renderRequestsTable(doc)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "filter by involved user")
	cmd.Flags().StringVar(&project, "project", "", "filter by involved project")
	cmd.Flags().StringVar(&states, "states", "", "comma separated request states")

	return cmd
}

func newRequestsShowCommand() *cobra.Command {
	var withHistory bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a submit request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			doc, err := client.Requests().Get(context.Background(), args[0], withHistory)
			if err != nil {
				return fmt.Errorf("getting request: %w", err)
			}

			printXML(doc)

			return nil
		},
	}

	cmd.Flags().BoolVar(&withHistory, "history", false, "include the full request history")

	return cmd
}

func renderRequestsTable(doc *xmlquery.Node) error {
	requests := xmlquery.Find(doc, "//request")
	if len(requests) == 0 {
		_, _ = os.Stdout.WriteString("No requests found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "State", "Creator", "Target")

	for _, request := range requests {
		state := ""
		if node := xmlquery.FindOne(request, "state"); node != nil {
			state = node.SelectAttr("name")
		}

		target := ""
		if node := xmlquery.FindOne(request, "action/target"); node != nil {
			target = node.SelectAttr("project")
			if pkg := node.SelectAttr("package"); pkg != "" {
				target += "/" + pkg
			}
		}

		_ = table.Append([]string{
			request.SelectAttr("id"),
			state,
			request.SelectAttr("creator"),
			target,
		})
	}

	return table.Render()
}
