package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SUSE/osc-tiny/pkg/osc"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search KIND XPATH",
		Short: "Run an XPath search",
		Long: `Run an XPath match query against a resource collection.

KIND is one of project, package, request or issue. The XPath expression
is passed to the server unmodified, for example:

  osctiny search package "@name='osc' and @project='openSUSE:Factory'"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			doc, err := client.Search().Search(context.Background(), osc.SearchKind(args[0]), args[1])
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}

			printXML(doc)

			return nil
		},
	}
}
