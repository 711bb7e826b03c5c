package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/antchfx/xmlquery"

	"github.com/SUSE/osc-tiny/internal/constants"
	oschttp "github.com/SUSE/osc-tiny/internal/http"
	"github.com/SUSE/osc-tiny/pkg/osc"
)

// SearchClient implements the osc.SearchClient interface.
type SearchClient struct {
	httpClient *oschttp.Client
}

// NewSearchClient creates a new SearchClient.
func NewSearchClient(httpClient *oschttp.Client) *SearchClient {
	return &SearchClient{
		httpClient: httpClient,
	}
}

// Search runs an XPath match query against a resource collection.
func (c *SearchClient) Search(ctx context.Context, kind osc.SearchKind, xpath string) (*xmlquery.Node, error) {
	query := url.Values{}
	query.Set("match", xpath)

	resp, err := c.httpClient.Get(ctx, constants.APIPathSearch+"/"+string(kind), query)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", kind, err)
	}

	return materialize(resp)
}
