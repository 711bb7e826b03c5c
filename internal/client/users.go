package client

import (
	"context"
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/SUSE/osc-tiny/internal/constants"
	oschttp "github.com/SUSE/osc-tiny/internal/http"
)

// UsersClient implements the osc.UsersClient interface.
type UsersClient struct {
	httpClient *oschttp.Client
}

// NewUsersClient creates a new UsersClient.
func NewUsersClient(httpClient *oschttp.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// Get returns the person document for a login.
func (c *UsersClient) Get(ctx context.Context, login string) (*xmlquery.Node, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathPerson+"/"+escapePath(login), nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return materialize(resp)
}
