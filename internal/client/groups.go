package client

import (
	"context"
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/SUSE/osc-tiny/internal/constants"
	oschttp "github.com/SUSE/osc-tiny/internal/http"
)

// GroupsClient implements the osc.GroupsClient interface.
type GroupsClient struct {
	httpClient *oschttp.Client
}

// NewGroupsClient creates a new GroupsClient.
func NewGroupsClient(httpClient *oschttp.Client) *GroupsClient {
	return &GroupsClient{
		httpClient: httpClient,
	}
}

// List returns the directory of all groups.
func (c *GroupsClient) List(ctx context.Context) (*xmlquery.Node, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathGroup, nil)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	return materialize(resp)
}

// Get returns a group document.
func (c *GroupsClient) Get(ctx context.Context, name string) (*xmlquery.Node, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathGroup+"/"+escapePath(name), nil)
	if err != nil {
		return nil, fmt.Errorf("getting group: %w", err)
	}

	return materialize(resp)
}
