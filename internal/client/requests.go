package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/antchfx/xmlquery"

	"github.com/SUSE/osc-tiny/internal/constants"
	oschttp "github.com/SUSE/osc-tiny/internal/http"
)

// RequestsClient implements the osc.RequestsClient interface.
type RequestsClient struct {
	httpClient *oschttp.Client
}

// NewRequestsClient creates a new RequestsClient.
func NewRequestsClient(httpClient *oschttp.Client) *RequestsClient {
	return &RequestsClient{
		httpClient: httpClient,
	}
}

// Get returns a request, optionally with its full history.
func (c *RequestsClient) Get(ctx context.Context, id string, withHistory bool) (*xmlquery.Node, error) {
	query := url.Values{}
	if withHistory {
		query.Set("withfullhistory", boolParam(withHistory))
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathRequest+"/"+escapePath(id), query)
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}

	return materialize(resp)
}

// List searches requests by view parameters such as user, project and
// states.
func (c *RequestsClient) List(ctx context.Context, query url.Values) (*xmlquery.Node, error) {
	if query == nil {
		query = url.Values{}
	}

	if query.Get("view") == "" {
		query.Set("view", "collection")
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathRequest, query)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}

	return materialize(resp)
}

// ChangeState transitions a request to a new state. The server replies
// with the updated request document.
func (c *RequestsClient) ChangeState(ctx context.Context, id, newState, comment string) (*xmlquery.Node, error) {
	query := url.Values{}
	query.Set("cmd", "changestate")
	query.Set("newstate", newState)

	resp, err := c.httpClient.Post(ctx, constants.APIPathRequest+"/"+escapePath(id), query, []byte(comment))
	if err != nil {
		return nil, fmt.Errorf("changing request state: %w", err)
	}

	return materialize(resp)
}
