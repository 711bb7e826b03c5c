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

// CommentsClient implements the osc.CommentsClient interface.
type CommentsClient struct {
	httpClient *oschttp.Client
}

// NewCommentsClient creates a new CommentsClient.
func NewCommentsClient(httpClient *oschttp.Client) *CommentsClient {
	return &CommentsClient{
		httpClient: httpClient,
	}
}

// List returns the comments attached to a resource.
func (c *CommentsClient) List(ctx context.Context, kind osc.CommentKind, id string) (*xmlquery.Node, error) {
	path := constants.APIPathComments + "/" + string(kind) + "/" + escapePath(id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	return materialize(resp)
}

// Add attaches a new comment; a non-empty parentID threads it under an
// existing comment.
func (c *CommentsClient) Add(ctx context.Context, kind osc.CommentKind, id, comment, parentID string) error {
	path := constants.APIPathComments + "/" + string(kind) + "/" + escapePath(id)

	query := url.Values{}
	if parentID != "" {
		query.Set("parent_id", parentID)
	}

	_, err := c.httpClient.Post(ctx, path, query, []byte(comment))
	if err != nil {
		return fmt.Errorf("adding comment: %w", err)
	}

	return nil
}

// Delete removes a comment by its ID.
func (c *CommentsClient) Delete(ctx context.Context, commentID string) error {
	_, err := c.httpClient.Delete(ctx, "/comment/"+escapePath(commentID), nil)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	return nil
}
