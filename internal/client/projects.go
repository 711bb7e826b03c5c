package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/antchfx/xmlquery"

	"github.com/SUSE/osc-tiny/internal/constants"
	oschttp "github.com/SUSE/osc-tiny/internal/http"
)

// ProjectsClient implements the osc.ProjectsClient interface.
type ProjectsClient struct {
	httpClient *oschttp.Client
}

// NewProjectsClient creates a new ProjectsClient.
func NewProjectsClient(httpClient *oschttp.Client) *ProjectsClient {
	return &ProjectsClient{
		httpClient: httpClient,
	}
}

// List returns the directory of all projects.
func (c *ProjectsClient) List(ctx context.Context, deleted bool) (*xmlquery.Node, error) {
	query := url.Values{}
	if deleted {
		query.Set("deleted", boolParam(deleted))
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathSource, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	return materialize(resp)
}

// GetMeta returns the project _meta document.
func (c *ProjectsClient) GetMeta(ctx context.Context, project string) (*xmlquery.Node, error) {
	path := constants.APIPathSource + "/" + escapePath(project) + "/_meta"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting project meta: %w", err)
	}

	return materialize(resp)
}

// SetMeta replaces the project _meta document, creating the project if it
// does not exist.
func (c *ProjectsClient) SetMeta(ctx context.Context, project string, meta []byte) error {
	path := constants.APIPathSource + "/" + escapePath(project) + "/_meta"

	_, err := c.httpClient.Put(ctx, path, nil, meta)
	if err != nil {
		return fmt.Errorf("setting project meta: %w", err)
	}

	return nil
}

// Delete removes a project.
func (c *ProjectsClient) Delete(ctx context.Context, project string, force bool, comment string) error {
	path := constants.APIPathSource + "/" + escapePath(project)

	query := url.Values{}
	if force {
		query.Set("force", boolParam(force))
	}

	if comment != "" {
		query.Set("comment", comment)
	}

	_, err := c.httpClient.Delete(ctx, path, query)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	return nil
}
