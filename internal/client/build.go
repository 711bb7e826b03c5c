package client

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/antchfx/xmlquery"

	"github.com/SUSE/osc-tiny/internal/constants"
	oschttp "github.com/SUSE/osc-tiny/internal/http"
)

// BuildClient implements the osc.BuildClient interface.
type BuildClient struct {
	httpClient *oschttp.Client
}

// NewBuildClient creates a new BuildClient.
func NewBuildClient(httpClient *oschttp.Client) *BuildClient {
	return &BuildClient{
		httpClient: httpClient,
	}
}

func (c *BuildClient) buildPath(segments ...string) string {
	path := constants.APIPathBuild
	for _, segment := range segments {
		path += "/" + escapePath(segment)
	}

	return path
}

// GetResults returns build results for a project. The query narrows the
// result set by package, repository or architecture.
func (c *BuildClient) GetResults(ctx context.Context, project string, query url.Values) (*xmlquery.Node, error) {
	resp, err := c.httpClient.Get(ctx, c.buildPath(project, "_result"), query)
	if err != nil {
		return nil, fmt.Errorf("getting build results: %w", err)
	}

	return materialize(resp)
}

// GetBinaryList returns the binaries produced for a package.
func (c *BuildClient) GetBinaryList(ctx context.Context, project, repo, arch, pkg string) (*xmlquery.Node, error) {
	resp, err := c.httpClient.Get(ctx, c.buildPath(project, repo, arch, pkg), nil)
	if err != nil {
		return nil, fmt.Errorf("listing binaries: %w", err)
	}

	return materialize(resp)
}

// GetLog streams a build log. Logs can run to hundreds of megabytes, so
// the body is never buffered or cached. The caller owns the returned
// reader.
func (c *BuildClient) GetLog(ctx context.Context, project, repo, arch, pkg string) (io.ReadCloser, error) {
	resp, err := c.httpClient.GetStream(ctx, c.buildPath(project, repo, arch, pkg, "_log"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting build log: %w", err)
	}

	return resp.Stream, nil
}

// GetHistory returns the build history of a package.
func (c *BuildClient) GetHistory(ctx context.Context, project, repo, arch, pkg string) (*xmlquery.Node, error) {
	resp, err := c.httpClient.Get(ctx, c.buildPath(project, repo, arch, pkg, "_history"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting build history: %w", err)
	}

	return materialize(resp)
}
