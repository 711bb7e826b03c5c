package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/antchfx/xmlquery"

	"github.com/SUSE/osc-tiny/internal/constants"
	oschttp "github.com/SUSE/osc-tiny/internal/http"
	"github.com/SUSE/osc-tiny/pkg/osc"
)

// PackagesClient implements the osc.PackagesClient interface.
type PackagesClient struct {
	httpClient *oschttp.Client
}

// NewPackagesClient creates a new PackagesClient.
func NewPackagesClient(httpClient *oschttp.Client) *PackagesClient {
	return &PackagesClient{
		httpClient: httpClient,
	}
}

func (c *PackagesClient) packagePath(project string, segments ...string) string {
	path := constants.APIPathSource + "/" + escapePath(project)
	for _, segment := range segments {
		path += "/" + escapePath(segment)
	}

	return path
}

// List returns the directory of packages in a project.
func (c *PackagesClient) List(ctx context.Context, project string, deleted bool) (*xmlquery.Node, error) {
	query := url.Values{}
	if deleted {
		query.Set("deleted", boolParam(deleted))
	}

	resp, err := c.httpClient.Get(ctx, c.packagePath(project), query)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}

	return materialize(resp)
}

// GetMeta returns the package _meta document.
func (c *PackagesClient) GetMeta(ctx context.Context, project, pkg string) (*xmlquery.Node, error) {
	resp, err := c.httpClient.Get(ctx, c.packagePath(project, pkg, "_meta"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting package meta: %w", err)
	}

	return materialize(resp)
}

// SetMeta replaces the package _meta document, creating the package if it
// does not exist.
func (c *PackagesClient) SetMeta(ctx context.Context, project, pkg string, meta []byte) error {
	_, err := c.httpClient.Put(ctx, c.packagePath(project, pkg, "_meta"), nil, meta)
	if err != nil {
		return fmt.Errorf("setting package meta: %w", err)
	}

	return nil
}

// GetFiles returns the file directory of a package.
func (c *PackagesClient) GetFiles(ctx context.Context, project, pkg string, opts *osc.FileListOptions) (*xmlquery.Node, error) {
	query := url.Values{}

	if opts != nil {
		if opts.Revision != "" {
			query.Set("rev", opts.Revision)
		}

		if opts.Expand {
			query.Set("expand", boolParam(opts.Expand))
		}

		if opts.Meta {
			query.Set("meta", boolParam(opts.Meta))
		}
	}

	resp, err := c.httpClient.Get(ctx, c.packagePath(project, pkg), query)
	if err != nil {
		return nil, fmt.Errorf("listing package files: %w", err)
	}

	return materialize(resp)
}

// DownloadFile streams a source file. The caller owns the returned reader.
func (c *PackagesClient) DownloadFile(ctx context.Context, project, pkg, filename string) (io.ReadCloser, error) {
	resp, err := c.httpClient.GetStream(ctx, c.packagePath(project, pkg, filename), nil)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}

	return resp.Stream, nil
}

// UploadFile stores a source file from an arbitrary reader. The body is
// streamed and therefore sent exactly once, without connection retries.
func (c *PackagesClient) UploadFile(ctx context.Context, project, pkg, filename string, source io.Reader, comment string) error {
	query := url.Values{}
	if comment != "" {
		query.Set("comment", comment)
	}

	_, err := c.httpClient.Do(ctx, &oschttp.Request{
		Method:  http.MethodPut,
		Path:    c.packagePath(project, pkg, filename),
		Query:   query,
		RawBody: source,
	})
	if err != nil {
		return fmt.Errorf("uploading file: %w", err)
	}

	return nil
}

// Delete removes a package.
func (c *PackagesClient) Delete(ctx context.Context, project, pkg, comment string) error {
	query := url.Values{}
	if comment != "" {
		query.Set("comment", comment)
	}

	_, err := c.httpClient.Delete(ctx, c.packagePath(project, pkg), query)
	if err != nil {
		return fmt.Errorf("deleting package: %w", err)
	}

	return nil
}
