package osc

import (
	"context"
	"io"
	"net/url"

	"github.com/antchfx/xmlquery"
)

// ProjectsClient interacts with projects below /source.
type ProjectsClient interface {
	// List returns the directory of all (or all deleted) projects.
	List(ctx context.Context, deleted bool) (*xmlquery.Node, error)
	// GetMeta returns the project _meta document.
	GetMeta(ctx context.Context, project string) (*xmlquery.Node, error)
	// SetMeta replaces the project _meta document. The project is created
	// if it does not exist yet.
	SetMeta(ctx context.Context, project string, meta []byte) error
	// Delete removes a project.
	Delete(ctx context.Context, project string, force bool, comment string) error
}

// FileListOptions narrows a package file listing.
type FileListOptions struct {
	// Revision selects a specific source revision instead of the latest.
	Revision string
	// Expand resolves links before listing.
	Expand bool
	// Meta lists meta files instead of sources.
	Meta bool
}

// PackagesClient interacts with packages below /source.
type PackagesClient interface {
	// List returns the directory of packages in a project.
	List(ctx context.Context, project string, deleted bool) (*xmlquery.Node, error)
	// GetMeta returns the package _meta document.
	GetMeta(ctx context.Context, project, pkg string) (*xmlquery.Node, error)
	// SetMeta replaces the package _meta document. The package is created
	// if it does not exist yet.
	SetMeta(ctx context.Context, project, pkg string, meta []byte) error
	// GetFiles returns the file directory of a package.
	GetFiles(ctx context.Context, project, pkg string, opts *FileListOptions) (*xmlquery.Node, error)
	// DownloadFile streams a source file. The caller must close the
	// returned reader; the exchange is never cached.
	DownloadFile(ctx context.Context, project, pkg, filename string) (io.ReadCloser, error)
	// UploadFile stores a source file from an arbitrary reader.
	UploadFile(ctx context.Context, project, pkg, filename string, source io.Reader, comment string) error
	// Delete removes a package.
	Delete(ctx context.Context, project, pkg, comment string) error
}

// BuildClient interacts with build results below /build.
type BuildClient interface {
	// GetResults returns build results for a project, optionally filtered
	// by package, repository or architecture via query parameters.
	GetResults(ctx context.Context, project string, query url.Values) (*xmlquery.Node, error)
	// GetBinaryList returns the binaries produced for a package.
	GetBinaryList(ctx context.Context, project, repo, arch, pkg string) (*xmlquery.Node, error)
	// GetLog streams a build log. The caller must close the returned
	// reader; the exchange is never cached.
	GetLog(ctx context.Context, project, repo, arch, pkg string) (io.ReadCloser, error)
	// GetHistory returns the build history of a package.
	GetHistory(ctx context.Context, project, repo, arch, pkg string) (*xmlquery.Node, error)
}

// SearchKind names a searchable resource type.
type SearchKind string

// Searchable resource types.
const (
	SearchProject SearchKind = "project"
	SearchPackage SearchKind = "package"
	SearchRequest SearchKind = "request"
	SearchIssue   SearchKind = "issue"
)

// SearchClient runs XPath searches below /search.
type SearchClient interface {
	// Search runs an XPath match query against a resource collection.
	Search(ctx context.Context, kind SearchKind, xpath string) (*xmlquery.Node, error)
}

// UsersClient interacts with user accounts below /person.
type UsersClient interface {
	// Get returns the person document for a login.
	Get(ctx context.Context, login string) (*xmlquery.Node, error)
}

// GroupsClient interacts with groups below /group.
type GroupsClient interface {
	// List returns the directory of all groups.
	List(ctx context.Context) (*xmlquery.Node, error)
	// Get returns a group document.
	Get(ctx context.Context, name string) (*xmlquery.Node, error)
}

// RequestsClient interacts with submit requests below /request.
type RequestsClient interface {
	// Get returns a request, optionally with its full history.
	Get(ctx context.Context, id string, withHistory bool) (*xmlquery.Node, error)
	// List searches requests by view parameters (user, project, states).
	List(ctx context.Context, query url.Values) (*xmlquery.Node, error)
	// ChangeState transitions a request to a new state with a comment.
	ChangeState(ctx context.Context, id, newState, comment string) (*xmlquery.Node, error)
}

// CommentKind names the resource type a comment is attached to.
type CommentKind string

// Resource types that carry comments.
const (
	CommentProject CommentKind = "project"
	CommentPackage CommentKind = "package"
	CommentRequest CommentKind = "request"
)

// CommentsClient interacts with comments below /comments.
type CommentsClient interface {
	// List returns the comments attached to a resource.
	List(ctx context.Context, kind CommentKind, id string) (*xmlquery.Node, error)
	// Add attaches a new comment; parentID threads it under an existing
	// comment when non-empty.
	Add(ctx context.Context, kind CommentKind, id, comment, parentID string) error
	// Delete removes a comment by its ID.
	Delete(ctx context.Context, commentID string) error
}

// Client is the build service API client surface. Concrete
// implementations are constructed via pkg/oscclient.
type Client interface {
	Projects() ProjectsClient
	Packages() PackagesClient
	Build() BuildClient
	Search() SearchClient
	Users() UsersClient
	Groups() GroupsClient
	Requests() RequestsClient
	Comments() CommentsClient
}
