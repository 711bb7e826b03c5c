package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 60 * time.Second

	// ExtendedHTTPTimeout is used for long running operations such as
	// build log or source file downloads.
	ExtendedHTTPTimeout = 300 * time.Second
)

// Retry limits for the transport layer. Retries only apply to requests
// that failed before any response bytes arrived, so there is no need for
// long backoff windows.
const (
	// DefaultRetryMax is the default number of connection retries.
	DefaultRetryMax = 2

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 100 * time.Millisecond

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 2 * time.Second
)

// Cache defaults.
const (
	// DefaultCacheSize is the default maximum number of cached responses.
	DefaultCacheSize = 1000

	// DefaultCacheCleanupInterval is the interval for evicting expired
	// entries from the memory cache.
	DefaultCacheCleanupInterval = time.Minute
)

// XML materialization.
const (
	// DefaultEagerParseLimit is the body size up to which XML documents
	// are buffered completely before parsing. Larger or unbounded bodies
	// are decoded incrementally.
	DefaultEagerParseLimit = 1 << 20
)

// Build service API paths.
const (
	// APIPathSource is the base path for projects and packages.
	APIPathSource = "/source"

	// APIPathBuild is the base path for build results.
	APIPathBuild = "/build"

	// APIPathSearch is the base path for search queries.
	APIPathSearch = "/search"

	// APIPathRequest is the base path for submit requests.
	APIPathRequest = "/request"

	// APIPathComments is the base path for comments.
	APIPathComments = "/comments"

	// APIPathPerson is the base path for user accounts.
	APIPathPerson = "/person"

	// APIPathGroup is the base path for groups.
	APIPathGroup = "/group"
)

// Wire format constants.
const (
	// ContentTypeOctetStream is sent with every request body; the build
	// service does not inspect request content types.
	ContentTypeOctetStream = "application/octet-stream"

	// AcceptXML is the accept header for API responses.
	AcceptXML = "application/xml"

	// SignatureScheme is the authentication scheme token used by the
	// build service challenge/response flow.
	SignatureScheme = "Signature"

	// BasicScheme is the plain username/password authentication scheme.
	BasicScheme = "Basic"

	// DefaultSignedHeaders is the header list signed when the challenge
	// does not name one.
	DefaultSignedHeaders = "(created)"

	// UserAgent is the default user agent string.
	UserAgent = "osc-tiny/1.0"
)

// DefaultAPIURL is the openSUSE reference instance.
const DefaultAPIURL = "https://api.opensuse.org"
