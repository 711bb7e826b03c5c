// Package client implements the osc.Client interface: it wires the
// authenticated request engine to thin per-resource wrappers that map
// method calls onto build service URL templates and materialize the
// returned XML.
package client

import (
	"fmt"
	"time"

	"github.com/SUSE/osc-tiny/internal/auth"
	"github.com/SUSE/osc-tiny/internal/constants"
	oschttp "github.com/SUSE/osc-tiny/internal/http"
	"github.com/SUSE/osc-tiny/pkg/osc"
)

// Client implements the osc.Client interface.
type Client struct {
	httpClient    *oschttp.Client
	authenticator auth.Authenticator
	baseURL       string
	logger        osc.Logger

	// Resource clients
	projects *ProjectsClient
	packages *PackagesClient
	build    *BuildClient
	search   *SearchClient
	users    *UsersClient
	groups   *GroupsClient
	requests *RequestsClient
	comments *CommentsClient
}

// createAuthenticator builds the authenticator matching the credential:
// an SSH key selects the Signature challenge/response flow, a password
// selects Basic authentication.
func createAuthenticator(config *osc.Config) (auth.Authenticator, error) {
	credential := config.Credential

	if credential.Basic() {
		return auth.NewBasicAuthenticator(credential.Username, credential.Password), nil
	}

	signer, err := auth.NewSSHSigner(credential.SSHKeyPath, credential.Passphrase)
	if err != nil {
		return nil, err
	}

	return auth.NewSignatureAuthenticator(credential.Username, signer), nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *osc.Config) ([]oschttp.Option, error) {
	var httpOpts []oschttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, oschttp.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, oschttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, oschttp.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, oschttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, oschttp.WithTimeout(config.HTTPTimeout))
	}

	if config.Cache != nil {
		cache, err := osc.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("building response cache: %w", err)
		}

		httpOpts = append(httpOpts, oschttp.WithCache(cache))
	}

	return httpOpts, nil
}

// New creates a new build service API client.
func New(config *osc.Config) (*Client, error) {
	if config.APIURL == "" {
		return nil, osc.ErrAPIURLRequired
	}

	err := config.Credential.Validate()
	if err != nil {
		return nil, err
	}

	authenticator, err := createAuthenticator(config)
	if err != nil {
		return nil, err
	}

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := oschttp.NewClient(config.APIURL, authenticator, httpOpts...)

	client := &Client{
		httpClient:    httpClient,
		authenticator: authenticator,
		baseURL:       config.APIURL,
		logger:        config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.projects = NewProjectsClient(c.httpClient)
	c.packages = NewPackagesClient(c.httpClient)
	c.build = NewBuildClient(c.httpClient)
	c.search = NewSearchClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
	c.groups = NewGroupsClient(c.httpClient)
	c.requests = NewRequestsClient(c.httpClient)
	c.comments = NewCommentsClient(c.httpClient)
}

// Projects implements osc.Client.Projects.
func (c *Client) Projects() osc.ProjectsClient {
	return c.projects
}

// Packages implements osc.Client.Packages.
func (c *Client) Packages() osc.PackagesClient {
	return c.packages
}

// Build implements osc.Client.Build.
func (c *Client) Build() osc.BuildClient {
	return c.build
}

// Search implements osc.Client.Search.
func (c *Client) Search() osc.SearchClient {
	return c.search
}

// Users implements osc.Client.Users.
func (c *Client) Users() osc.UsersClient {
	return c.users
}

// Groups implements osc.Client.Groups.
func (c *Client) Groups() osc.GroupsClient {
	return c.groups
}

// Requests implements osc.Client.Requests.
func (c *Client) Requests() osc.RequestsClient {
	return c.requests
}

// Comments implements osc.Client.Comments.
func (c *Client) Comments() osc.CommentsClient {
	return c.comments
}

// SessionEstablishedAt reports when the current authentication session
// was created; the zero time means no session is established.
func (c *Client) SessionEstablishedAt() time.Time {
	type sessionHolder interface {
		Session() *auth.Session
	}

	holder, ok := c.authenticator.(sessionHolder)
	if !ok {
		return time.Time{}
	}

	return holder.Session().EstablishedAt()
}

// loggerAdapter adapts osc.Logger to the HTTP layer's Logger.
type loggerAdapter struct {
	logger osc.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
