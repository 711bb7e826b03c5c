// Package oscclient provides the main entry point for creating build
// service API clients.
package oscclient

import (
	"strings"

	"github.com/SUSE/osc-tiny/internal/client"
	"github.com/SUSE/osc-tiny/internal/config"
	"github.com/SUSE/osc-tiny/pkg/osc"
)

// New creates a new build service API client.
func New(cfg *osc.Config) (osc.Client, error) {
	if cfg == nil {
		return nil, osc.ErrAPIURLRequired
	}

	cfg.APIURL = normalizeAPIURL(cfg.APIURL)

	return client.New(cfg)
}

// NewFromOscrc creates a client using credentials from the osc
// configuration file. An empty apiURL selects the default instance
// named in the config; opts adjusts the assembled configuration before
// the client is built.
func NewFromOscrc(apiURL string, opts ...func(*osc.Config)) (osc.Client, error) {
	file, err := config.Load("")
	if err != nil {
		return nil, err
	}

	apiURL, credential, err := config.Credentials(file, normalizeAPIURL(apiURL))
	if err != nil {
		return nil, err
	}

	cfg := &osc.Config{
		APIURL:     apiURL,
		Credential: credential,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return New(cfg)
}

// normalizeAPIURL trims a trailing slash and defaults the scheme to
// HTTPS, the only scheme the reference instances speak.
func normalizeAPIURL(apiURL string) string {
	if apiURL == "" {
		return apiURL
	}

	apiURL = strings.TrimSuffix(apiURL, "/")
	if !strings.HasPrefix(apiURL, "http://") && !strings.HasPrefix(apiURL, "https://") {
		apiURL = "https://" + apiURL
	}

	return apiURL
}
