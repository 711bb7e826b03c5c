package auth

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/SUSE/osc-tiny/internal/constants"
	"github.com/SUSE/osc-tiny/pkg/osc"
)

// BasicAuthenticator implements plain username/password authentication.
// The header is attached proactively, so no negotiation round trip is
// needed unless the server challenges anyway (e.g. an expired session
// cookie was sent instead).
type BasicAuthenticator struct {
	username string
	password string
	session  *Session
}

// NewBasicAuthenticator creates a Basic authenticator for a credential.
func NewBasicAuthenticator(username, password string) *BasicAuthenticator {
	return &BasicAuthenticator{
		username: username,
		password: password,
		session:  &Session{},
	}
}

// header encodes the credential into a Basic Authorization value.
func (a *BasicAuthenticator) header() string {
	raw := a.username + ":" + a.password

	return constants.BasicScheme + " " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// Authorize attaches the Basic header and, when present, the session
// cookie.
func (a *BasicAuthenticator) Authorize(ctx context.Context, req *http.Request) error {
	req.Header.Set("Authorization", a.header())

	if cookie := a.session.Cookie(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	return nil
}

// HandleChallenge answers a reactive challenge. Basic credentials cannot
// satisfy a Signature-only challenge.
func (a *BasicAuthenticator) HandleChallenge(ctx context.Context, challenges []*Challenge, method, path string) (string, error) {
	challenge := findChallenge(challenges, constants.BasicScheme)
	if challenge == nil {
		return "", &osc.AuthenticationError{
			Detail: "server does not accept Basic authentication",
		}
	}

	return a.header(), nil
}

// Observe tracks the session cookie lifecycle.
func (a *BasicAuthenticator) Observe(resp *http.Response) {
	observeSession(a.session, resp, constants.BasicScheme)
}

// Session exposes the shared session state.
func (a *BasicAuthenticator) Session() *Session {
	return a.session
}
