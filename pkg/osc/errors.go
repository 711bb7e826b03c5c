package osc

import (
	"errors"
	"fmt"
	"net/http"
)

// Static errors for err113 compliance.
var (
	ErrAPIURLRequired        = errors.New("API URL is required")
	ErrCredentialsRequired   = errors.New("no credentials provided")
	ErrAmbiguousCredentials  = errors.New("provide either a password or an SSH key, not both")
	ErrSSHKeyNotFound        = errors.New("SSH key does not exist")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrCacheKeyNotFound      = errors.New("key not found")
	ErrCacheEntryExpired     = errors.New("entry expired")
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
	ErrStreamingNotCacheable = errors.New("streaming exchanges cannot be cached")
	ErrNoChallenge           = errors.New("server sent 401 without a challenge")
)

// AuthenticationError indicates the server rejected the provided
// credentials or a signed challenge response. It is permanent: the engine
// never retries after it.
type AuthenticationError struct {
	Realm  string
	Detail string
	Err    error
}

func (e *AuthenticationError) Error() string {
	msg := "authentication failed"
	if e.Realm != "" {
		msg = fmt.Sprintf("%s for realm %q", msg, e.Realm)
	}

	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// SigningError indicates the external signing utility is unavailable, the
// key file could not be read, or the passphrase was rejected. A wrong
// passphrase is a permanent failure for that call; it is never retried to
// avoid repeated passphrase prompts.
type SigningError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *SigningError) Error() string {
	msg := fmt.Sprintf("signing via %q failed", e.Command)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}

	return msg
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// TransientConnectionError indicates the connection dropped before any
// response bytes arrived and the bounded retry budget was exhausted.
type TransientConnectionError struct {
	Attempts int
	Err      error
}

func (e *TransientConnectionError) Error() string {
	return fmt.Sprintf("connection failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *TransientConnectionError) Unwrap() error {
	return e.Err
}

// ServerError carries a definitive 4xx/5xx response verbatim so callers can
// build a domain specific message. It is never retried by the engine.
type ServerError struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
}

func (e *ServerError) Error() string {
	summary := ErrorSummary(e.Body)
	if summary != "" {
		return fmt.Sprintf("server replied with %s: %s", e.Status, summary)
	}

	return "server replied with " + e.Status
}

// MalformedResponseError indicates the server answered, but the body could
// not be materialized into an XML tree. Distinct from transport and
// authentication errors so callers can tell "got garbage" apart from
// "got nothing".
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response body: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error is a 404 server error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is a 401 server error or a permanent
// authentication failure.
func IsUnauthorized(err error) bool {
	authErr := &AuthenticationError{}
	if errors.As(err, &authErr) {
		return true
	}

	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a 403 server error.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, status int) bool {
	srvErr := &ServerError{}
	if errors.As(err, &srvErr) {
		return srvErr.StatusCode == status
	}

	return false
}
