package osc

import (
	"time"
)

// Credential describes how to authenticate against a build service
// instance. It is immutable after construction.
//
// Exactly one of Password or SSHKeyPath selects the authentication flow:
// a password enables Basic authentication, an SSH key enables the
// Signature challenge/response flow. With an SSH key, Passphrase unlocks
// the key; when empty, a running ssh-agent is expected to hold it.
type Credential struct {
	Username   string
	Password   string
	SSHKeyPath string
	Passphrase string
}

// Basic reports whether the credential selects Basic authentication.
func (c Credential) Basic() bool {
	return c.SSHKeyPath == ""
}

// Validate checks that the credential is usable.
func (c Credential) Validate() error {
	if c.Username == "" {
		return ErrCredentialsRequired
	}

	if c.Password != "" && c.SSHKeyPath != "" {
		return ErrAmbiguousCredentials
	}

	return nil
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an osc.Client.
//
// # Authentication
//
// Credential selects the flow: Basic authentication attaches the encoded
// username/password proactively and only renegotiates when challenged;
// Signature authentication sends the first request unauthenticated, solves
// the server's challenge by signing it with the configured SSH key, and
// reuses the resulting session cookie for subsequent requests. Signing
// spawns an external ssh-keygen process and may block on a passphrase
// prompt or an agent round trip, so the first authenticated call can take
// materially longer than later ones.
//
// # Retries
//
// The transport retries only requests that failed before any response
// bytes were received (a dropped keep-alive connection). HTTP error
// statuses are surfaced verbatim and never retried.
type Config struct {
	// APIURL: base URL of the build service instance
	// (e.g. "https://api.opensuse.org").
	APIURL string

	// Credential: how to authenticate. Required.
	Credential Credential

	// Cache: optional response cache configuration. Nil disables caching.
	Cache *CacheConfig

	// HTTPTimeout: optional overall timeout for non-streaming requests.
	HTTPTimeout time.Duration

	// RetryMax: maximum number of connection retries. If 0, a small
	// default is used.
	RetryMax int
	// RetryWaitMin: minimum wait between connection retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum wait between connection retries.
	RetryWaitMax time.Duration

	// Debug: enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger

	// UserAgent: overrides the default User-Agent header.
	UserAgent string
}
