// Package auth implements the authentication flows of the build service:
// plain Basic credentials and the Signature challenge/response scheme that
// replaces passwords with a detached SSH signature over a server
// challenge. Both flows share a session cookie so that expensive
// negotiation happens at most once per session.
package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Authenticator turns credentials into request authorization.
//
// Authorize attaches whatever the flow can provide proactively (a Basic
// header, a live session cookie). HandleChallenge answers a 401 challenge
// with a full Authorization header value; the engine resends the request
// with it exactly once per logical call. Observe lets the authenticator
// watch responses to capture session cookies and drop invalidated
// sessions.
type Authenticator interface {
	Authorize(ctx context.Context, req *http.Request) error
	HandleChallenge(ctx context.Context, challenges []*Challenge, method, path string) (string, error)
	Observe(resp *http.Response)
}

// Challenge is one parsed WWW-Authenticate value. Ephemeral: one per
// unauthenticated response.
type Challenge struct {
	Scheme string
	Realm  string
	// Headers lists the tokens to be signed, e.g. "(created)".
	Headers string
	// Nonce is a one-time token some instances add to prevent replay.
	Nonce string
	// Params holds all raw challenge parameters.
	Params map[string]string
}

// ParseChallenges extracts all challenges from the WWW-Authenticate
// headers of a response. The build service may offer several schemes at
// once.
func ParseChallenges(headers http.Header) []*Challenge {
	var challenges []*Challenge

	for _, value := range headers.Values("Www-Authenticate") {
		challenge := parseChallenge(value)
		if challenge != nil {
			challenges = append(challenges, challenge)
		}
	}

	return challenges
}

// parseChallenge parses a single `Scheme key="value", ...` header value.
func parseChallenge(value string) *Challenge {
	scheme, rest, _ := strings.Cut(strings.TrimSpace(value), " ")
	if scheme == "" {
		return nil
	}

	challenge := &Challenge{
		Scheme: scheme,
		Params: make(map[string]string),
	}

	for _, pair := range splitParams(rest) {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.Trim(strings.TrimSpace(val), `"`)
		challenge.Params[key] = val

		switch key {
		case "realm":
			challenge.Realm = val
		case "headers":
			challenge.Headers = val
		case "nonce":
			challenge.Nonce = val
		}
	}

	return challenge
}

// splitParams splits comma separated parameters, honoring quoted values.
func splitParams(raw string) []string {
	var (
		parts    []string
		current  strings.Builder
		inQuotes bool
	)

	for _, r := range raw {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// findChallenge returns the first challenge using the given scheme.
func findChallenge(challenges []*Challenge, scheme string) *Challenge {
	for _, challenge := range challenges {
		if strings.EqualFold(challenge.Scheme, scheme) {
			return challenge
		}
	}

	return nil
}

// Session is the cookie-backed authentication state shared by all calls
// using one authenticator. Updates are atomic: concurrent readers see
// either the old or the new session, never a torn value.
type Session struct {
	mu            sync.RWMutex
	cookie        string
	establishedAt time.Time
	kind          string
}

// Cookie returns the current session cookie, or an empty string when no
// session is established.
func (s *Session) Cookie() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cookie
}

// Active reports whether a session is established.
func (s *Session) Active() bool {
	return s.Cookie() != ""
}

// Establish stores a fresh session cookie.
func (s *Session) Establish(cookie, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookie = cookie
	s.establishedAt = time.Now()
	s.kind = kind
}

// Invalidate drops the session; the next call renegotiates.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookie = ""
	s.establishedAt = time.Time{}
	s.kind = ""
}

// EstablishedAt returns when the current session was created.
func (s *Session) EstablishedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.establishedAt
}

// observeSession captures a session cookie from a successful response and
// invalidates the session when the server rejected the attached one.
func observeSession(session *Session, resp *http.Response, kind string) {
	if resp == nil {
		return
	}

	if resp.StatusCode == http.StatusUnauthorized {
		session.Invalidate()

		return
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Value != "" {
			session.Establish(cookie.Name+"="+cookie.Value, kind)

			return
		}
	}
}
