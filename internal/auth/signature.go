package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SUSE/osc-tiny/internal/constants"
	"github.com/SUSE/osc-tiny/pkg/osc"
)

// SignatureAuthenticator implements the challenge/response scheme that
// authenticates via a detached SSH signature instead of a password.
//
// The first request of a session goes out unauthenticated. The server
// answers 401 with a Signature challenge; the challenge is signed through
// the Signer and the request is resent with the resulting Authorization
// header. On success the server hands out a session cookie which is reused
// for all later requests, because signing is expensive and potentially
// interactive (passphrase entry or an agent round trip).
type SignatureAuthenticator struct {
	username string
	signer   Signer
	session  *Session
	now      func() time.Time
}

// NewSignatureAuthenticator creates a Signature authenticator backed by
// the given signer.
func NewSignatureAuthenticator(username string, signer Signer) *SignatureAuthenticator {
	return &SignatureAuthenticator{
		username: username,
		signer:   signer,
		session:  &Session{},
		now:      time.Now,
	}
}

// Authorize attaches the session cookie when one is established. Without a
// session the request is sent bare; the server's challenge drives the
// negotiation.
func (a *SignatureAuthenticator) Authorize(ctx context.Context, req *http.Request) error {
	if cookie := a.session.Cookie(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	return nil
}

// HandleChallenge signs the server challenge and builds the Authorization
// header. Exactly one signing attempt is made per challenge; a repeated
// rejection is surfaced by the engine as a permanent authentication
// failure, never by signing again.
func (a *SignatureAuthenticator) HandleChallenge(ctx context.Context, challenges []*Challenge, method, path string) (string, error) {
	challenge := findChallenge(challenges, constants.SignatureScheme)
	if challenge == nil {
		return "", &osc.AuthenticationError{
			Detail: "server offered no Signature challenge",
		}
	}

	created := a.now().Unix()

	signedHeaders := challenge.Headers
	if signedHeaders == "" {
		signedHeaders = constants.DefaultSignedHeaders
	}

	message := SigningString(signedHeaders, created, challenge.Nonce)

	signature, err := a.signer.Sign(ctx, []byte(message), challenge.Realm)
	if err != nil {
		return "", err
	}

	header := fmt.Sprintf("%s keyId=%q,algorithm=\"ssh\",headers=%q,created=%d,signature=%s",
		constants.SignatureScheme, a.username, signedHeaders, created,
		base64.StdEncoding.EncodeToString(signature))

	if challenge.Nonce != "" {
		header += fmt.Sprintf(",nonce=%q", challenge.Nonce)
	}

	return header, nil
}

// SigningString builds the canonical string covered by the signature:
// the signed header list and the creation timestamp, with the server
// nonce on its own line when the challenge carries one.
func SigningString(signedHeaders string, created int64, nonce string) string {
	var sb strings.Builder

	if nonce != "" {
		fmt.Fprintf(&sb, "nonce: %s\n", nonce)
	}

	fmt.Fprintf(&sb, "%s: %d", signedHeaders, created)

	return sb.String()
}

// Observe tracks the session cookie lifecycle.
func (a *SignatureAuthenticator) Observe(resp *http.Response) {
	observeSession(a.session, resp, constants.SignatureScheme)
}

// Session exposes the shared session state.
func (a *SignatureAuthenticator) Session() *Session {
	return a.session
}
