package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/osc-tiny/pkg/osc"
)

type fakeSigner struct {
	calls      int
	messages   []string
	namespaces []string
	err        error
}

func (s *fakeSigner) Sign(ctx context.Context, message []byte, namespace string) ([]byte, error) {
	s.calls++
	s.messages = append(s.messages, string(message))
	s.namespaces = append(s.namespaces, namespace)

	if s.err != nil {
		return nil, s.err
	}

	return []byte("raw-signature"), nil
}

func TestSigningString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(created): 1700000000", SigningString("(created)", 1700000000, ""))
	assert.Equal(t, "nonce: abc\n(created): 1700000000", SigningString("(created)", 1700000000, "abc"))
}

func TestSignatureAuthenticatorHandleChallenge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	created := time.Unix(1700000000, 0)

	newAuthenticator := func(signer Signer) *SignatureAuthenticator {
		authenticator := NewSignatureAuthenticator("alice", signer)
		authenticator.now = func() time.Time { return created }

		return authenticator
	}

	t.Run("signs the canonical string and builds the header", func(t *testing.T) {
		t.Parallel()

		signer := &fakeSigner{}
		authenticator := newAuthenticator(signer)

		header, err := authenticator.HandleChallenge(ctx, []*Challenge{
			{Scheme: "Signature", Realm: "Use your developer account", Headers: "(created)"},
		}, http.MethodGet, "/source")
		require.NoError(t, err)

		require.Equal(t, 1, signer.calls)
		assert.Equal(t, "(created): 1700000000", signer.messages[0])
		assert.Equal(t, "Use your developer account", signer.namespaces[0])

		expected := fmt.Sprintf(
			`Signature keyId="alice",algorithm="ssh",headers="(created)",created=1700000000,signature=%s`,
			base64.StdEncoding.EncodeToString([]byte("raw-signature")))
		assert.Equal(t, expected, header)
	})

	t.Run("defaults the signed header list", func(t *testing.T) {
		t.Parallel()

		signer := &fakeSigner{}
		authenticator := newAuthenticator(signer)

		header, err := authenticator.HandleChallenge(ctx, []*Challenge{
			{Scheme: "Signature", Realm: "Use your developer account"},
		}, http.MethodGet, "/source")
		require.NoError(t, err)

		assert.Contains(t, header, `headers="(created)"`)
		assert.Equal(t, "(created): 1700000000", signer.messages[0])
	})

	t.Run("nonce is signed and echoed", func(t *testing.T) {
		t.Parallel()

		signer := &fakeSigner{}
		authenticator := newAuthenticator(signer)

		header, err := authenticator.HandleChallenge(ctx, []*Challenge{
			{Scheme: "Signature", Realm: "realm", Headers: "(created)", Nonce: "abc123"},
		}, http.MethodGet, "/source")
		require.NoError(t, err)

		assert.Equal(t, "nonce: abc123\n(created): 1700000000", signer.messages[0])
		assert.Contains(t, header, `,nonce="abc123"`)
	})

	t.Run("basic-only challenge is a permanent failure", func(t *testing.T) {
		t.Parallel()

		signer := &fakeSigner{}
		authenticator := newAuthenticator(signer)

		_, err := authenticator.HandleChallenge(ctx, []*Challenge{
			{Scheme: "Basic", Realm: "realm"},
		}, http.MethodGet, "/source")

		authErr := &osc.AuthenticationError{}
		require.ErrorAs(t, err, &authErr)
		assert.Zero(t, signer.calls)
	})

	t.Run("signer failures pass through", func(t *testing.T) {
		t.Parallel()

		signer := &fakeSigner{err: &osc.SigningError{Command: "ssh-keygen", Stderr: "incorrect passphrase"}}
		authenticator := newAuthenticator(signer)

		_, err := authenticator.HandleChallenge(ctx, []*Challenge{
			{Scheme: "Signature", Realm: "realm"},
		}, http.MethodGet, "/source")

		signingErr := &osc.SigningError{}
		require.ErrorAs(t, err, &signingErr)
	})
}

func TestSignatureAuthenticatorSessionReuse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	signer := &fakeSigner{}
	authenticator := NewSignatureAuthenticator("alice", signer)

	// Before negotiation the request goes out bare.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.opensuse.org/source", nil)
	require.NoError(t, err)
	require.NoError(t, authenticator.Authorize(ctx, req))
	assert.Empty(t, req.Header.Get("Cookie"))
	assert.Empty(t, req.Header.Get("Authorization"))

	// A successful response establishes the session.
	authenticator.Observe(&http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Set-Cookie": {"openSUSE_session=abc; Path=/; HttpOnly"}},
	})

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, "https://api.opensuse.org/source", nil)
	require.NoError(t, err)
	require.NoError(t, authenticator.Authorize(ctx, req))
	assert.Equal(t, "openSUSE_session=abc", req.Header.Get("Cookie"))

	// Session reuse means no further signing happened.
	assert.Zero(t, signer.calls)
}
