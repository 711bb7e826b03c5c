package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/osc-tiny/pkg/osc"
)

// writeFakeKeygen drops an executable that mimics `ssh-keygen -Y sign`:
// it records its arguments and stdin, then prints an armored signature of
// the literal bytes "some-raw-signature-bytes".
func writeFakeKeygen(t *testing.T, dir string) string {
	t.Helper()

	script := `#!/bin/sh
printf '%s\n' "$@" > "` + dir + `/args"
cat > "` + dir + `/stdin"
echo "-----BEGIN SSH SIGNATURE-----"
echo "c29tZS1yYXctc2ln"
echo "bmF0dXJlLWJ5dGVz"
echo "-----END SSH SIGNATURE-----"
`

	path := filepath.Join(dir, "fake-keygen")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))

	return path
}

func writeFakeKey(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "id_ed25519")
	require.NoError(t, os.WriteFile(path, []byte("fake key material"), 0o600))

	return path
}

func TestNewSSHSigner(t *testing.T) {
	t.Parallel()

	t.Run("existing key", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		signer, err := NewSSHSigner(writeFakeKey(t, dir), "")
		require.NoError(t, err)
		assert.NotNil(t, signer)
	})

	t.Run("missing key fails fast", func(t *testing.T) {
		t.Parallel()

		_, err := NewSSHSigner(filepath.Join(t.TempDir(), "nope"), "")
		require.ErrorIs(t, err, osc.ErrSSHKeyNotFound)
	})

	t.Run("directory is not a key", func(t *testing.T) {
		t.Parallel()

		_, err := NewSSHSigner(t.TempDir(), "")
		require.ErrorIs(t, err, osc.ErrSSHKeyNotFound)
	})
}

func TestSSHSignerSign(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("parses the armored output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		keyPath := writeFakeKey(t, dir)

		signer, err := NewSSHSigner(keyPath, "")
		require.NoError(t, err)

		signer.command = writeFakeKeygen(t, dir)

		signature, err := signer.Sign(ctx, []byte("(created): 1700000000"), "Use your developer account")
		require.NoError(t, err)
		assert.Equal(t, []byte("some-raw-signature-bytes"), signature)

		stdin, err := os.ReadFile(filepath.Join(dir, "stdin"))
		require.NoError(t, err)
		assert.Equal(t, "(created): 1700000000", string(stdin))

		args, err := os.ReadFile(filepath.Join(dir, "args"))
		require.NoError(t, err)
		assert.Equal(t, "-Y\nsign\n-f\n"+keyPath+"\n-q\n-n\nUse your developer account\n", string(args))
	})

	t.Run("passphrase is passed through", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		keyPath := writeFakeKey(t, dir)

		signer, err := NewSSHSigner(keyPath, "hunter2")
		require.NoError(t, err)

		signer.command = writeFakeKeygen(t, dir)

		_, err = signer.Sign(ctx, []byte("message"), "realm")
		require.NoError(t, err)

		args, err := os.ReadFile(filepath.Join(dir, "args"))
		require.NoError(t, err)
		assert.Contains(t, string(args), "-P\nhunter2\n")
	})

	t.Run("command failure carries stderr", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		keyPath := writeFakeKey(t, dir)

		script := "#!/bin/sh\necho 'incorrect passphrase supplied' >&2\nexit 255\n"
		failing := filepath.Join(dir, "failing-keygen")
		require.NoError(t, os.WriteFile(failing, []byte(script), 0o700))

		signer, err := NewSSHSigner(keyPath, "wrong")
		require.NoError(t, err)

		signer.command = failing

		_, err = signer.Sign(ctx, []byte("message"), "realm")

		signingErr := &osc.SigningError{}
		require.ErrorAs(t, err, &signingErr)
		assert.Contains(t, signingErr.Stderr, "incorrect passphrase")
	})

	t.Run("missing binary", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		signer, err := NewSSHSigner(writeFakeKey(t, dir), "")
		require.NoError(t, err)

		signer.command = filepath.Join(dir, "does-not-exist")

		_, err = signer.Sign(ctx, []byte("message"), "realm")

		signingErr := &osc.SigningError{}
		require.ErrorAs(t, err, &signingErr)
	})

	t.Run("output without armor", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		keyPath := writeFakeKey(t, dir)

		script := "#!/bin/sh\ncat > /dev/null\necho 'not an armored signature'\n"
		bare := filepath.Join(dir, "bare-keygen")
		require.NoError(t, os.WriteFile(bare, []byte(script), 0o700))

		signer, err := NewSSHSigner(keyPath, "")
		require.NoError(t, err)

		signer.command = bare

		_, err = signer.Sign(ctx, []byte("message"), "realm")

		signingErr := &osc.SigningError{}
		require.ErrorAs(t, err, &signingErr)
	})
}
