package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/osc-tiny/internal/config"
)

func writeOscrc(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "oscrc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestPath(t *testing.T) {
	t.Run("OSC_CONFIG wins", func(t *testing.T) {
		path := writeOscrc(t, "[general]\n")
		t.Setenv("OSC_CONFIG", path)

		found, err := config.Path()
		require.NoError(t, err)
		assert.Equal(t, path, found)
	})

	t.Run("falls back to home and XDG locations", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("OSC_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

		_, err := config.Path()
		require.ErrorIs(t, err, config.ErrConfigNotFound)

		oscrc := filepath.Join(home, ".oscrc")
		require.NoError(t, os.WriteFile(oscrc, []byte("[general]\n"), 0o600))

		found, err := config.Path()
		require.NoError(t, err)
		assert.Equal(t, oscrc, found)
	})
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	t.Run("plain password", func(t *testing.T) {
		t.Parallel()

		path := writeOscrc(t, `[general]
apiurl = https://api.opensuse.org

[https://api.opensuse.org]
user = alice
pass = secret
`)

		file, err := config.Load(path)
		require.NoError(t, err)

		apiURL, credential, err := config.Credentials(file, "")
		require.NoError(t, err)
		assert.Equal(t, "https://api.opensuse.org", apiURL)
		assert.Equal(t, "alice", credential.Username)
		assert.Equal(t, "secret", credential.Password)
		assert.Empty(t, credential.SSHKeyPath)
	})

	t.Run("obfuscated passx", func(t *testing.T) {
		t.Parallel()

		// base64-wrapped bzip2 stream of "tr0ub4dor&3".
		path := writeOscrc(t, `[general]
apiurl = https://api.opensuse.org

[https://api.opensuse.org]
user = alice
passx = QlpoOTFBWSZTWeVNyawAAASZgAEATAAUAJYAIAAiAGnqEAME0YauA8XckU4UJDlTcmsA
`)

		file, err := config.Load(path)
		require.NoError(t, err)

		_, credential, err := config.Credentials(file, "")
		require.NoError(t, err)
		assert.Equal(t, "tr0ub4dor&3", credential.Password)
	})

	t.Run("sshkey wins over password", func(t *testing.T) {
		t.Parallel()

		path := writeOscrc(t, `[general]
apiurl = https://api.opensuse.org

[https://api.opensuse.org]
user = alice
pass = secret
sshkey = /home/alice/.ssh/id_ed25519
`)

		file, err := config.Load(path)
		require.NoError(t, err)

		_, credential, err := config.Credentials(file, "")
		require.NoError(t, err)
		assert.Equal(t, "/home/alice/.ssh/id_ed25519", credential.SSHKeyPath)
		assert.Empty(t, credential.Password)
	})

	t.Run("explicit URL with trailing slash tolerance", func(t *testing.T) {
		t.Parallel()

		path := writeOscrc(t, `[https://api.suse.de/]
user = bob
pass = hunter2
`)

		file, err := config.Load(path)
		require.NoError(t, err)

		apiURL, credential, err := config.Credentials(file, "https://api.suse.de")
		require.NoError(t, err)
		assert.Equal(t, "https://api.suse.de", apiURL)
		assert.Equal(t, "bob", credential.Username)
	})

	t.Run("missing default instance", func(t *testing.T) {
		t.Parallel()

		file, err := config.Load(writeOscrc(t, "[general]\n"))
		require.NoError(t, err)

		_, _, err = config.Credentials(file, "")
		require.ErrorIs(t, err, config.ErrNoDefaultAPIURL)
	})

	t.Run("missing section for URL", func(t *testing.T) {
		t.Parallel()

		file, err := config.Load(writeOscrc(t, "[general]\napiurl = https://api.opensuse.org\n"))
		require.NoError(t, err)

		_, _, err = config.Credentials(file, "https://api.opensuse.org")
		require.ErrorIs(t, err, config.ErrNoSectionForURL)
	})

	t.Run("missing username", func(t *testing.T) {
		t.Parallel()

		file, err := config.Load(writeOscrc(t, "[https://api.opensuse.org]\npass = secret\n"))
		require.NoError(t, err)

		_, _, err = config.Credentials(file, "https://api.opensuse.org")
		require.ErrorIs(t, err, config.ErrNoUsername)
	})

	t.Run("missing password", func(t *testing.T) {
		t.Parallel()

		file, err := config.Load(writeOscrc(t, "[https://api.opensuse.org]\nuser = alice\n"))
		require.NoError(t, err)

		_, _, err = config.Credentials(file, "https://api.opensuse.org")
		require.ErrorIs(t, err, config.ErrNoPassword)
	})
}

func TestDefaultAPIURL(t *testing.T) {
	t.Parallel()

	file, err := config.Load(writeOscrc(t, "[general]\napiurl = https://api.opensuse.org\n"))
	require.NoError(t, err)

	apiURL, err := config.DefaultAPIURL(file)
	require.NoError(t, err)
	assert.Equal(t, "https://api.opensuse.org", apiURL)
}
