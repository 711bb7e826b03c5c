// Package config reads the legacy osc configuration file so command line
// tools built on this module can reuse credentials the user already has.
package config

import (
	"compress/bzip2"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/SUSE/osc-tiny/pkg/osc"
)

// Static errors for osc configuration handling.
var (
	// ErrConfigNotFound indicates no osc configuration file exists.
	ErrConfigNotFound = errors.New("no osc configuration file found")
	// ErrNoDefaultAPIURL indicates the config names no default instance.
	ErrNoDefaultAPIURL = errors.New("osc config does not provide the default API URL")
	// ErrNoSectionForURL indicates the config has no section for the URL.
	ErrNoSectionForURL = errors.New("osc config has no section for URL")
	// ErrNoUsername indicates the section carries no username.
	ErrNoUsername = errors.New("osc config provides no username")
	// ErrNoPassword indicates the section carries no usable credential.
	ErrNoPassword = errors.New("osc config provides no password or SSH key")
)

// Path returns the osc configuration file location. The OSC_CONFIG
// environment variable wins, then ~/.oscrc, then the XDG location.
func Path() (string, error) {
	if envPath := os.Getenv("OSC_CONFIG"); envPath != "" {
		if isFile(envPath) {
			return envPath, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	xdgHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgHome == "" {
		xdgHome = filepath.Join(home, ".config")
	}

	candidates := []string{
		filepath.Join(home, ".oscrc"),
		filepath.Join(xdgHome, "osc", "oscrc"),
	}

	for _, candidate := range candidates {
		if isFile(candidate) {
			return candidate, nil
		}
	}

	return "", ErrConfigNotFound
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// Load reads the configuration file at path. An empty path triggers
// discovery via Path.
func Load(path string) (*ini.File, error) {
	var err error

	if path == "" {
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parsing osc config: %w", err)
	}

	return file, nil
}

// DefaultAPIURL returns the apiurl from the [general] section.
func DefaultAPIURL(file *ini.File) (string, error) {
	apiurl := file.Section("general").Key("apiurl").String()
	if apiurl == "" {
		return "", ErrNoDefaultAPIURL
	}

	return apiurl, nil
}

// Credentials extracts the credential for the given instance URL. An
// empty URL selects the default instance from the [general] section.
// The sshkey option wins over stored passwords, matching osc behavior.
func Credentials(file *ini.File, apiURL string) (string, osc.Credential, error) {
	var err error

	if apiURL == "" {
		apiURL, err = DefaultAPIURL(file)
		if err != nil {
			return "", osc.Credential{}, err
		}
	}

	section := findSection(file, apiURL)
	if section == nil {
		return "", osc.Credential{}, fmt.Errorf("%w: %s", ErrNoSectionForURL, apiURL)
	}

	username := section.Key("user").String()
	if username == "" {
		return "", osc.Credential{}, fmt.Errorf("%w for URL %s", ErrNoUsername, apiURL)
	}

	credential := osc.Credential{Username: username}

	if sshKey := section.Key("sshkey").String(); sshKey != "" {
		credential.SSHKeyPath = expandHome(sshKey)

		return apiURL, credential, nil
	}

	password := section.Key("pass").String()
	if password == "" {
		password, err = decodePassx(section.Key("passx").String())
		if err != nil {
			return "", osc.Credential{}, err
		}
	}

	if password == "" {
		return "", osc.Credential{}, fmt.Errorf("%w for URL %s", ErrNoPassword, apiURL)
	}

	credential.Password = password

	return apiURL, credential, nil
}

// findSection matches a section by URL, tolerating a trailing slash on
// either side.
func findSection(file *ini.File, apiURL string) *ini.Section {
	trimmed := strings.TrimSuffix(apiURL, "/")

	for _, section := range file.Sections() {
		if strings.TrimSuffix(section.Name(), "/") == trimmed {
			return section
		}
	}

	return nil
}

// decodePassx decodes an obfuscated password: base64 wrapping a bzip2
// stream of the clear text.
func decodePassx(passx string) (string, error) {
	if passx == "" {
		return "", nil
	}

	compressed, err := base64.StdEncoding.DecodeString(passx)
	if err != nil {
		return "", fmt.Errorf("decoding passx: %w", err)
	}

	clear, err := io.ReadAll(bzip2.NewReader(strings.NewReader(string(compressed))))
	if err != nil {
		return "", fmt.Errorf("decompressing passx: %w", err)
	}

	return string(clear), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}
