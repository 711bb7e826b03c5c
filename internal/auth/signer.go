package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/SUSE/osc-tiny/pkg/osc"
)

// Signer produces a detached signature over a canonical challenge string.
// Implementations may shell out to an OpenSSH utility or use an in-process
// cryptographic library; the authenticator does not care which.
type Signer interface {
	Sign(ctx context.Context, message []byte, namespace string) ([]byte, error)
}

// sshSignatureArmor frames the output of ssh-keygen -Y sign.
var sshSignatureArmor = regexp.MustCompile(`(?s)-----BEGIN SSH SIGNATURE-----\n(.*)\n-----END SSH SIGNATURE-----`)

// SSHSigner signs challenges by spawning one short-lived `ssh-keygen -Y
// sign` process per operation. The passphrase is passed inline when
// configured; otherwise unlocking is deferred to a running ssh-agent,
// which may block on user interaction. A rejected passphrase is a
// permanent failure for that call; the signer never retries.
type SSHSigner struct {
	keyPath    string
	passphrase string
	command    string
}

// NewSSHSigner creates a signer for the given private key. The key file
// must exist up front so a typo fails fast instead of on the first 401.
func NewSSHSigner(keyPath, passphrase string) (*SSHSigner, error) {
	info, err := os.Stat(keyPath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", osc.ErrSSHKeyNotFound, keyPath)
	}

	return &SSHSigner{
		keyPath:    keyPath,
		passphrase: passphrase,
		command:    "ssh-keygen",
	}, nil
}

// Sign runs the external signing utility and returns the raw signature
// bytes extracted from its armored output.
func (s *SSHSigner) Sign(ctx context.Context, message []byte, namespace string) ([]byte, error) {
	args := []string{"-Y", "sign", "-f", s.keyPath, "-q", "-n", namespace}
	if s.passphrase != "" {
		args = append(args, "-P", s.passphrase)
	}

	cmd := exec.CommandContext(ctx, s.command, args...)
	cmd.Stdin = bytes.NewReader(message)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return nil, &osc.SigningError{
			Command: s.command,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	match := sshSignatureArmor.FindSubmatch(stdout.Bytes())
	if match == nil {
		return nil, &osc.SigningError{
			Command: s.command,
			Err:     fmt.Errorf("output carries no SSH signature armor"),
		}
	}

	// The armored payload is base64 wrapped at 70 columns; decode it to
	// the raw signature.
	compact := strings.ReplaceAll(string(match[1]), "\n", "")

	signature, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, &osc.SigningError{
			Command: s.command,
			Err:     fmt.Errorf("decoding signature armor: %w", err),
		}
	}

	return signature, nil
}
