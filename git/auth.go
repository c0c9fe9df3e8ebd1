package git

import (
	"errors"
	"os"

	giterrors "github.com/bigfatbrowncat/gogit2/errors"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// SSHKeyOption configures SSH key authentication.
type SSHKeyOption func(*sshKeyOptions)

type sshKeyOptions struct {
	password string
}

// WithSSHPassword sets the password for encrypted SSH keys.
func WithSSHPassword(password string) SSHKeyOption {
	return func(opts *sshKeyOptions) {
		opts.password = password
	}
}

// SSHKeyAuth creates SSH authentication from PEM-encoded key bytes.
//
// Parameters:
//   - user: SSH username (typically "git" for Git hosting services)
//   - pemBytes: PEM-encoded private key bytes
//   - opts: optional configuration (use WithSSHPassword for encrypted keys)
//
// A key that cannot be parsed fails with CodeInvalidInput.
//
// Example:
//
//	auth, err := git.SSHKeyAuth("git", keyBytes, git.WithSSHPassword("mypassphrase"))
func SSHKeyAuth(user string, pemBytes []byte, opts ...SSHKeyOption) (Auth, error) {
	options := &sshKeyOptions{}
	for _, opt := range opts {
		opt(options)
	}

	publicKeys, err := ssh.NewPublicKeys(user, pemBytes, options.password)
	if err != nil {
		return nil, giterrors.Wrap(err, giterrors.CodeInvalidInput, "failed to parse SSH key")
	}
	return publicKeys, nil
}

// SSHKeyFile creates SSH authentication by reading a key from a file.
// A missing file fails with CodeNotFound.
func SSHKeyFile(user, keyPath string, opts ...SSHKeyOption) (Auth, error) {
	pemBytes, err := os.ReadFile(keyPath)
	if err != nil {
		code := giterrors.CodeInternal
		if errors.Is(err, os.ErrNotExist) {
			code = giterrors.CodeNotFound
		}
		return nil, giterrors.WithContext(
			giterrors.Wrap(err, code, "failed to read SSH key file"),
			"path", keyPath,
		)
	}

	return SSHKeyAuth(user, pemBytes, opts...)
}

// BasicAuth creates HTTP basic authentication, typically a user name and a
// personal access token.
//
// Example:
//
//	auth := git.BasicAuth("myuser", "ghp_mytoken")
func BasicAuth(username, password string) Auth {
	return &http.BasicAuth{
		Username: username,
		Password: password,
	}
}

// EmptyAuth returns nil authentication for public repositories.
func EmptyAuth() Auth {
	return nil
}
