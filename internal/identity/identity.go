// Package identity locates the SSH key pair the harness logs in with.
package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// ErrNoIdentity is returned when no candidate yields a usable key pair.
var ErrNoIdentity = errors.New("no usable SSH identity found")

// Identity is an SSH key pair on the local machine.
type Identity struct {
	PrivateKeyPath string
	PublicKeyPath  string
	// PublicKey is the public key as a single authorized_keys line.
	PublicKey string
}

// Find returns the first candidate that is a regular file. Its ".pub"
// companion must hold a valid SSH public key. A leading "~/" is expanded
// against the user's home directory.
func Find(candidates []string) (*Identity, error) {
	for _, c := range candidates {
		path, err := ExpandHome(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoIdentity, err)
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		return load(path)
	}
	return nil, fmt.Errorf("%w (tried %s)", ErrNoIdentity, strings.Join(candidates, ", "))
}

func load(private string) (*Identity, error) {
	pubPath := private + ".pub"
	data, err := os.ReadFile(pubPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoIdentity, err)
	}
	line, err := normalize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoIdentity, pubPath, err)
	}
	return &Identity{
		PrivateKeyPath: private,
		PublicKeyPath:  pubPath,
		PublicKey:      line,
	}, nil
}

// normalize parses an authorized_keys style public key and re-renders it
// as "<type> <base64> [comment]" on a single line.
func normalize(data []byte) (string, error) {
	pub, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub)))
	if comment != "" {
		line += " " + comment
	}
	return line, nil
}

// ExpandHome expands a leading "~" or "~/" to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
