package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func authorizedKey(t *testing.T, comment string) string {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if comment != "" {
		line += " " + comment
	}
	return line
}

func writeKeyPair(t *testing.T, dir, name, pub string) string {
	t.Helper()
	private := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(private, []byte("PRIVATE"), 0o600))
	if pub != "" {
		require.NoError(t, os.WriteFile(private+".pub", []byte(pub+"\n"), 0o644))
	}
	return private
}

func TestFind_FirstExistingCandidateWins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	sshDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(sshDir, 0o700))

	pub := authorizedKey(t, "user@host")
	writeKeyPair(t, sshDir, "id_ecdsa", pub)
	writeKeyPair(t, sshDir, "id_rsa", authorizedKey(t, ""))

	id, err := Find([]string{"~/.ssh/id_ed25519", "~/.ssh/id_ecdsa", "~/.ssh/id_rsa"})
	require.NoError(t, err)

	require.Equal(t, filepath.Join(sshDir, "id_ecdsa"), id.PrivateKeyPath)
	require.Equal(t, filepath.Join(sshDir, "id_ecdsa.pub"), id.PublicKeyPath)
	require.Equal(t, pub, id.PublicKey)
}

func TestFind_NoCandidates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Find([]string{"~/.ssh/id_ed25519"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoIdentity))
	require.Contains(t, err.Error(), "~/.ssh/id_ed25519")
}

func TestFind_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "id_ed25519"), 0o700))
	private := writeKeyPair(t, dir, "id_rsa", authorizedKey(t, ""))

	id, err := Find([]string{filepath.Join(dir, "id_ed25519"), private})
	require.NoError(t, err)
	require.Equal(t, private, id.PrivateKeyPath)
}

func TestFind_MissingPublicKey(t *testing.T) {
	dir := t.TempDir()
	private := writeKeyPair(t, dir, "id_ed25519", "")

	_, err := Find([]string{private})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoIdentity))
}

func TestFind_InvalidPublicKey(t *testing.T) {
	dir := t.TempDir()
	private := writeKeyPair(t, dir, "id_ed25519", "not a key")

	_, err := Find([]string{private})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoIdentity))
	require.Contains(t, err.Error(), "id_ed25519.pub")
}

func TestFind_NormalizesPublicKey(t *testing.T) {
	dir := t.TempDir()
	pub := authorizedKey(t, "ci@builder")
	fields := strings.Fields(pub)
	messy := "  " + fields[0] + "   " + fields[1] + "  " + fields[2] + "  \n\n"
	private := writeKeyPair(t, dir, "id_ed25519", messy)

	id, err := Find([]string{private})
	require.NoError(t, err)
	require.Equal(t, pub, id.PublicKey)
	require.NotContains(t, id.PublicKey, "\n")
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	tests := []struct {
		in   string
		want string
	}{
		{"~", "/home/alice"},
		{"~/.ssh/id_rsa", "/home/alice/.ssh/id_rsa"},
		{"/etc/ssh/key", "/etc/ssh/key"},
		{"~bob/.ssh/id_rsa", "~bob/.ssh/id_rsa"},
		{"relative/key", "relative/key"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
