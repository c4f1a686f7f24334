package testbedtest

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
)

// WriteIdentity creates an ed25519 key pair at home/.ssh/id_ed25519 and
// returns the private key path and the public key line. Only the public
// half is real; the private file is a placeholder.
func WriteIdentity(t *testing.T, home string) (string, string) {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("encode key: %v", err)
	}

	dir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	private := filepath.Join(dir, "id_ed25519")
	if err := os.WriteFile(private, []byte("placeholder\n"), 0o600); err != nil {
		t.Fatalf("write private key: %v", err)
	}
	line := string(ssh.MarshalAuthorizedKey(sshPub))
	if err := os.WriteFile(private+".pub", []byte(line), 0o644); err != nil {
		t.Fatalf("write public key: %v", err)
	}
	return private, line[:len(line)-1]
}
