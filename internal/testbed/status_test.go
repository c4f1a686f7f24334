package testbed

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus_WriteTo(t *testing.T) {
	s := &Status{
		Login:         "test",
		Hostname:      "2001:db8::2",
		Capabilities:  Capabilities,
		Identity:      "/home/dev/.ssh/id_rsa",
		ContainerName: "autopkgtest-deadbeef",
		ImageID:       "sha256:abc",
	}

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		"login=test",
		"hostname=2001:db8::2",
		"capabilities=isolation-container,revert,revert-full-system",
		"identity=/home/dev/.ssh/id_rsa",
		"extraopts=--container autopkgtest-deadbeef --image sha256:abc",
	}, lines)
}

func TestStatus_ExtraOpts(t *testing.T) {
	s := &Status{ContainerName: "autopkgtest-0a1b2c3d", ImageID: "sha256:1"}
	require.Equal(t, []string{"--container", "autopkgtest-0a1b2c3d", "--image", "sha256:1"}, s.ExtraOpts())
}
