package testbed

import (
	"fmt"
	"io"
	"strings"
)

// Capabilities advertised to autopkgtest-virt-ssh.
var Capabilities = []string{"isolation-container", "revert", "revert-full-system"}

// Status is the record autopkgtest-virt-ssh reads from stdout after open
// and revert.
type Status struct {
	Login         string
	Hostname      string
	Capabilities  []string
	Identity      string
	ContainerName string
	ImageID       string
}

// ExtraOpts returns the arguments that address this testbed in later
// cleanup, revert and debug-failure calls.
func (s *Status) ExtraOpts() []string {
	return []string{"--container", s.ContainerName, "--image", s.ImageID}
}

// String renders the five key=value lines, each newline terminated.
func (s *Status) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "login=%s\n", s.Login)
	fmt.Fprintf(&sb, "hostname=%s\n", s.Hostname)
	fmt.Fprintf(&sb, "capabilities=%s\n", strings.Join(s.Capabilities, ","))
	fmt.Fprintf(&sb, "identity=%s\n", s.Identity)
	fmt.Fprintf(&sb, "extraopts=%s\n", strings.Join(s.ExtraOpts(), " "))
	return sb.String()
}

// WriteTo implements io.WriterTo.
func (s *Status) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}
