package testbed

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies testbed failures. Each kind maps to a distinct exit code.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoIdentity
	KindBuild
	KindImageNotFound
	KindContainerStart
	KindProvision
	KindNoAddress
	KindNotFound
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindNoIdentity:     "no-identity",
	KindBuild:          "build",
	KindImageNotFound:  "image-not-found",
	KindContainerStart: "container-start",
	KindProvision:      "provision",
	KindNoAddress:      "no-address",
	KindNotFound:       "not-found",
}

// Kinds returns every classified kind in exit code order.
func Kinds() []Kind {
	return []Kind{
		KindNoIdentity,
		KindBuild,
		KindImageNotFound,
		KindContainerStart,
		KindProvision,
		KindNoAddress,
		KindNotFound,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ExitCode returns the process exit status for the kind.
// Codes 1 and 2 are reserved for generic and usage errors.
func (k Kind) ExitCode() int {
	if k == KindUnknown {
		return 1
	}
	return int(k) + 2
}

// Error is a testbed failure with remediation steps for the user.
type Error struct {
	Kind      Kind
	Op        string   // Operation that failed (e.g., "open", "build", "provision")
	Message   string   // Human-readable message
	Err       error    // Underlying error
	NextSteps []string // Suggested remediation steps
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FormatUserError formats the error for display to users with next steps.
func (e *Error) FormatUserError() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Message))

	if e.Err != nil {
		sb.WriteString(fmt.Sprintf("  Details: %s\n", e.Err.Error()))
	}

	if len(e.NextSteps) > 0 {
		sb.WriteString("\nNext Steps:\n")
		for i, step := range e.NextSteps {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	return sb.String()
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}

// ExitCode maps err to a process exit status: 0 for nil, the kind's code
// for testbed errors and 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var te *Error
	if errors.As(err, &te) {
		return te.Kind.ExitCode()
	}
	return 1
}

// NoIdentityError reports that no usable SSH key pair was found.
func NoIdentityError(err error) *Error {
	return &Error{
		Kind:    KindNoIdentity,
		Op:      "identity",
		Err:     err,
		Message: "No usable SSH identity found",
		NextSteps: []string{
			"Generate a key pair: ssh-keygen -t ed25519",
			"Make sure the matching .pub file sits next to the private key",
			"Or list your key under 'identities' in the config file",
		},
	}
}

// BuildError reports a failed image build.
func BuildError(dockerfile string, err error) *Error {
	return &Error{
		Kind:    KindBuild,
		Op:      "build",
		Err:     err,
		Message: fmt.Sprintf("Failed to build image from %s", dockerfile),
		NextSteps: []string{
			"Review the build output above for the failing step",
			"Verify all referenced files exist in the build context",
			"Try building manually: docker build -f " + dockerfile + " .",
		},
	}
}

// ImageNotFoundError reports an image reference the runtime does not know.
func ImageNotFoundError(image string, err error) *Error {
	return &Error{
		Kind:    KindImageNotFound,
		Op:      "image",
		Err:     err,
		Message: fmt.Sprintf("Image '%s' not found", image),
		NextSteps: []string{
			"Check the image name and tag are correct",
			"List local images: docker images",
			"Pass --dockerfile to build the image instead",
		},
	}
}

// ContainerStartError reports that the testbed container could not be run.
func ContainerStartError(name string, err error) *Error {
	return &Error{
		Kind:    KindContainerStart,
		Op:      "run",
		Err:     err,
		Message: fmt.Sprintf("Failed to start testbed '%s'", name),
		NextSteps: []string{
			"Verify the image runs: docker run --rm <image>",
			"Check the Docker daemon logs for details",
		},
	}
}

// ProvisionError reports a failed provisioning step inside the testbed.
func ProvisionError(name, step string, err error) *Error {
	return &Error{
		Kind:    KindProvision,
		Op:      "provision",
		Err:     err,
		Message: fmt.Sprintf("Failed to %s in testbed '%s'", step, name),
		NextSteps: []string{
			"Check that the image has a shell at /bin/sh and the login user exists",
			"Inspect the testbed: ssh-docker debug-failure --container " + name,
		},
	}
}

// NoAddressError reports a running testbed without a usable network address.
func NoAddressError(name string) *Error {
	return &Error{
		Kind:    KindNoAddress,
		Op:      "address",
		Message: fmt.Sprintf("Testbed '%s' has no IPv6 or IPv4 address", name),
		NextSteps: []string{
			"Check the container's networks: docker inspect " + name,
			"Make sure the default bridge network is enabled",
		},
	}
}

// NotFoundError reports a testbed container that does not exist.
func NotFoundError(ref string, err error) *Error {
	return &Error{
		Kind:    KindNotFound,
		Op:      "find",
		Err:     err,
		Message: fmt.Sprintf("Testbed '%s' not found", ref),
		NextSteps: []string{
			"Testbeds are removed automatically once stopped",
			"Check running containers: docker ps",
		},
	}
}
