package docker

import (
	"fmt"
	"strings"
)

// DockerError is a Docker failure with remediation steps for the user.
type DockerError struct {
	Op        string   // Operation that failed (e.g., "connect")
	Err       error    // Underlying error
	Message   string   // Human-readable message
	NextSteps []string // Suggested remediation steps
}

func (e *DockerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DockerError) Unwrap() error {
	return e.Err
}

// FormatUserError formats the error for display to users with next steps.
func (e *DockerError) FormatUserError() string {
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

// ErrDockerNotRunning returns an error for when the Docker daemon is not accessible.
func ErrDockerNotRunning(err error) *DockerError {
	return &DockerError{
		Op:      "connect",
		Err:     err,
		Message: "Cannot connect to Docker daemon",
		NextSteps: []string{
			"Ensure Docker is installed and running: sudo systemctl start docker",
			"Check DOCKER_HOST if you use a remote or rootless daemon",
			"Verify your user is in the docker group: groups $USER",
		},
	}
}
