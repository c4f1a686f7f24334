package docker_test

import (
	"os"
	"path/filepath"
)

func writeDockerfile(dir string) error {
	return os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM debian:sid\n"), 0o644)
}
