package testbed

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateName returns prefix followed by 8 random lowercase hex characters.
func GenerateName(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + id[:8]
}
