package main

import (
	"os"

	"github.com/schmitthub/ssh-docker/internal/sshdocker"
)

func main() {
	os.Exit(sshdocker.Main())
}
