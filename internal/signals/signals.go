// Package signals turns SIGINT and SIGTERM into context cancellation so an
// interrupted open still rolls back its testbed.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalContext creates a context that's canceled on SIGINT/SIGTERM.
func SetupSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return setup(parent, syscall.SIGINT, syscall.SIGTERM)
}

func setup(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
