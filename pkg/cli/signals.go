package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext derives a context that is canceled on SIGINT or SIGTERM,
// so a long-running command unwinds its watchers and schedulers before
// the process exits. The stop func releases the signal registration.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
