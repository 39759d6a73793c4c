package engine

import (
	"os"
	"os/signal"
	"syscall"
)

// ArmShutdown installs a SIGINT/SIGTERM handler and returns a channel that
// closes on the first signal, plus a disarm function that uninstalls the
// handler.
func ArmShutdown() (<-chan struct{}, func()) {
	shutdown := make(chan struct{})
	quit := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			close(shutdown)
		case <-quit:
		}
		signal.Stop(sigCh)
	}()

	disarm := func() { close(quit) }
	return shutdown, disarm
}
