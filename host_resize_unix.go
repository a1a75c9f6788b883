//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package tui

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// watchResize queues a resize check on every SIGWINCH until ctx is done.
func (h *Host) watchResize(ctx context.Context, sched *scheduler) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGWINCH)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			if !sched.queue(h.handleResize) {
				return
			}
		}
	}
}
