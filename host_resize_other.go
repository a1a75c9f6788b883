//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package tui

import (
	"context"
	"time"
)

const resizePollInterval = 250 * time.Millisecond

// watchResize polls for size changes until ctx is done. There is no resize
// signal on this platform.
func (h *Host) watchResize(ctx context.Context, sched *scheduler) {
	ticker := time.NewTicker(resizePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !sched.queue(h.handleResize) {
				return
			}
		}
	}
}
