package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/grindlemire/tuicore/internal/debug"
	"golang.org/x/sync/errgroup"
)

// Run drives the event loop until ctx is done or the host is unmounted.
// Queued input, queued updates and coalesced renders all execute on the
// goroutine that calls Run. Run does not release the terminal when ctx is
// done; call Cleanup for that.
func (h *Host) Run(ctx context.Context) error {
	h.mu.Lock()
	if !h.mounted {
		h.mu.Unlock()
		return fmt.Errorf("run: %w", ErrNotMounted)
	}
	sched := h.sched
	h.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return sched.run(gctx, func() { h.renderFrame(nil) })
	})
	g.Go(func() error {
		h.watchResize(gctx, sched)
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// renderFrame resolves the tree and paints it. prior carries errors from
// work that already rendered instances, such as the initial mount.
func (h *Host) renderFrame(prior error) {
	h.mu.Lock()
	tree, r, mounted, inline := h.tree, h.renderer, h.mounted, h.inlineErrors
	h.mu.Unlock()
	if !mounted {
		return
	}

	node, err := tree.Resolve()
	err = errors.Join(prior, err)
	if err != nil {
		debug.Error("render failed", err)
		h.events.Emit(HostEvent{Kind: EventError, Err: err})
		if inline {
			node = withErrorLine(node, err)
		}
	}
	if perr := r.RenderNode(node); perr != nil {
		h.events.Emit(HostEvent{Kind: EventError, Err: fmt.Errorf("paint: %w", perr)})
		return
	}
	h.events.Emit(HostEvent{Kind: EventRender})
}

// withErrorLine stacks a red error message below node.
func withErrorLine(node RenderNode, err error) RenderNode {
	msg := err.Error()
	var rerr *RenderError
	if errors.As(err, &rerr) {
		msg = rerr.Err.Error()
	}
	line := StyledText(Style{Foreground: Red}, "Render error: "+msg)
	return Box(Style{Direction: Column}, node, line)
}

// handleResize re-reads the terminal size and schedules a full repaint if
// it changed.
func (h *Host) handleResize() {
	h.mu.Lock()
	if !h.mounted {
		h.mu.Unlock()
		return
	}
	width, height := h.term.Size()
	r := h.renderer
	sched := h.sched
	changed := width != r.Width() || height != r.Height()
	if changed {
		r.Resize(width, height)
	}
	h.mu.Unlock()

	if changed {
		debug.Log("terminal resized", "width", width, "height", height)
		sched.requestRender()
	}
}

// listener reads raw input chunks off the terminal and queues them on the
// loop in arrival order.
type listener struct {
	stop chan struct{}
	done chan struct{}
}

func startListener(term Terminal, sched *scheduler, latency time.Duration, handle func([]byte)) *listener {
	l := &listener{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run(term, sched, latency, handle)
	return l
}

func (l *listener) run(term Terminal, sched *scheduler, latency time.Duration, handle func([]byte)) {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			return
		default:
		}

		chunk, err := term.ReadInput(latency)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				debug.Error("read input", err)
			}
			return
		}
		if len(chunk) == 0 {
			continue
		}
		if !sched.queue(func() { handle(chunk) }) {
			return
		}
	}
}

// close stops the listener and waits for it to exit. A listener blocked in
// a read exits once the read times out.
func (l *listener) close() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
	<-l.done
}
