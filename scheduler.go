package tui

import (
	"context"
	"sync"
	"sync/atomic"
)

// scheduler runs tasks on a single loop goroutine and coalesces render
// requests. Input chunks and queued updates share one FIFO queue. A render
// request only sets a pending flag and wakes the loop; the loop runs the
// tasks that are queued, then renders once if the flag is set.
type scheduler struct {
	tasks   chan func()
	wake    chan struct{} // capacity 1
	pending atomic.Bool
	stopped atomic.Bool
	done    chan struct{}
	once    sync.Once
}

func newScheduler(queueSize int) *scheduler {
	return &scheduler{
		tasks: make(chan func(), queueSize),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// queue adds fn to the task queue, blocking while the queue is full.
// It returns false if the scheduler is stopped.
func (s *scheduler) queue(fn func()) bool {
	if s.stopped.Load() {
		return false
	}
	select {
	case s.tasks <- fn:
		return true
	case <-s.done:
		return false
	}
}

// requestRender marks a render pending and wakes the loop. Requests made
// before the loop gets to them collapse into one render.
func (s *scheduler) requestRender() {
	if s.stopped.Load() {
		return
	}
	s.pending.Store(true)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// cancelRender drops a pending render request.
func (s *scheduler) cancelRender() {
	s.pending.Store(false)
}

// renderPending reports whether a render is pending.
func (s *scheduler) renderPending() bool {
	return s.pending.Load()
}

// stop makes the loop exit and discards pending work. It is idempotent.
func (s *scheduler) stop() {
	s.once.Do(func() {
		s.stopped.Store(true)
		s.pending.Store(false)
		close(s.done)
	})
}

// run executes tasks until ctx is done or stop is called.
func (s *scheduler) run(ctx context.Context, render func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case fn := <-s.tasks:
			fn()
			s.drain(render)
		case <-s.wake:
			s.drain(render)
		}
	}
}

// drain runs the tasks queued right now, then renders if a render is
// pending. Tasks queued while draining wait for the next iteration so a
// steady input stream cannot starve rendering.
func (s *scheduler) drain(render func()) {
	for n := len(s.tasks); n > 0 && !s.stopped.Load(); n-- {
		fn := <-s.tasks
		fn()
	}
	if s.stopped.Load() {
		return
	}
	if s.pending.Swap(false) {
		render()
	}
}
