package tui

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/grindlemire/tuicore/internal/debug"
	"github.com/muesli/termenv"
)

const (
	defaultQueueSize    = 256
	defaultInputLatency = 50 * time.Millisecond
	defaultInterruptKey = "ctrl+c"
)

// Host is the single entry point of the engine. It owns the terminal for
// the duration of one mount, runs the event loop, and publishes lifecycle
// events.
//
// Mount, Unmount, Update and Cleanup may be called before Run, after Run
// returns, or from code running on the loop (input handlers, lifecycle
// callbacks, functions passed to QueueUpdate). QueueUpdate and Subscribe
// are safe from any goroutine.
type Host struct {
	mu sync.Mutex

	term         Terminal
	fullscreen   bool
	mouse        bool
	inlineErrors bool
	interruptKey string
	exitFunc     func(int)
	queueSize    int
	inputLatency time.Duration
	profile      termenv.Profile
	profileSet   bool

	events *Events[HostEvent]

	mounted  bool
	cleaned  bool
	tree     *Tree
	renderer *Renderer
	sched    *scheduler
	listener *listener
	acquired acquired
}

// acquired records which terminal resources the current mount holds.
type acquired struct {
	raw      bool
	mouse    bool
	renderer bool
}

// NewHost creates a host. Nothing is acquired until Mount.
func NewHost(opts ...HostOption) (*Host, error) {
	h := &Host{
		interruptKey: defaultInterruptKey,
		exitFunc:     os.Exit,
		queueSize:    defaultQueueSize,
		inputLatency: defaultInputLatency,
		events:       NewEvents[HostEvent](),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, fmt.Errorf("configure host: %w", err)
		}
	}
	if h.term == nil {
		h.term = NewStdTerminal()
	}
	return h, nil
}

// Subscribe registers fn for host events and returns a function that
// removes it.
func (h *Host) Subscribe(fn func(HostEvent)) (unsubscribe func()) {
	return h.events.Subscribe(fn)
}

// Mounted reports whether a tree is mounted.
func (h *Host) Mounted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mounted
}

// Tree returns the mounted component tree, or nil.
func (h *Host) Tree() *Tree {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.mounted {
		return nil
	}
	return h.tree
}

// Mount acquires the terminal, starts the input listener, mounts def as
// the root of a new tree and renders the first frame. def is anything
// NewInstance accepts, or an unmounted *Instance. Mounting while a tree is
// mounted returns ErrMountConflict and leaves the host unchanged.
func (h *Host) Mount(def any, props Props) error {
	h.mu.Lock()
	if h.mounted {
		h.mu.Unlock()
		return fmt.Errorf("mount: %w", ErrMountConflict)
	}

	inst, ok := def.(*Instance)
	if !ok {
		var err error
		if inst, err = NewInstance(def, props); err != nil {
			h.mu.Unlock()
			return fmt.Errorf("mount: %w", err)
		}
	}
	if inst.retired {
		h.mu.Unlock()
		return fmt.Errorf("mount: %w", ErrRemount)
	}

	if err := h.acquire(); err != nil {
		errs := h.release()
		h.mu.Unlock()
		return fmt.Errorf("mount: %w", errors.Join(append([]error{err}, errs...)...))
	}
	h.sched = newScheduler(h.queueSize)
	h.listener = startListener(h.term, h.sched, h.inputLatency, h.handleChunk)
	h.tree = NewTree()
	h.tree.SetRoot(inst)
	h.tree.OnRenderRequest(h.sched.requestRender)
	h.mounted = true
	h.cleaned = false
	h.mu.Unlock()

	h.events.Emit(HostEvent{Kind: EventStart})
	mountErr := mountTree(h.tree)
	h.events.Emit(HostEvent{Kind: EventMount})
	debug.Log("host mounted", "root", inst.ID())

	h.sched.cancelRender()
	h.renderFrame(mountErr)
	return nil
}

// acquire takes the terminal: raw mode, mouse tracking and the renderer.
// Raw mode and mouse tracking are skipped when the terminal is not
// interactive. Must be called with h.mu held.
func (h *Host) acquire() error {
	width, height := h.term.Size()
	profile := h.profile
	interactive := h.term.IsTerminal()
	if !h.profileSet {
		profile = termenv.Ascii
		if interactive {
			profile = termenv.EnvColorProfile()
		}
	}
	h.renderer = NewRenderer(h.term, width, height,
		WithRendererFullscreen(h.fullscreen),
		WithRendererProfile(profile),
	)

	if interactive {
		if err := h.term.EnterRawMode(); err != nil {
			return err
		}
		h.acquired.raw = true
		if h.mouse {
			esc := newEscBuilder(32)
			esc.EnableMouse()
			if _, err := h.term.Write(esc.Bytes()); err != nil {
				return fmt.Errorf("enable mouse: %w", err)
			}
			h.acquired.mouse = true
		}
	} else {
		debug.Log("terminal unavailable, skipping raw mode and mouse tracking")
	}

	if err := h.renderer.Start(); err != nil {
		return fmt.Errorf("start renderer: %w", err)
	}
	h.acquired.renderer = true
	return nil
}

// release undoes acquire step by step. Every step runs even if an earlier
// one fails. Must be called with h.mu held.
func (h *Host) release() []error {
	var errs []error
	if h.acquired.mouse {
		h.acquired.mouse = false
		esc := newEscBuilder(32)
		esc.DisableMouse()
		if _, err := h.term.Write(esc.Bytes()); err != nil {
			errs = append(errs, fmt.Errorf("disable mouse: %w", err))
		}
	}
	if h.acquired.renderer {
		h.acquired.renderer = false
		if err := h.renderer.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("restore cursor: %w", err))
		}
	}
	if h.acquired.raw {
		h.acquired.raw = false
		if err := h.term.ExitRawMode(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Update renders a frame now, dropping any pending render request.
func (h *Host) Update() error {
	h.mu.Lock()
	mounted := h.mounted
	h.mu.Unlock()
	if !mounted {
		return fmt.Errorf("update: %w", ErrNotMounted)
	}
	h.sched.cancelRender()
	h.renderFrame(nil)
	return nil
}

// QueueUpdate runs fn on the event loop. A render follows if fn changed
// any state. Safe to call from any goroutine; it blocks while the queue
// is full and returns ErrNotMounted if nothing is mounted.
func (h *Host) QueueUpdate(fn func()) error {
	h.mu.Lock()
	sched := h.sched
	mounted := h.mounted
	h.mu.Unlock()
	if !mounted || sched == nil || !sched.queue(fn) {
		return fmt.Errorf("queue update: %w", ErrNotMounted)
	}
	return nil
}

// Unmount cancels any pending render, stops the input listener, unmounts
// the tree and releases the terminal. Unmounting an unmounted host does
// nothing.
func (h *Host) Unmount() error {
	wasMounted, errs := h.teardown()
	if !wasMounted {
		return nil
	}
	for _, err := range errs {
		h.events.Emit(HostEvent{Kind: EventError, Err: err})
	}
	h.events.Emit(HostEvent{Kind: EventUnmount})
	return errors.Join(errs...)
}

// Cleanup is a best-effort, idempotent teardown. Every step runs even if
// an earlier one fails; failures are joined, each is published as an error
// event, and a cleanup event follows. Calling Cleanup again does nothing
// until the next Mount.
func (h *Host) Cleanup() error {
	h.mu.Lock()
	if h.cleaned {
		h.mu.Unlock()
		return nil
	}
	h.cleaned = true
	h.mu.Unlock()

	wasMounted, errs := h.teardown()
	for _, err := range errs {
		debug.Error("cleanup step failed", err)
		h.events.Emit(HostEvent{Kind: EventError, Err: err})
	}
	if wasMounted {
		h.events.Emit(HostEvent{Kind: EventUnmount})
	}
	h.events.Emit(HostEvent{Kind: EventCleanup})
	return errors.Join(errs...)
}

// teardown stops the loop and the listener, unmounts the tree and releases
// the terminal.
func (h *Host) teardown() (wasMounted bool, errs []error) {
	h.mu.Lock()
	if !h.mounted {
		h.mu.Unlock()
		return false, nil
	}
	h.mounted = false
	h.sched.stop()
	l := h.listener
	h.listener = nil
	tree := h.tree
	h.mu.Unlock()

	if l != nil {
		l.close()
	}
	if err := unmountTree(tree); err != nil {
		errs = append(errs, err)
	}

	h.mu.Lock()
	errs = append(errs, h.release()...)
	h.mu.Unlock()
	debug.Log("host unmounted", "errors", len(errs))
	return true, errs
}

func mountTree(t *Tree) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mount tree: %w", recoverRender(r))
		}
	}()
	return t.Mount()
}

func unmountTree(t *Tree) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unmount tree: %w", recoverRender(r))
		}
	}()
	t.Unmount()
	return nil
}
