package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muesli/termenv"
)

// eventLog records host events from any goroutine.
type eventLog struct {
	mu     sync.Mutex
	events []HostEvent
}

func (l *eventLog) record(ev HostEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) kinds() []HostEventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	kinds := make([]HostEventKind, len(l.events))
	for i, ev := range l.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func (l *eventLog) count(kind HostEventKind) int {
	n := 0
	for _, k := range l.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

func (l *eventLog) errs() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var errs []error
	for _, ev := range l.events {
		if ev.Kind == EventError {
			errs = append(errs, ev.Err)
		}
	}
	return errs
}

func (l *eventLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

func newTestHost(t *testing.T, term *MockTerminal, opts ...HostOption) (*Host, *eventLog) {
	t.Helper()
	base := []HostOption{
		WithTerminal(term),
		WithColorProfile(termenv.Ascii),
		WithExitFunc(func(code int) { t.Errorf("unexpected exit(%d)", code) }),
	}
	h, err := NewHost(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewHost() error = %v", err)
	}
	log := &eventLog{}
	h.Subscribe(log.record)
	t.Cleanup(func() { _ = h.Cleanup() })
	return h, log
}

// step runs one loop iteration without a running loop.
func step(h *Host) {
	h.sched.drain(func() { h.renderFrame(nil) })
}

func staticText(s string) RenderFunc {
	return func(*Instance) RenderNode { return Text(s) }
}

func TestHost_MountRendersFirstFrame(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, log := newTestHost(t, term)

	if err := h.Mount(staticText("hello"), nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if !strings.Contains(term.Output(), "hello") {
		t.Errorf("output = %q, want it to contain %q", term.Output(), "hello")
	}
	if !term.InRawMode() {
		t.Error("terminal not in raw mode after Mount")
	}
	want := []HostEventKind{EventStart, EventMount, EventRender}
	if got := log.kinds(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if !h.Mounted() || h.Tree() == nil {
		t.Error("host not mounted after Mount")
	}
}

func TestHost_MountConflict(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, _ := newTestHost(t, term)

	if err := h.Mount(staticText("first"), nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	root := h.Tree().Root()

	err := h.Mount(staticText("second"), nil)
	if !errors.Is(err, ErrMountConflict) {
		t.Fatalf("second Mount() error = %v, want ErrMountConflict", err)
	}
	if h.Tree().Root() != root {
		t.Error("second Mount replaced the root")
	}
	if !root.Mounted() {
		t.Error("first root unmounted by conflicting Mount")
	}
	if strings.Contains(term.Output(), "second") {
		t.Error("conflicting Mount rendered its definition")
	}
}

func TestHost_MountErrors(t *testing.T) {
	type tc struct {
		def  func() any
		want error
	}

	tests := map[string]tc{
		"invalid definition": {
			def:  func() any { return 42 },
			want: ErrInvalidDefinition,
		},
		"retired instance": {
			def: func() any {
				inst := MustInstance(staticText("x"), nil)
				_ = inst.Mount()
				inst.Unmount()
				return inst
			},
			want: ErrRemount,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			term := NewMockTerminal(40, 10)
			h, _ := newTestHost(t, term)

			err := h.Mount(tt.def(), nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Mount() error = %v, want %v", err, tt.want)
			}
			if h.Mounted() {
				t.Error("host mounted after failed Mount")
			}
			if term.InRawMode() {
				t.Error("raw mode acquired by failed Mount")
			}
		})
	}
}

func TestHost_RawModeFailureReleasesTerminal(t *testing.T) {
	term := NewMockTerminal(40, 10)
	enterErr := errors.New("no tty")
	term.FailRawMode(enterErr, nil)
	h, _ := newTestHost(t, term)

	err := h.Mount(staticText("x"), nil)
	if !errors.Is(err, enterErr) {
		t.Fatalf("Mount() error = %v, want %v", err, enterErr)
	}
	if h.Mounted() {
		t.Error("host mounted after raw mode failure")
	}
}

func TestHost_NotATerminalSkipsRawMode(t *testing.T) {
	term := NewMockTerminal(40, 10)
	term.SetTerminal(false)
	h, _ := newTestHost(t, term, WithMouse(true))

	if err := h.Mount(staticText("piped"), nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if term.InRawMode() {
		t.Error("raw mode entered on a non-interactive terminal")
	}
	if strings.Contains(term.Output(), "\x1b[?1000h") {
		t.Error("mouse tracking enabled on a non-interactive terminal")
	}
	if !strings.Contains(term.Output(), "piped") {
		t.Errorf("output = %q, want it to contain %q", term.Output(), "piped")
	}
}

func TestHost_MouseTracking(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, _ := newTestHost(t, term, WithMouse(true))

	if err := h.Mount(staticText("x"), nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if !strings.Contains(term.Output(), "\x1b[?1000h\x1b[?1003h\x1b[?1006h") {
		t.Errorf("output = %q, want mouse tracking enabled", term.Output())
	}

	term.Reset()
	if err := h.Unmount(); err != nil {
		t.Fatalf("Unmount() error = %v", err)
	}
	if !strings.HasPrefix(term.Output(), "\x1b[?1006l\x1b[?1003l\x1b[?1000l") {
		t.Errorf("output = %q, want mouse tracking disabled first", term.Output())
	}
	if !strings.HasSuffix(term.Output(), "\x1b[?25h") {
		t.Errorf("output = %q, want cursor shown last", term.Output())
	}
}

func TestHost_StateChangesCoalesce(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, log := newTestHost(t, term)

	counter := Spec{
		Render: func(inst *Instance) RenderNode {
			n, _ := inst.Get("n").(int)
			return Text(fmt.Sprintf("n=%d", n))
		},
		HandleInput: func(inst *Instance, ev Event) bool {
			for i := 0; i < 3; i++ {
				inst.UpdateState(func(prev State) State {
					n, _ := prev["n"].(int)
					return State{"n": n + 1}
				})
			}
			return true
		},
	}
	if err := h.Mount(counter, nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	log.reset()
	term.Reset()

	h.handleChunk([]byte("a"))
	step(h)

	if got := log.count(EventRender); got != 1 {
		t.Errorf("renders = %d, want 1", got)
	}
	if got := log.count(EventInput); got != 1 {
		t.Errorf("input events = %d, want 1", got)
	}
	if !strings.Contains(term.Output(), "n=3") {
		t.Errorf("output = %q, want it to contain %q", term.Output(), "n=3")
	}
}

func TestHost_UnconsumedInputDoesNotRender(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, log := newTestHost(t, term)

	if err := h.Mount(staticText("idle"), nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	log.reset()

	h.handleChunk([]byte("abc"))
	step(h)

	if got := log.count(EventInput); got != 3 {
		t.Errorf("input events = %d, want 3", got)
	}
	if got := log.count(EventRender); got != 0 {
		t.Errorf("renders = %d, want 0", got)
	}
}

func TestHost_InterruptKey(t *testing.T) {
	type tc struct {
		key      string
		input    []byte
		wantExit bool
	}

	tests := map[string]tc{
		"default ctrl+c": {
			input:    []byte{0x03},
			wantExit: true,
		},
		"custom key": {
			key:      "ctrl+q",
			input:    []byte{0x11},
			wantExit: true,
		},
		"custom key ignores ctrl+c": {
			key:   "ctrl+q",
			input: []byte{0x03},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			term := NewMockTerminal(40, 10)
			exitCode := -1
			opts := []HostOption{WithExitFunc(func(code int) { exitCode = code })}
			if tt.key != "" {
				opts = append(opts, WithInterruptKey(tt.key))
			}
			h, log := newTestHost(t, term, opts...)

			if err := h.Mount(staticText("x"), nil); err != nil {
				t.Fatalf("Mount() error = %v", err)
			}
			h.handleChunk(tt.input)

			if !tt.wantExit {
				if exitCode != -1 {
					t.Errorf("exit called with %d, want no exit", exitCode)
				}
				if !h.Mounted() {
					t.Error("host unmounted by a non-interrupt key")
				}
				return
			}
			if exitCode != 0 {
				t.Errorf("exit code = %d, want 0", exitCode)
			}
			if h.Mounted() {
				t.Error("host still mounted after interrupt")
			}
			if term.InRawMode() {
				t.Error("raw mode still active after interrupt")
			}
			if got := log.count(EventCleanup); got != 1 {
				t.Errorf("cleanup events = %d, want 1", got)
			}
		})
	}
}

func TestHost_RenderPanicReportsError(t *testing.T) {
	term := NewMockTerminal(60, 10)
	h, log := newTestHost(t, term, WithInlineErrors(true))

	fragile := Spec{
		Render: func(inst *Instance) RenderNode {
			if inst.Get("broken") == true {
				panic("boom")
			}
			return Text("ok")
		},
		HandleInput: func(inst *Instance, ev Event) bool {
			inst.SetState(State{"broken": true})
			return true
		},
	}
	if err := h.Mount(fragile, nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	h.handleChunk([]byte("x"))
	step(h)

	errs := log.errs()
	if len(errs) != 1 {
		t.Fatalf("error events = %d, want 1", len(errs))
	}
	var rerr *RenderError
	if !errors.As(errs[0], &rerr) {
		t.Fatalf("error = %T, want *RenderError", errs[0])
	}
	if rerr.InstanceID != h.Tree().Root().ID() {
		t.Errorf("InstanceID = %q, want root id", rerr.InstanceID)
	}
	out := term.Output()
	if !strings.Contains(out, "Render error: panic: boom") {
		t.Errorf("output = %q, want inline render error", out)
	}
	if !h.Mounted() {
		t.Error("render failure unmounted the host")
	}
}

func TestHost_HandlerPanicReportsError(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, log := newTestHost(t, term)

	def := Spec{
		Render:      func(*Instance) RenderNode { return Text("x") },
		HandleInput: func(*Instance, Event) bool { panic("handler") },
	}
	if err := h.Mount(def, nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	h.handleChunk([]byte("a"))

	if got := len(log.errs()); got != 1 {
		t.Errorf("error events = %d, want 1", got)
	}
	if !h.Mounted() {
		t.Error("handler panic unmounted the host")
	}
}

func TestHost_Cleanup(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, log := newTestHost(t, term)

	var unmounted int
	def := Spec{
		Render:  func(*Instance) RenderNode { return Text("x") },
		Unmount: func(*Instance) { unmounted++ },
	}
	if err := h.Mount(def, nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if err := h.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if err := h.Cleanup(); err != nil {
		t.Fatalf("second Cleanup() error = %v", err)
	}

	if unmounted != 1 {
		t.Errorf("unmount callbacks = %d, want 1", unmounted)
	}
	if got := log.count(EventCleanup); got != 1 {
		t.Errorf("cleanup events = %d, want 1", got)
	}
	if got := log.count(EventUnmount); got != 1 {
		t.Errorf("unmount events = %d, want 1", got)
	}
	if term.InRawMode() {
		t.Error("raw mode still active after Cleanup")
	}
}

func TestHost_CleanupCollectsErrors(t *testing.T) {
	term := NewMockTerminal(40, 10)
	exitErr := errors.New("restore failed")
	h, log := newTestHost(t, term)

	def := Spec{
		Render:  func(*Instance) RenderNode { return Text("x") },
		Unmount: func(*Instance) { panic("unmount") },
	}
	if err := h.Mount(def, nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	term.FailRawMode(nil, exitErr)

	err := h.Cleanup()
	if !errors.Is(err, exitErr) {
		t.Errorf("Cleanup() error = %v, want it to wrap %v", err, exitErr)
	}
	if got := len(log.errs()); got != 2 {
		t.Errorf("error events = %d, want 2", got)
	}
	kinds := log.kinds()
	if kinds[len(kinds)-1] != EventCleanup {
		t.Errorf("last event = %v, want cleanup", kinds[len(kinds)-1])
	}
	if !strings.HasSuffix(term.Output(), "\x1b[?25h") {
		t.Error("cursor not restored after failed cleanup step")
	}
}

func TestHost_NotMounted(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, log := newTestHost(t, term)

	if err := h.Unmount(); err != nil {
		t.Errorf("Unmount() error = %v, want nil", err)
	}
	if err := h.Update(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Update() error = %v, want ErrNotMounted", err)
	}
	if err := h.QueueUpdate(func() {}); !errors.Is(err, ErrNotMounted) {
		t.Errorf("QueueUpdate() error = %v, want ErrNotMounted", err)
	}
	if err := h.Run(context.Background()); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Run() error = %v, want ErrNotMounted", err)
	}
	if got := len(log.kinds()); got != 0 {
		t.Errorf("events = %d, want 0", got)
	}
}

func TestHost_RemountAfterUnmount(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, _ := newTestHost(t, term)

	if err := h.Mount(staticText("one"), nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if err := h.Unmount(); err != nil {
		t.Fatalf("Unmount() error = %v", err)
	}
	if err := h.Mount(staticText("two"), nil); err != nil {
		t.Fatalf("second Mount() error = %v", err)
	}
	if !strings.Contains(term.Output(), "two") {
		t.Errorf("output = %q, want it to contain %q", term.Output(), "two")
	}
}

func TestHost_Update(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, log := newTestHost(t, term)

	if err := h.Mount(staticText("x"), nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	root := h.Tree().Root()
	root.ForceUpdate()
	if !h.sched.renderPending() {
		t.Fatal("ForceUpdate did not request a render")
	}
	log.reset()

	if err := h.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if h.sched.renderPending() {
		t.Error("Update left a render pending")
	}
	if got := log.count(EventRender); got != 1 {
		t.Errorf("renders = %d, want 1", got)
	}
}

func TestHost_Resize(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, _ := newTestHost(t, term, WithFullscreen(true))

	if err := h.Mount(staticText("x"), nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	h.handleResize()
	if h.sched.renderPending() {
		t.Error("unchanged size requested a render")
	}

	term.Resize(20, 5)
	h.handleResize()
	if w, ht := h.renderer.Width(), h.renderer.Height(); w != 20 || ht != 5 {
		t.Errorf("renderer size = %dx%d, want 20x5", w, ht)
	}
	if !h.sched.renderPending() {
		t.Error("resize did not request a render")
	}
}

func TestHost_Run(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, _ := newTestHost(t, term, WithInputLatency(5*time.Millisecond))

	renders := make(chan struct{}, 16)
	h.Subscribe(func(ev HostEvent) {
		if ev.Kind == EventRender {
			select {
			case renders <- struct{}{}:
			default:
			}
		}
	})

	counter := Spec{
		Render: func(inst *Instance) RenderNode {
			n, _ := inst.Get("n").(int)
			return Text(fmt.Sprintf("count: %d", n))
		},
		HandleInput: func(inst *Instance, ev Event) bool {
			key, ok := ev.(KeyEvent)
			if !ok || !key.Is("+") {
				return false
			}
			n, _ := inst.Get("n").(int)
			inst.SetState(State{"n": n + 1})
			return true
		},
	}
	if err := h.Mount(counter, nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	<-renders

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- h.Run(ctx) }()

	term.SendInput([]byte("+"))
	select {
	case <-renders:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for render")
	}
	if !strings.Contains(term.Output(), "count: 1") {
		t.Errorf("output = %q, want it to contain %q", term.Output(), "count: 1")
	}

	unmounted := make(chan struct{})
	if err := h.QueueUpdate(func() {
		_ = h.Unmount()
		close(unmounted)
	}); err != nil {
		t.Fatalf("QueueUpdate() error = %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Unmount")
	}
	<-unmounted
}

func TestHost_RunStopsOnContextCancel(t *testing.T) {
	term := NewMockTerminal(40, 10)
	h, _ := newTestHost(t, term, WithInputLatency(5*time.Millisecond))

	if err := h.Mount(staticText("x"), nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !h.Mounted() {
		t.Error("context cancel unmounted the host")
	}
}

func TestNewHost_InvalidOptions(t *testing.T) {
	type tc struct {
		opt HostOption
	}

	tests := map[string]tc{
		"nil terminal":   {opt: WithTerminal(nil)},
		"nil exit func":  {opt: WithExitFunc(nil)},
		"zero queue":     {opt: WithQueueSize(0)},
		"zero latency":   {opt: WithInputLatency(0)},
		"negative delay": {opt: WithInputLatency(-time.Second)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewHost(tt.opt); err == nil {
				t.Error("NewHost() error = nil, want error")
			}
		})
	}
}
