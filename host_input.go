package tui

import (
	"fmt"

	"github.com/grindlemire/tuicore/internal/debug"
)

// handleChunk decodes one raw input chunk and dispatches every event in it.
// Runs on the loop.
func (h *Host) handleChunk(chunk []byte) {
	for _, ev := range DecodeAll(chunk) {
		if !h.Mounted() {
			return
		}
		if h.isInterrupt(ev) {
			debug.Log("interrupt key pressed", "key", h.interruptKey)
			if err := h.Cleanup(); err != nil {
				debug.Error("cleanup after interrupt", err)
			}
			h.exitFunc(0)
			return
		}
		h.dispatch(ev)
	}
}

func (h *Host) isInterrupt(ev Event) bool {
	if h.interruptKey == "" {
		return false
	}
	key, ok := ev.(KeyEvent)
	return ok && key.Is(h.interruptKey)
}

// dispatch publishes ev, routes it through the tree and schedules a render
// when a handler consumed it. A panicking handler is reported as an error
// event.
func (h *Host) dispatch(ev Event) {
	h.events.Emit(HostEvent{Kind: EventInput, Input: ev})

	h.mu.Lock()
	tree, sched := h.tree, h.sched
	h.mu.Unlock()

	consumed, err := handleTreeInput(tree, ev)
	if err != nil {
		debug.Error("input handler", err)
		h.events.Emit(HostEvent{Kind: EventError, Err: err})
		return
	}
	if consumed {
		sched.requestRender()
	}
}

func handleTreeInput(t *Tree, ev Event) (consumed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handle input: %w", recoverRender(r))
		}
	}()
	return t.HandleInput(ev), nil
}
