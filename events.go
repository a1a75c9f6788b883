package tui

import "sync"

// Events is a simple event bus. It is generic over the event type T.
type Events[T any] struct {
	mu        sync.RWMutex
	listeners map[int]func(T)
	order     []int
	next      int
}

// NewEvents creates a new event bus.
func NewEvents[T any]() *Events[T] {
	return &Events[T]{listeners: make(map[int]func(T))}
}

// Emit sends an event to all listeners in subscription order.
func (e *Events[T]) Emit(event T) {
	e.mu.RLock()
	fns := make([]func(T), 0, len(e.order))
	for _, id := range e.order {
		fns = append(fns, e.listeners[id])
	}
	e.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}

// Subscribe adds a listener and returns a function that removes it.
func (e *Events[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	e.mu.Lock()
	if e.listeners == nil {
		e.listeners = make(map[int]func(T))
	}
	id := e.next
	e.next++
	e.listeners[id] = fn
	e.order = append(e.order, id)
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.listeners, id)
			for idx, v := range e.order {
				if v == id {
					e.order = append(e.order[:idx], e.order[idx+1:]...)
					break
				}
			}
		})
	}
}

// HostEventKind identifies a host lifecycle event.
type HostEventKind uint8

const (
	EventStart HostEventKind = iota
	EventMount
	EventRender
	EventInput
	EventError
	EventUnmount
	EventCleanup
)

// String returns the event name.
func (k HostEventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventMount:
		return "mount"
	case EventRender:
		return "render"
	case EventInput:
		return "input"
	case EventError:
		return "error"
	case EventUnmount:
		return "unmount"
	case EventCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// HostEvent is published by a Host. Err is set for EventError and Input
// for EventInput.
type HostEvent struct {
	Kind  HostEventKind
	Err   error
	Input Event
}
