package tui

import "fmt"

// State is an instance's mutable state. Updates are merged shallowly.
type State map[string]any

// Props are the immutable inputs an instance was created with.
type Props map[string]any

// Component is the base interface for struct components.
// Any struct with a Render(*Instance) method can be mounted.
// The optional interfaces below add input handling and lifecycle callbacks.
type Component interface {
	Render(inst *Instance) RenderNode
}

// InputHandler is implemented by components that handle input.
// HandleInput returns true if the event was consumed.
type InputHandler interface {
	HandleInput(inst *Instance, ev Event) bool
}

// Mounter is implemented by components that need setup after their first
// render.
type Mounter interface {
	Mount(inst *Instance)
}

// Unmounter is implemented by components that need teardown.
type Unmounter interface {
	Unmount(inst *Instance)
}

// Focuser is implemented by components that react to gaining and losing
// focus. Implementing it also makes the component focusable.
type Focuser interface {
	Focus(inst *Instance)
	Blur(inst *Instance)
}

// FocusableComponent is implemented by components that decide at runtime
// whether they accept focus, e.g. when disabled.
type FocusableComponent interface {
	Focusable(inst *Instance) bool
}

// RenderFunc is a functional component.
type RenderFunc func(inst *Instance) RenderNode

// Spec is a component written as a set of optional callbacks.
// Only Render is required.
type Spec struct {
	Render      func(inst *Instance) RenderNode
	HandleInput func(inst *Instance, ev Event) bool
	Mount       func(inst *Instance)
	Unmount     func(inst *Instance)
	Focus       func(inst *Instance)
	Blur        func(inst *Instance)
	// Focusable reports whether the instance accepts focus. When nil, an
	// instance accepts focus if Focus or Blur is set.
	Focusable func(inst *Instance) bool
}

// normalize adapts any accepted definition shape into a Spec whose
// callbacks are all non-nil.
func normalize(def any) (Spec, error) {
	var s Spec
	switch d := def.(type) {
	case nil:
		return Spec{}, fmt.Errorf("%w: nil", ErrInvalidDefinition)
	case Spec:
		s = d
	case *Spec:
		if d == nil {
			return Spec{}, fmt.Errorf("%w: nil *Spec", ErrInvalidDefinition)
		}
		s = *d
	case RenderFunc:
		s = Spec{Render: d}
	case func(*Instance) RenderNode:
		s = Spec{Render: d}
	case func() RenderNode:
		s = Spec{Render: func(*Instance) RenderNode { return d() }}
	case Component:
		s = fromComponent(d)
	default:
		return Spec{}, fmt.Errorf("%w: %T", ErrInvalidDefinition, def)
	}

	if s.Render == nil {
		return Spec{}, fmt.Errorf("%w: no render callback", ErrInvalidDefinition)
	}
	if s.Focusable == nil {
		accepts := s.Focus != nil || s.Blur != nil
		s.Focusable = func(*Instance) bool { return accepts }
	}
	if s.HandleInput == nil {
		s.HandleInput = func(*Instance, Event) bool { return false }
	}
	noop := func(*Instance) {}
	if s.Mount == nil {
		s.Mount = noop
	}
	if s.Unmount == nil {
		s.Unmount = noop
	}
	if s.Focus == nil {
		s.Focus = noop
	}
	if s.Blur == nil {
		s.Blur = noop
	}
	return s, nil
}

// fromComponent discovers the optional interfaces of a struct component.
func fromComponent(c Component) Spec {
	s := Spec{Render: c.Render}
	if h, ok := c.(InputHandler); ok {
		s.HandleInput = h.HandleInput
	}
	if m, ok := c.(Mounter); ok {
		s.Mount = m.Mount
	}
	if u, ok := c.(Unmounter); ok {
		s.Unmount = u.Unmount
	}
	if f, ok := c.(Focuser); ok {
		s.Focus = f.Focus
		s.Blur = f.Blur
	}
	if f, ok := c.(FocusableComponent); ok {
		s.Focusable = f.Focusable
	}
	return s
}
