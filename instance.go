package tui

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/grindlemire/tuicore/internal/debug"
)

// Instance is a live component: props, state, children and lifecycle flags
// around a normalized behavior. An instance moves from unmounted to mounted
// and back to unmounted exactly once; it cannot be mounted again.
//
// Instances are not safe for concurrent use. Mutate them from input
// handlers, lifecycle callbacks or functions passed to Host.QueueUpdate.
type Instance struct {
	id       string
	props    Props
	state    State
	behavior Spec
	hooks    hooks

	parent   *Instance
	children []*Instance
	tree     *Tree // set on the root only

	mounted  bool
	dirty    bool
	retired  bool
	rendered bool
	cached   RenderNode
	err      error
}

// NewInstance creates an unmounted instance from a definition. Accepted
// definitions are a Component, a RenderFunc or func(*Instance) RenderNode,
// a func() RenderNode, and a Spec (or *Spec). Anything else returns
// ErrInvalidDefinition.
func NewInstance(def any, props Props) (*Instance, error) {
	behavior, err := normalize(def)
	if err != nil {
		return nil, err
	}
	if props == nil {
		props = Props{}
	}
	return &Instance{
		id:       uuid.Must(uuid.NewV7()).String(),
		props:    props,
		state:    State{},
		behavior: behavior,
		dirty:    true,
	}, nil
}

// MustInstance is like NewInstance but panics on an invalid definition.
func MustInstance(def any, props Props) *Instance {
	inst, err := NewInstance(def, props)
	if err != nil {
		panic(err)
	}
	return inst
}

// ID returns the instance's unique identifier.
func (i *Instance) ID() string { return i.id }

// Props returns the instance's props. The map must not be modified.
func (i *Instance) Props() Props { return i.props }

// Prop returns a single prop.
func (i *Instance) Prop(key string) any { return i.props[key] }

// State returns a copy of the current state.
func (i *Instance) State() State { return maps.Clone(i.state) }

// Get returns a single state value.
func (i *Instance) Get(key string) any { return i.state[key] }

// Parent returns the owning instance, or nil for a root.
func (i *Instance) Parent() *Instance { return i.parent }

// Children returns the owned child instances in order.
func (i *Instance) Children() []*Instance { return slices.Clone(i.children) }

// Mounted reports whether the instance is mounted.
func (i *Instance) Mounted() bool { return i.mounted }

// Dirty reports whether the instance needs to render again.
func (i *Instance) Dirty() bool { return i.dirty }

// Retired reports whether the instance was unmounted.
func (i *Instance) Retired() bool { return i.retired }

// Output returns the output of the most recent successful render.
func (i *Instance) Output() RenderNode { return i.cached }

// Err returns the error of the most recent render, or nil.
func (i *Instance) Err() error { return i.err }

// On registers fn to run at phase. Callbacks run in registration order.
func (i *Instance) On(phase Phase, fn func(*Instance)) {
	i.hooks.add(phase, fn)
}

// Mount marks the instance mounted, renders it, mounts its children in
// order, then fires the before-mount, mount and after-mount callbacks.
// Mounting a mounted instance does nothing; mounting a retired one returns
// ErrRemount. Render failures do not stop the mount and are returned as
// *RenderError.
func (i *Instance) Mount() error {
	if i.mounted {
		return nil
	}
	if i.retired {
		return fmt.Errorf("mount %s: %w", i.id, ErrRemount)
	}
	i.mounted = true
	debug.Log("instance mount", "id", i.id)

	var errs []error
	if err := i.render(); err != nil {
		errs = append(errs, err)
	}
	for _, child := range slices.Clone(i.children) {
		if err := child.Mount(); err != nil {
			errs = append(errs, err)
		}
	}

	i.hooks.run(PhaseBeforeMount, i)
	i.behavior.Mount(i)
	i.hooks.run(PhaseMount, i)
	i.hooks.run(PhaseAfterMount, i)
	return errors.Join(errs...)
}

// Unmount unmounts the children first, then marks the instance unmounted
// and fires the before-unmount, unmount and after-unmount callbacks.
// A focused instance loses focus first. Unmounting an instance that is not
// mounted does nothing.
func (i *Instance) Unmount() {
	if !i.mounted {
		return
	}
	for _, child := range slices.Clone(i.children) {
		child.Unmount()
	}
	if t := i.owner(); t != nil {
		t.release(i)
	}

	i.mounted = false
	i.retired = true
	i.dirty = false
	debug.Log("instance unmount", "id", i.id)

	i.hooks.run(PhaseBeforeUnmount, i)
	i.behavior.Unmount(i)
	i.hooks.run(PhaseUnmount, i)
	i.hooks.run(PhaseAfterUnmount, i)
}

// AddChild appends child to the instance's children, detaching it from any
// previous parent. A child added to a mounted instance is mounted.
func (i *Instance) AddChild(child *Instance) error {
	if child == nil || child == i {
		return fmt.Errorf("%w: invalid child", ErrInvalidDefinition)
	}
	for p := i; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: child is an ancestor", ErrInvalidDefinition)
		}
	}
	if child.parent != nil {
		child.parent.detach(child)
	}
	child.parent = i
	i.children = append(i.children, child)

	if !i.mounted {
		return nil
	}
	err := child.Mount()
	i.requestRender()
	return err
}

// RemoveChild unmounts child and removes it from the children. It returns
// false if child is not a child of the instance.
func (i *Instance) RemoveChild(child *Instance) bool {
	if child == nil || child.parent != i {
		return false
	}
	child.Unmount()
	i.detach(child)
	i.requestRender()
	return true
}

func (i *Instance) detach(child *Instance) {
	if idx := slices.Index(i.children, child); idx >= 0 {
		i.children = slices.Delete(i.children, idx, idx+1)
	}
	child.parent = nil
}

// SetState shallowly merges update into the state, marks the instance
// dirty and, if mounted, requests a render. Renders requested before the
// loop gets to them are coalesced into one.
func (i *Instance) SetState(update State) {
	if i.state == nil {
		i.state = State{}
	}
	maps.Copy(i.state, update)
	i.markDirty()
}

// UpdateState merges the result of fn, which receives a copy of the
// current state.
func (i *Instance) UpdateState(fn func(prev State) State) {
	if fn == nil {
		return
	}
	i.SetState(fn(i.State()))
}

// ForceUpdate marks the instance dirty and requests a render.
func (i *Instance) ForceUpdate() {
	i.markDirty()
}

// Focused reports whether the instance holds focus in its tree.
func (i *Instance) Focused() bool {
	t := i.owner()
	return t != nil && t.focused == i
}

// Focus moves focus in the instance's tree to the instance.
func (i *Instance) Focus() bool {
	t := i.owner()
	return t != nil && t.SetFocus(i)
}

// acceptsFocus reports whether the instance can take focus now.
func (i *Instance) acceptsFocus() bool {
	return i.mounted && i.behavior.Focusable(i)
}

func (i *Instance) markDirty() {
	i.dirty = true
	i.requestRender()
}

func (i *Instance) requestRender() {
	if !i.mounted {
		return
	}
	if t := i.owner(); t != nil {
		t.requestRender()
	}
}

// owner returns the tree the instance belongs to, found through its root.
func (i *Instance) owner() *Tree {
	for n := i; n != nil; n = n.parent {
		if n.tree != nil {
			return n.tree
		}
	}
	return nil
}

// render calls the behavior's Render and caches the result. A panic is
// converted to *RenderError and the previous output is kept.
func (i *Instance) render() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{InstanceID: i.id, Err: recoverRender(r)}
		}
		// Failed renders are not retried until the next change.
		i.dirty = false
		i.rendered = true
		i.err = err
		if err != nil {
			debug.Error("instance render", err, "id", i.id)
		}
	}()
	node := i.behavior.Render(i)
	i.cached = node
	return nil
}
