package tui

import (
	"errors"
	"fmt"

	"github.com/grindlemire/tuicore/internal/debug"
)

// Tree owns the root instance of a component tree, the focus pointer, and
// the hook through which instances ask for a render.
type Tree struct {
	root     *Instance
	focused  *Instance
	onRender func()
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// SetRoot makes inst the root of the tree. A previous root is detached but
// not unmounted.
func (t *Tree) SetRoot(inst *Instance) {
	if t.root != nil {
		t.root.tree = nil
	}
	t.root = inst
	t.focused = nil
	if inst != nil {
		inst.tree = t
	}
}

// Root returns the root instance.
func (t *Tree) Root() *Instance {
	return t.root
}

// OnRenderRequest sets the function called whenever a mounted instance
// changes. The host uses it to schedule a coalesced render.
func (t *Tree) OnRenderRequest(fn func()) {
	t.onRender = fn
}

func (t *Tree) requestRender() {
	if t.onRender != nil {
		t.onRender()
	}
}

// Mount mounts the root instance.
func (t *Tree) Mount() error {
	if t.root == nil {
		return fmt.Errorf("mount tree: %w", ErrNotMounted)
	}
	return t.root.Mount()
}

// Unmount unmounts the root instance.
func (t *Tree) Unmount() {
	if t.root != nil {
		t.root.Unmount()
	}
}

// HandleInput offers ev to the focused instance, then to each of its
// ancestors up to the root, stopping at the first that consumes it.
// Without focus the root handles the event alone.
func (t *Tree) HandleInput(ev Event) bool {
	start := t.focused
	if start == nil {
		start = t.root
	}
	for n := start; n != nil; n = n.parent {
		if !n.mounted {
			continue
		}
		if n.behavior.HandleInput(n, ev) {
			debug.Log("input consumed", "id", n.id)
			return true
		}
	}
	return false
}

// Resolve renders every dirty instance, reuses cached output for clean
// ones, and returns the combined node with embedded components expanded.
// Render failures are joined into the returned error; the failed instance
// contributes its last good output.
func (t *Tree) Resolve() (RenderNode, error) {
	if t.root == nil {
		return Fragment(), nil
	}
	r := resolver{visiting: map[*Instance]bool{}}
	node := r.instance(t.root)
	return node, errors.Join(r.errs...)
}

// Frame resolves the tree and paints it with r.
func (t *Tree) Frame(r *Renderer) error {
	node, err := t.Resolve()
	if perr := r.RenderNode(node); perr != nil {
		return errors.Join(err, perr)
	}
	return err
}

type resolver struct {
	visiting map[*Instance]bool
	errs     []error
}

func (r *resolver) instance(inst *Instance) RenderNode {
	if r.visiting[inst] {
		r.errs = append(r.errs, &RenderError{InstanceID: inst.id, Err: errors.New("instance embeds itself")})
		return Fragment()
	}
	r.visiting[inst] = true
	defer delete(r.visiting, inst)

	if inst.dirty || !inst.rendered {
		if err := inst.render(); err != nil {
			r.errs = append(r.errs, err)
		}
	}
	return r.expand(inst.cached)
}

// expand replaces KindComponent nodes with the output of their instance.
// Nodes without embedded components are returned unchanged.
func (r *resolver) expand(n RenderNode) RenderNode {
	if n.Kind == KindComponent {
		if n.instance == nil {
			return Fragment()
		}
		return r.instance(n.instance)
	}
	if n.isLeaf() || len(n.Children) == 0 {
		return n
	}
	children := make([]RenderNode, len(n.Children))
	for idx, child := range n.Children {
		children[idx] = r.expand(child)
	}
	n.Children = children
	return n
}
