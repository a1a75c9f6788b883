package tui

import "github.com/grindlemire/tuicore/internal/debug"

// Focused returns the instance holding focus, or nil.
func (t *Tree) Focused() *Instance {
	return t.focused
}

// SetFocus moves focus to inst, blurring the previous holder before
// focusing the new one. A nil inst clears focus. It returns false, leaving
// focus unchanged, if inst is not a mounted instance of this tree that
// accepts focus.
func (t *Tree) SetFocus(inst *Instance) bool {
	if inst == t.focused {
		return inst != nil
	}
	if inst != nil && (inst.owner() != t || !inst.acceptsFocus()) {
		return false
	}

	prev := t.focused
	t.focused = inst
	debug.Log("focus change", "from", instanceID(prev), "to", instanceID(inst))
	if prev != nil {
		prev.behavior.Blur(prev)
	}
	if inst != nil {
		inst.behavior.Focus(inst)
	}
	t.requestRender()
	return true
}

// FocusNext moves focus to the next instance that accepts focus, in
// depth-first order, wrapping around. It returns false if none does.
func (t *Tree) FocusNext() bool {
	return t.cycleFocus(1)
}

// FocusPrev moves focus to the previous instance that accepts focus.
func (t *Tree) FocusPrev() bool {
	return t.cycleFocus(-1)
}

func (t *Tree) cycleFocus(step int) bool {
	order := t.focusOrder()
	if len(order) == 0 {
		return false
	}
	current := -1
	for idx, inst := range order {
		if inst == t.focused {
			current = idx
			break
		}
	}

	var next int
	switch {
	case current >= 0:
		next = (current + step + len(order)) % len(order)
	case step > 0:
		next = 0
	default:
		next = len(order) - 1
	}
	return t.SetFocus(order[next])
}

// focusOrder lists the instances that accept focus in depth-first order.
func (t *Tree) focusOrder() []*Instance {
	var order []*Instance
	var walk func(*Instance)
	walk = func(inst *Instance) {
		if inst.acceptsFocus() {
			order = append(order, inst)
		}
		for _, child := range inst.children {
			walk(child)
		}
	}
	if t.root != nil {
		walk(t.root)
	}
	return order
}

// release clears focus when inst, which is being unmounted, holds it.
func (t *Tree) release(inst *Instance) {
	if t.focused != inst {
		return
	}
	t.focused = nil
	inst.behavior.Blur(inst)
}

func instanceID(inst *Instance) string {
	if inst == nil {
		return ""
	}
	return inst.id
}
