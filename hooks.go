package tui

// Phase names a point in an instance's lifecycle.
type Phase uint8

const (
	PhaseBeforeMount Phase = iota
	PhaseMount
	PhaseAfterMount
	PhaseBeforeUnmount
	PhaseUnmount
	PhaseAfterUnmount

	phaseCount
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseBeforeMount:
		return "before-mount"
	case PhaseMount:
		return "mount"
	case PhaseAfterMount:
		return "after-mount"
	case PhaseBeforeUnmount:
		return "before-unmount"
	case PhaseUnmount:
		return "unmount"
	case PhaseAfterUnmount:
		return "after-unmount"
	default:
		return "unknown"
	}
}

// hooks holds the callbacks registered for each phase, in registration order.
type hooks struct {
	lists [phaseCount][]func(*Instance)
}

func (h *hooks) add(p Phase, fn func(*Instance)) {
	if p >= phaseCount || fn == nil {
		return
	}
	h.lists[p] = append(h.lists[p], fn)
}

func (h *hooks) run(p Phase, inst *Instance) {
	if p >= phaseCount {
		return
	}
	for _, fn := range h.lists[p] {
		fn(inst)
	}
}
