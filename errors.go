package tui

import (
	"errors"
	"fmt"
)

var (
	// ErrMountConflict is returned by Host.Mount while a tree is mounted.
	ErrMountConflict = errors.New("tui: host already has a mounted tree")
	// ErrRemount is returned when mounting an instance that was unmounted before.
	ErrRemount = errors.New("tui: instance was unmounted and cannot be mounted again")
	// ErrNotMounted is returned by operations that need a mounted host.
	ErrNotMounted = errors.New("tui: nothing is mounted")
	// ErrInvalidDefinition is returned when a component definition has no
	// usable shape.
	ErrInvalidDefinition = errors.New("tui: invalid component definition")
	// ErrTerminalUnavailable reports that input or output is not an
	// interactive terminal.
	ErrTerminalUnavailable = errors.New("tui: terminal unavailable")
)

// RenderError wraps a failure raised while rendering an instance.
type RenderError struct {
	InstanceID string
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.InstanceID, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// recoverRender converts a recovered panic value into an error.
func recoverRender(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", v)
}
