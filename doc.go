// Package tui is a small retained-mode terminal UI core.
//
// Components return immutable RenderNode trees from Render. A Tree owns the
// mounted Instances, their state and focus; the flexbox engine in
// internal/layout sizes each frame and the Renderer rewrites only the lines
// that changed since the previous frame.
//
// A Host ties this to a Terminal: it enters raw mode, decodes input into
// KeyEvent and MouseEvent values, dispatches them to the focused instance and
// coalesces render requests so that any number of state updates between two
// loop iterations produce one frame.
//
//	h, err := tui.NewHost(tui.WithMouse(true))
//	if err != nil {
//		return err
//	}
//	if err := h.Mount(counter{}, nil); err != nil {
//		return err
//	}
//	defer h.Cleanup()
//	return h.Run(ctx)
package tui
