package layout

// Calculate lays out the subtree rooted at id inside the given available space.
// It writes X, Y, Width and Height of id and every descendant and touches
// nothing outside that subtree. The node keeps its current X/Y as origin.
//
// Nothing is cached between calls: percentages and intrinsic sizes are
// recomputed on every pass.
func Calculate(t *Tree, id NodeID, availableWidth, availableHeight int) {
	if !t.valid(id) {
		return
	}
	c := newCalculator(t)
	node := t.Node(id)
	style := node.Style

	if style.Display == DisplayNone {
		node.Width, node.Height = 0, 0
		return
	}

	// The root resolves its own size against the available space; auto fills it.
	width := style.Width.Resolve(availableWidth, availableWidth)
	height := style.Height.Resolve(availableHeight, availableHeight)
	width = clamp(width, style.MinWidth.Resolve(availableWidth, 0), resolveMax(style.MaxWidth, availableWidth))
	height = clamp(height, style.MinHeight.Resolve(availableHeight, 0), resolveMax(style.MaxHeight, availableHeight))

	c.layoutNode(id, Rect{X: node.X, Y: node.Y, Width: max(0, width), Height: max(0, height)})
}

// calculator holds per-pass scratch state.
type calculator struct {
	tree      *Tree
	intrinsic map[NodeID]size
}

type size struct {
	w, h int
}

func newCalculator(t *Tree) *calculator {
	return &calculator{tree: t, intrinsic: make(map[NodeID]size)}
}

// layoutNode stores the border box chosen by the parent and lays out children
// inside the resulting content box.
func (c *calculator) layoutNode(id NodeID, box Rect) {
	node := c.tree.Node(id)
	node.X, node.Y = box.X, box.Y
	node.Width, node.Height = max(0, box.Width), max(0, box.Height)

	if node.Style.Display == DisplayNone {
		node.Width, node.Height = 0, 0
		return
	}
	if len(node.Children) == 0 {
		return
	}

	content := node.ContentRect()
	if node.Style.Display == DisplayBlock {
		c.layoutBlock(node, content)
		return
	}
	c.layoutFlex(node, content)
}

// hide collapses a display:none child at the content origin.
func (c *calculator) hide(id NodeID, content Rect) {
	n := c.tree.Node(id)
	n.X, n.Y = content.X, content.Y
	n.Width, n.Height = 0, 0
}

// clamp restricts v to the range [minVal, maxVal].
// If minVal > maxVal, minVal wins (matches CSS behavior).
func clamp(v, minVal, maxVal int) int {
	if maxVal < minVal {
		return minVal
	}
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// resolveMax resolves a maximum constraint; auto means unbounded.
func resolveMax(v Value, available int) int {
	if v.IsAuto() {
		return int(^uint(0) >> 1)
	}
	return v.Resolve(available, available)
}
