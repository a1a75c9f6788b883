package layout

// layoutBlock stacks children vertically. Each child spans the content width
// minus its horizontal margins unless it sets Width. An auto height takes the
// child's intrinsic height, capped at what is left of the content box.
// Gap separates consecutive visible children.
func (c *calculator) layoutBlock(node *Node, content Rect) {
	y := content.Y
	first := true
	for _, id := range node.Children {
		child := c.tree.Node(id)
		s := child.Style
		if s.Display == DisplayNone {
			c.hide(id, content)
			continue
		}
		if !first {
			y += node.Style.Gap
		}
		first = false

		m := s.Margin
		width := s.Width.Resolve(content.Width, content.Width-m.Horizontal())
		width = clamp(width, s.MinWidth.Resolve(content.Width, 0), resolveMax(s.MaxWidth, content.Width))

		remaining := max(0, content.Bottom()-y-m.Vertical())
		height := s.Height.Resolve(content.Height, min(c.intrinsicSize(id).h, remaining))
		height = clamp(height, s.MinHeight.Resolve(content.Height, 0), resolveMax(s.MaxHeight, content.Height))

		c.layoutNode(id, Rect{
			X:      content.X + m.Left,
			Y:      y + m.Top,
			Width:  max(0, width),
			Height: max(0, height),
		})
		y += m.Top + max(0, height) + m.Bottom
	}
}
