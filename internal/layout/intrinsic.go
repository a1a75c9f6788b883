package layout

// intrinsicSize returns the preferred border-box size of id measured from its
// content alone. Text leaves measure their widest line and line count.
// Containers sum their visible children's outer sizes along their main axis
// (plus gaps) and take the largest along the cross axis. Fixed Width/Height
// override the measurement; percentages cannot be resolved without a parent
// and fall back to it. Results are memoized for the current pass only.
func (c *calculator) intrinsicSize(id NodeID) size {
	if s, ok := c.intrinsic[id]; ok {
		return s
	}
	node := c.tree.Node(id)
	var s size
	if node.Style.Display != DisplayNone {
		s = c.measure(node)
	}
	c.intrinsic[id] = s
	return s
}

func (c *calculator) measure(node *Node) size {
	style := node.Style
	insets := style.insets()

	var content size
	if node.leaf {
		content = size{w: TextWidth(node.Lines), h: len(node.Lines)}
	} else {
		row := style.Display == DisplayFlex && style.Direction == Row
		visible := 0
		for _, id := range node.Children {
			child := c.tree.Node(id)
			if child.Style.Display == DisplayNone {
				continue
			}
			cs := c.intrinsicSize(id)
			w := fixedOr(child.Style.Width, cs.w) + child.Style.Margin.Horizontal()
			h := fixedOr(child.Style.Height, cs.h) + child.Style.Margin.Vertical()
			if row {
				content.w += w
				content.h = max(content.h, h)
			} else {
				content.w = max(content.w, w)
				content.h += h
			}
			visible++
		}
		if visible > 1 {
			if row {
				content.w += style.Gap * (visible - 1)
			} else {
				content.h += style.Gap * (visible - 1)
			}
		}
	}

	w := fixedOr(style.Width, content.w+insets.Horizontal())
	h := fixedOr(style.Height, content.h+insets.Vertical())
	w = clamp(w, fixedOr(style.MinWidth, 0), fixedMax(style.MaxWidth))
	h = clamp(h, fixedOr(style.MinHeight, 0), fixedMax(style.MaxHeight))
	return size{w: w, h: h}
}

// fixedOr returns v in cells when it is a fixed value, otherwise fallback.
func fixedOr(v Value, fallback int) int {
	if v.Unit == UnitFixed {
		return int(v.Amount)
	}
	return fallback
}

func fixedMax(v Value) int {
	if v.Unit == UnitFixed {
		return int(v.Amount)
	}
	return int(^uint(0) >> 1)
}
