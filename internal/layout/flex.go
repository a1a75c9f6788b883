package layout

import (
	"math"
	"sort"
)

// flexItem holds intermediate calculation state for a child.
// It lives only for the duration of one layoutFlex call.
type flexItem struct {
	id        NodeID
	style     *Style
	baseSize  int // inner main size before grow/shrink
	mainSize  int
	crossSize int
	mainPos   int // offset of the margin box along the main axis
	crossPos  int // offset of the margin box along the cross axis
	grow      float64
	shrink    float64

	mainMargin  int
	crossMargin int
	leadMain    int // margin before the border box on the main axis
	leadCross   int // margin before the border box on the cross axis
}

func (it *flexItem) outerBase() int { return it.baseSize + it.mainMargin }
func (it *flexItem) outerMain() int { return it.mainSize + it.mainMargin }

// layoutFlex arranges the children of node inside content using the flex
// algorithm. Without wrapping all items share one line that spans the whole
// cross axis; with wrapping each line is as tall as its largest item and
// lines are stacked along the cross axis separated by Gap.
func (c *calculator) layoutFlex(node *Node, content Rect) {
	style := node.Style
	isRow := style.Direction == Row

	mainSize, crossSize := content.Width, content.Height
	if !isRow {
		mainSize, crossSize = crossSize, mainSize
	}

	items := make([]flexItem, 0, len(node.Children))
	for _, id := range node.Children {
		child := c.tree.Node(id)
		if child.Style.Display == DisplayNone {
			c.hide(id, content)
			continue
		}
		items = append(items, c.newFlexItem(id, child, isRow, mainSize))
	}
	if len(items) == 0 {
		return
	}

	lines := [][]flexItem{items}
	if style.Wrap == WrapLines {
		lines = breakLines(items, mainSize, style.Gap)
	}

	crossOffset := 0
	for _, line := range lines {
		lineCross := crossSize
		if style.Wrap == WrapLines {
			lineCross = c.lineCrossSize(line, isRow, crossSize)
		}

		resolveMain(line, mainSize, style.Gap, isRow)
		justifyLine(line, style.JustifyContent, mainSize, style.Gap)
		c.alignLine(line, style.AlignItems, isRow, lineCross, crossSize)

		for i := range line {
			it := &line[i]
			mainPos := it.mainPos + it.leadMain
			crossPos := crossOffset + it.crossPos + it.leadCross
			box := Rect{X: content.X + mainPos, Y: content.Y + crossPos, Width: it.mainSize, Height: it.crossSize}
			if !isRow {
				box = Rect{X: content.X + crossPos, Y: content.Y + mainPos, Width: it.crossSize, Height: it.mainSize}
			}
			c.layoutNode(it.id, box)
		}
		crossOffset += lineCross + style.Gap
	}
}

// newFlexItem computes the base size and flex factors of a child.
// The base size is FlexBasis if set, otherwise the explicit main-axis size.
// An auto basis is 0 for containers, so only grow gives them room; text
// leaves start from their measured size.
func (c *calculator) newFlexItem(id NodeID, child *Node, isRow bool, mainSize int) flexItem {
	it := flexItem{
		id:     id,
		style:  &child.Style,
		grow:   child.Style.FlexGrow,
		shrink: child.Style.FlexShrink,
	}

	m := child.Style.Margin
	mainValue := child.Style.Width
	if isRow {
		it.mainMargin, it.crossMargin = m.Horizontal(), m.Vertical()
		it.leadMain, it.leadCross = m.Left, m.Top
	} else {
		it.mainMargin, it.crossMargin = m.Vertical(), m.Horizontal()
		it.leadMain, it.leadCross = m.Top, m.Left
		mainValue = child.Style.Height
	}

	switch {
	case !child.Style.FlexBasis.IsAuto():
		it.baseSize = child.Style.FlexBasis.Resolve(mainSize, 0)
	case !mainValue.IsAuto():
		it.baseSize = mainValue.Resolve(mainSize, 0)
	case child.leaf:
		intrinsic := c.intrinsicSize(id)
		it.baseSize = intrinsic.w
		if !isRow {
			it.baseSize = intrinsic.h
		}
	}
	it.baseSize = max(0, it.baseSize)
	it.mainSize = it.baseSize
	return it
}

// breakLines splits items greedily into lines whose outer base sizes plus
// gaps fit the main size. Every line holds at least one item.
func breakLines(items []flexItem, mainSize, gap int) [][]flexItem {
	var lines [][]flexItem
	start, used := 0, 0
	for i := range items {
		size := items[i].outerBase()
		if i > start && used+gap+size > mainSize {
			lines = append(lines, items[start:i])
			start, used = i, size
			continue
		}
		if i > start {
			used += gap
		}
		used += size
	}
	return append(lines, items[start:])
}

// resolveMain grows or shrinks the items of one line so their outer sizes
// plus gaps fill mainSize exactly, then applies min/max constraints.
func resolveMain(line []flexItem, mainSize, gap int, isRow bool) {
	totalGap := gap * (len(line) - 1)
	used := 0
	totalGrow, totalShrink := 0.0, 0.0
	for i := range line {
		used += line[i].outerBase()
		totalGrow += line[i].grow
		totalShrink += line[i].shrink
	}
	free := mainSize - used - totalGap

	switch {
	case free > 0 && totalGrow > 0:
		weights := make([]float64, len(line))
		for i := range line {
			weights[i] = line[i].grow
		}
		for i, extra := range distribute(free, weights) {
			line[i].mainSize = line[i].baseSize + extra
		}
	case free < 0 && totalShrink > 0:
		weights := make([]float64, len(line))
		for i := range line {
			weights[i] = line[i].shrink
		}
		for i, cut := range distribute(-free, weights) {
			line[i].mainSize = max(0, line[i].baseSize-cut)
		}
	default:
		for i := range line {
			line[i].mainSize = line[i].baseSize
		}
	}

	for i := range line {
		s := line[i].style
		minV, maxV := s.MinWidth, s.MaxWidth
		if !isRow {
			minV, maxV = s.MinHeight, s.MaxHeight
		}
		line[i].mainSize = clamp(line[i].mainSize, minV.Resolve(mainSize, 0), resolveMax(maxV, mainSize))
	}
}

// justifyLine positions items along the main axis. End and center offset
// by the free space even when it is negative, so an overflowing line sticks
// out on both sides or before the start. The space-* modes only spread
// positive free space and otherwise pack at the start. Offsets are computed
// in floating point and rounded once per item so accumulated spacing does
// not drift.
func justifyLine(line []flexItem, justify Justify, mainSize, gap int) {
	used := gap * (len(line) - 1)
	for i := range line {
		used += line[i].outerMain()
	}
	free := float64(mainSize - used)
	n := float64(len(line))

	start, spacing := 0.0, 0.0
	switch justify {
	case JustifyEnd:
		start = free
	case JustifyCenter:
		start = free / 2
	case JustifySpaceBetween:
		if free > 0 && len(line) > 1 {
			spacing = free / (n - 1)
		}
	case JustifySpaceAround:
		if free > 0 {
			spacing = free / n
			start = spacing / 2
		}
	case JustifySpaceEvenly:
		if free > 0 {
			spacing = free / (n + 1)
			start = spacing
		}
	}

	pos := start
	for i := range line {
		line[i].mainPos = int(math.Round(pos))
		pos += float64(line[i].outerMain()+gap) + spacing
	}
}

// alignLine sizes and positions items on the cross axis within a line of
// size lineCross. Explicit cross sizes resolve against the container's
// content cross size.
func (c *calculator) alignLine(line []flexItem, alignItems Align, isRow bool, lineCross, crossSize int) {
	for i := range line {
		it := &line[i]
		s := it.style
		align := alignItems
		if s.AlignSelf != nil {
			align = *s.AlignSelf
		}

		crossValue, minV, maxV := s.Height, s.MinHeight, s.MaxHeight
		if !isRow {
			crossValue, minV, maxV = s.Width, s.MinWidth, s.MaxWidth
		}

		switch {
		case !crossValue.IsAuto():
			it.crossSize = crossValue.Resolve(crossSize, 0)
		case align == AlignStretch:
			it.crossSize = lineCross - it.crossMargin
		default:
			it.crossSize = c.intrinsicCross(it.id, isRow)
		}
		it.crossSize = max(0, clamp(it.crossSize, minV.Resolve(crossSize, 0), resolveMax(maxV, crossSize)))

		outer := it.crossSize + it.crossMargin
		switch align {
		case AlignEnd:
			it.crossPos = lineCross - outer
		case AlignCenter:
			it.crossPos = (lineCross - outer) / 2
		default:
			it.crossPos = 0
		}
	}
}

// lineCrossSize returns the cross size of a wrapped line: the largest outer
// cross size among its items.
func (c *calculator) lineCrossSize(line []flexItem, isRow bool, crossSize int) int {
	size := 0
	for i := range line {
		s := line[i].style
		crossValue := s.Height
		if !isRow {
			crossValue = s.Width
		}
		cross := c.intrinsicCross(line[i].id, isRow)
		if !crossValue.IsAuto() {
			cross = crossValue.Resolve(crossSize, 0)
		}
		size = max(size, cross+line[i].crossMargin)
	}
	return size
}

func (c *calculator) intrinsicCross(id NodeID, isRow bool) int {
	s := c.intrinsicSize(id)
	if isRow {
		return s.h
	}
	return s.w
}

// distribute splits total into integer parts proportional to weights using
// the largest-remainder method, so the parts always sum to total when any
// weight is positive. Ties go to the earlier item.
func distribute(total int, weights []float64) []int {
	parts := make([]int, len(weights))
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if total <= 0 || sum <= 0 {
		return parts
	}

	type remainder struct {
		index int
		frac  float64
	}
	rems := make([]remainder, 0, len(weights))
	assigned := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		exact := float64(total) * w / sum
		parts[i] = int(exact)
		assigned += parts[i]
		rems = append(rems, remainder{index: i, frac: exact - float64(parts[i])})
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; assigned < total && len(rems) > 0; i++ {
		parts[rems[i%len(rems)].index]++
		assigned++
	}
	return parts
}
