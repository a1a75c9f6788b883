package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/grindlemire/tuicore/internal/layout"
)

// Scene is a RenderNode converted into a layout arena plus the paint data
// of every node. It is built fresh for each frame and discarded after.
type Scene struct {
	tree  *layout.Tree
	root  layout.NodeID
	nodes []sceneNode // indexed by NodeID
}

type sceneNode struct {
	style Style
	kind  Kind
}

// NewScene converts n into a scene. Fragments are flattened into their
// parent; a fragment at the root becomes a column container. Embedded
// components contribute their children, so callers normally resolve them
// first (see Tree.Resolve).
func NewScene(n RenderNode) *Scene {
	s := &Scene{tree: layout.NewTree()}
	if n.Kind == KindFragment {
		n = RenderNode{Kind: KindBox, Style: Style{Direction: Column}, Children: n.Children}
	}
	s.root = s.add(layout.NoNode, n)
	return s
}

func (s *Scene) add(parent layout.NodeID, n RenderNode) layout.NodeID {
	var id layout.NodeID
	switch n.Kind {
	case KindText:
		id = s.tree.AddText(parent, n.Style.layoutStyle(), expandTabs(n.Content))
	case KindRaw:
		id = s.tree.AddText(parent, n.Style.layoutStyle(), expandTabs(ansi.Strip(n.Content)))
	default:
		id = s.tree.Add(parent, n.Style.layoutStyle())
	}
	s.nodes = append(s.nodes, sceneNode{style: n.Style, kind: n.Kind})

	if !n.isLeaf() {
		for _, child := range flatten(n.Children) {
			s.add(id, child)
		}
	}
	return id
}

// Layout computes positions for every node inside width x height.
func (s *Scene) Layout(width, height int) {
	layout.Calculate(s.tree, s.root, width, height)
}

// Tree returns the scene's layout arena.
func (s *Scene) Tree() *LayoutTree {
	return s.tree
}

// Root returns the ID of the root node.
func (s *Scene) Root() NodeID {
	return s.root
}

// Kind returns the kind of the node that produced id.
func (s *Scene) Kind(id NodeID) Kind {
	if id < 0 || int(id) >= len(s.nodes) {
		return KindBox
	}
	return s.nodes[id].kind
}

// Paint draws the laid out scene onto c.
func (s *Scene) Paint(c *Canvas) {
	s.paint(c, s.root, c.Rect(), CellStyle{})
}

func (s *Scene) paint(c *Canvas, id layout.NodeID, clip Rect, inherited CellStyle) {
	node := s.tree.Node(id)
	if node == nil || node.Style.Display == layout.DisplayNone {
		return
	}
	info := s.nodes[id]
	style := info.style.cellStyle(inherited)
	rect := node.Rect()

	if !info.style.Background.IsDefault() {
		c.Fill(rect.Intersect(clip), ' ', CellStyle{Bg: style.Bg})
	}

	if info.style.Border != BorderNone {
		borderStyle := CellStyle{Fg: info.style.BorderColor, Bg: style.Bg}
		if borderStyle.Fg.IsDefault() {
			borderStyle.Fg = style.Fg
		}
		drawBox(c, rect, clip, info.style.Border, borderStyle)
	}

	content := node.ContentRect()
	if node.IsText() {
		textClip := content.Intersect(clip)
		for i, line := range node.Lines {
			if i >= content.Height {
				break
			}
			c.SetString(content.X, content.Y+i, line, style, textClip)
		}
		return
	}

	childClip := clip
	if info.style.Overflow == OverflowHidden {
		childClip = clip.Intersect(content)
	}
	// Children inherit colors but not attributes.
	inherit := CellStyle{Fg: style.Fg, Bg: style.Bg}
	for _, child := range node.Children {
		s.paint(c, child, childClip, inherit)
	}
}

// expandTabs replaces tabs with single spaces so measured and painted
// widths agree.
func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
