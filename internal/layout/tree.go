package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// NodeID addresses a node inside a Tree.
type NodeID int

// NoNode is the parent handle of a root node.
const NoNode NodeID = -1

// Node is one entry of the layout arena.
// X, Y, Width and Height are absolute cell coordinates written by Calculate.
type Node struct {
	X, Y          int
	Width, Height int

	Style    Style
	Children []NodeID
	Parent   NodeID

	// Lines holds the content of text leaves, one entry per line.
	Lines []string
	leaf  bool

	removed bool
}

// Rect returns the node's border box.
func (n *Node) Rect() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// ContentRect returns the border box minus border and padding.
func (n *Node) ContentRect() Rect {
	return n.Rect().Inset(n.Style.insets())
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool {
	return n.leaf
}

// Tree is an arena of layout nodes. Children are owned through ID lists and
// parents are reachable through a non-owning handle, so the structure holds
// no pointer cycles.
type Tree struct {
	nodes []Node
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of nodes ever added, including removed ones.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the first node added without a parent, or NoNode.
func (t *Tree) Root() NodeID {
	for i := range t.nodes {
		if t.nodes[i].Parent == NoNode && !t.nodes[i].removed {
			return NodeID(i)
		}
	}
	return NoNode
}

// Node returns the node for id, or nil if id is unknown or removed.
func (t *Tree) Node(id NodeID) *Node {
	if !t.valid(id) {
		return nil
	}
	return &t.nodes[id]
}

func (t *Tree) valid(id NodeID) bool {
	return t != nil && id >= 0 && int(id) < len(t.nodes) && !t.nodes[id].removed
}

// Add appends a container node under parent (NoNode for a root) and returns its ID.
// The stored style is sanitized.
func (t *Tree) Add(parent NodeID, style Style) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Style: style.Sanitize(), Parent: NoNode})
	if t.valid(parent) {
		t.nodes[id].Parent = parent
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	}
	return id
}

// AddText appends a text leaf under parent. Its intrinsic size is the
// display width of its widest line by the number of lines.
func (t *Tree) AddText(parent NodeID, style Style, text string) NodeID {
	id := t.Add(parent, style)
	t.nodes[id].leaf = true
	t.nodes[id].Lines = strings.Split(text, "\n")
	return id
}

// Remove detaches id and its subtree from the tree.
// Returns false if id is unknown or already removed.
func (t *Tree) Remove(id NodeID) bool {
	if !t.valid(id) {
		return false
	}
	if parent := t.nodes[id].Parent; t.valid(parent) {
		children := t.nodes[parent].Children
		for i, c := range children {
			if c == id {
				t.nodes[parent].Children = append(children[:i:i], children[i+1:]...)
				break
			}
		}
	}
	t.markRemoved(id)
	return true
}

func (t *Tree) markRemoved(id NodeID) {
	t.nodes[id].removed = true
	t.nodes[id].Parent = NoNode
	for _, c := range t.nodes[id].Children {
		t.markRemoved(c)
	}
}

// Walk visits id and its descendants depth-first in child order.
// Returning false from fn skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(NodeID, *Node) bool) {
	if !t.valid(id) {
		return
	}
	if !fn(id, &t.nodes[id]) {
		return
	}
	for _, c := range t.nodes[id].Children {
		t.Walk(c, fn)
	}
}

// TextWidth returns the display width of the widest line.
func TextWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, runewidth.StringWidth(l))
	}
	return w
}
