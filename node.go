package tui

// Kind identifies what a RenderNode describes.
type Kind uint8

const (
	// KindBox is a styled container of children. It is the zero value.
	KindBox Kind = iota
	// KindText is a leaf holding literal text.
	KindText
	// KindRaw is a leaf holding pre-rendered text. Inside a tree its escape
	// sequences are stripped and the text is painted as-is.
	KindRaw
	// KindFragment groups children without a box of its own.
	// Fragments are flattened into their parent.
	KindFragment
	// KindComponent embeds the current output of a child Instance.
	KindComponent
)

// String returns the kind name used in tree files.
func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindText:
		return "text"
	case KindRaw:
		return "raw"
	case KindFragment:
		return "fragment"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// RenderNode is the immutable output of a component's Render.
// Any Kind not listed above is treated as an opaque container of Children.
type RenderNode struct {
	Kind     Kind
	Content  string
	Style    Style
	Children []RenderNode

	instance *Instance
}

// Text returns a text leaf.
func Text(content string) RenderNode {
	return RenderNode{Kind: KindText, Content: content}
}

// StyledText returns a text leaf with a style.
func StyledText(style Style, content string) RenderNode {
	return RenderNode{Kind: KindText, Content: content, Style: style}
}

// Raw returns a leaf of pre-rendered content.
func Raw(content string) RenderNode {
	return RenderNode{Kind: KindRaw, Content: content}
}

// Box returns a container with the given style and children.
func Box(style Style, children ...RenderNode) RenderNode {
	return RenderNode{Kind: KindBox, Style: style, Children: children}
}

// Fragment groups children that are spliced into the enclosing container.
func Fragment(children ...RenderNode) RenderNode {
	return RenderNode{Kind: KindFragment, Children: children}
}

// Embed places child's rendered output at this point of the parent's tree.
// The child keeps its own cached output and is only re-rendered when dirty.
func Embed(child *Instance) RenderNode {
	return RenderNode{Kind: KindComponent, instance: child}
}

// Instance returns the embedded instance of a KindComponent node.
func (n RenderNode) Instance() *Instance {
	return n.instance
}

// isLeaf reports whether n carries content instead of children.
func (n RenderNode) isLeaf() bool {
	return n.Kind == KindText || n.Kind == KindRaw
}

// flatten returns children with every fragment replaced by its own
// (recursively flattened) children.
func flatten(children []RenderNode) []RenderNode {
	hasFragment := false
	for _, c := range children {
		if c.Kind == KindFragment {
			hasFragment = true
			break
		}
	}
	if !hasFragment {
		return children
	}
	out := make([]RenderNode, 0, len(children))
	for _, c := range children {
		if c.Kind == KindFragment {
			out = append(out, flatten(c.Children)...)
			continue
		}
		out = append(out, c)
	}
	return out
}
