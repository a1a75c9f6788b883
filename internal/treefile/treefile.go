// Package treefile reads render trees from YAML documents. The demo CLI
// and tests use it to describe layouts without writing Go.
//
// A node is a mapping with optional kind, text, style and children keys:
//
//	kind: box
//	style:
//	  direction: column
//	  padding: [0, 1]
//	  border: rounded
//	children:
//	  - text: hello
//	    style: {fg: cyan, bold: true}
//
// A node with text and no kind is a text leaf; anything else defaults to a
// box. Dimensions accept a cell count, a percentage such as "50%" or
// "auto". Edges accept one value or a list of 1, 2 or 4 values.
package treefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tui "github.com/grindlemire/tuicore"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTree is returned for documents that decode but do not describe
// a valid tree.
var ErrInvalidTree = errors.New("invalid tree")

// Load reads the tree file at path.
func Load(path string) (tui.RenderNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tui.RenderNode{}, fmt.Errorf("read tree file: %w", err)
	}
	node, err := Parse(data)
	if err != nil {
		return tui.RenderNode{}, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}

// Parse decodes a tree from YAML. Unknown keys are rejected.
func Parse(data []byte) (tui.RenderNode, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one YAML document from r and converts it to a tree.
func Decode(r io.Reader) (tui.RenderNode, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var spec nodeSpec
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return tui.RenderNode{}, fmt.Errorf("%w: empty document", ErrInvalidTree)
		}
		return tui.RenderNode{}, fmt.Errorf("decode tree: %w", err)
	}
	return spec.build("root")
}

type nodeSpec struct {
	Kind     string     `yaml:"kind"`
	Text     *string    `yaml:"text"`
	Style    styleSpec  `yaml:"style"`
	Children []nodeSpec `yaml:"children"`
}

func (n nodeSpec) build(path string) (tui.RenderNode, error) {
	style, err := n.Style.build()
	if err != nil {
		return tui.RenderNode{}, fmt.Errorf("%s.style: %w", path, err)
	}

	kind := strings.ToLower(n.Kind)
	if kind == "" {
		kind = "box"
		if n.Text != nil {
			kind = "text"
		}
	}

	text := ""
	if n.Text != nil {
		text = *n.Text
	}

	switch kind {
	case "text", "raw":
		if len(n.Children) > 0 {
			return tui.RenderNode{}, fmt.Errorf("%s: %w: %s node cannot have children", path, ErrInvalidTree, kind)
		}
		if kind == "raw" {
			return tui.RenderNode{Kind: tui.KindRaw, Content: text, Style: style}, nil
		}
		return tui.StyledText(style, text), nil
	case "box", "fragment":
		if n.Text != nil {
			return tui.RenderNode{}, fmt.Errorf("%s: %w: %s node cannot have text", path, ErrInvalidTree, kind)
		}
	default:
		return tui.RenderNode{}, fmt.Errorf("%s: %w: unknown kind %q", path, ErrInvalidTree, n.Kind)
	}

	children := make([]tui.RenderNode, 0, len(n.Children))
	for i, child := range n.Children {
		built, err := child.build(fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return tui.RenderNode{}, err
		}
		children = append(children, built)
	}
	if kind == "fragment" {
		return tui.Fragment(children...), nil
	}
	return tui.Box(style, children...), nil
}

// dimension is a Value written as a number, a percentage or "auto".
type dimension struct {
	raw string
}

func (d *dimension) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: dimension must be a scalar", node.Line)
	}
	d.raw = node.Value
	return nil
}

func (d dimension) value() (tui.Value, error) {
	return tui.ParseValue(d.raw)
}

// edges is a padding or margin written as one value or a list.
type edges struct {
	values []int
}

func (e *edges) UnmarshalYAML(node *yaml.Node) error {
	var raw []string
	switch node.Kind {
	case yaml.ScalarNode:
		raw = []string{node.Value}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: edge values must be scalars", item.Line)
			}
			raw = append(raw, item.Value)
		}
	default:
		return fmt.Errorf("line %d: edges must be a number or a list", node.Line)
	}

	e.values = e.values[:0]
	for _, s := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 {
			return fmt.Errorf("line %d: invalid edge value %q", node.Line, s)
		}
		e.values = append(e.values, n)
	}
	return nil
}

func (e edges) build() (tui.Edges, error) {
	v := e.values
	switch len(v) {
	case 0:
		return tui.Edges{}, nil
	case 1:
		return tui.EdgeAll(v[0]), nil
	case 2:
		return tui.EdgeSymmetric(v[0], v[1]), nil
	case 4:
		return tui.EdgeTRBL(v[0], v[1], v[2], v[3]), nil
	default:
		return tui.Edges{}, fmt.Errorf("expected 1, 2 or 4 edge values, got %d", len(v))
	}
}
