package treefile

import (
	"os"
	"path/filepath"
	"testing"

	tui "github.com/grindlemire/tuicore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := `
kind: box
style:
  direction: column
  padding: [0, 1]
  border: rounded
  width: 20
  height: 50%
  justify: space-between
  align_self: center
  shrink: 0
children:
  - text: hello
    style: {fg: cyan, bold: true}
  - kind: fragment
    children:
      - text: a
      - kind: raw
        text: b
`
	node, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, tui.KindBox, node.Kind)
	assert.Equal(t, tui.Column, node.Style.Direction)
	assert.Equal(t, tui.EdgeSymmetric(0, 1), node.Style.Padding)
	assert.Equal(t, tui.BorderRounded, node.Style.Border)
	assert.Equal(t, tui.Fixed(20), node.Style.Width)
	assert.Equal(t, tui.Percent(50), node.Style.Height)
	assert.Equal(t, tui.JustifySpaceBetween, node.Style.JustifyContent)
	require.NotNil(t, node.Style.AlignSelf)
	assert.Equal(t, tui.AlignCenter, *node.Style.AlignSelf)
	require.NotNil(t, node.Style.FlexShrink)
	assert.Zero(t, *node.Style.FlexShrink)

	require.Len(t, node.Children, 2)
	hello := node.Children[0]
	assert.Equal(t, tui.KindText, hello.Kind)
	assert.Equal(t, "hello", hello.Content)
	assert.Equal(t, tui.Cyan, hello.Style.Foreground)
	assert.True(t, hello.Style.HasAttr(tui.AttrBold))

	frag := node.Children[1]
	assert.Equal(t, tui.KindFragment, frag.Kind)
	require.Len(t, frag.Children, 2)
	assert.Equal(t, tui.KindRaw, frag.Children[1].Kind)
	assert.Equal(t, "b", frag.Children[1].Content)
}

func TestParse_Defaults(t *testing.T) {
	node, err := Parse([]byte("children: []\n"))
	require.NoError(t, err)

	assert.Equal(t, tui.KindBox, node.Kind)
	assert.Equal(t, tui.Style{}, node.Style)
	assert.Empty(t, node.Children)
}

func TestParse_EmptyText(t *testing.T) {
	node, err := Parse([]byte(`text: ""`))
	require.NoError(t, err)

	assert.Equal(t, tui.KindText, node.Kind)
	assert.Equal(t, "", node.Content)
}

func TestParse_Edges(t *testing.T) {
	type tc struct {
		value string
		want  tui.Edges
	}

	tests := map[string]tc{
		"scalar":  {value: "2", want: tui.EdgeAll(2)},
		"one":     {value: "[3]", want: tui.EdgeAll(3)},
		"two":     {value: "[1, 2]", want: tui.EdgeSymmetric(1, 2)},
		"four":    {value: "[1, 2, 3, 4]", want: tui.EdgeTRBL(1, 2, 3, 4)},
		"missing": {value: "[]", want: tui.Edges{}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			node, err := Parse([]byte("style:\n  margin: " + tt.value + "\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.Style.Margin)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	type tc struct {
		doc     string
		invalid bool
		msg     string
	}

	tests := map[string]tc{
		"empty document": {
			doc:     "",
			invalid: true,
			msg:     "empty document",
		},
		"unknown kind": {
			doc:     "kind: circle\n",
			invalid: true,
			msg:     `unknown kind "circle"`,
		},
		"text with children": {
			doc:     "text: a\nchildren: [{text: b}]\n",
			invalid: true,
			msg:     "text node cannot have children",
		},
		"box with text": {
			doc:     "kind: box\ntext: a\n",
			invalid: true,
			msg:     "box node cannot have text",
		},
		"nested path": {
			doc:     "children:\n  - text: a\n  - kind: blob\n",
			invalid: true,
			msg:     "root.children[1]",
		},
		"unknown key": {
			doc: "colour: red\n",
			msg: "colour",
		},
		"unknown style key": {
			doc: "style: {weight: bold}\n",
			msg: "weight",
		},
		"bad direction": {
			doc: "style: {direction: diagonal}\n",
			msg: "direction",
		},
		"bad dimension": {
			doc: "style: {width: wide}\n",
			msg: "width",
		},
		"non-scalar dimension": {
			doc: "style: {width: [1]}\n",
			msg: "dimension must be a scalar",
		},
		"three edges": {
			doc: "style: {padding: [1, 2, 3]}\n",
			msg: "padding",
		},
		"negative edge": {
			doc: "style: {padding: -1}\n",
			msg: "invalid edge value",
		},
		"bad color": {
			doc: "style: {fg: chartreuse}\n",
			msg: "fg",
		},
		"bad border": {
			doc: "style: {border: dotted}\n",
			msg: "border",
		},
		"negative gap": {
			doc: "style: {gap: -1}\n",
			msg: "gap",
		},
		"negative shrink": {
			doc: "style: {shrink: -1}\n",
			msg: "shrink",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidTree)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("text: from disk\n"), 0o644))

	node, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from disk", node.Content)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("kind: circle\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}
