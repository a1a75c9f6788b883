package layout

// Display selects the layout algorithm used for a node's children.
type Display uint8

const (
	DisplayFlex  Display = iota // Children laid out as flex items
	DisplayBlock                // Children stacked vertically, full width
	DisplayNone                 // Node and subtree take no space
)

// Direction specifies the main axis for laying out children.
type Direction uint8

const (
	Row    Direction = iota // Children laid out left-to-right
	Column                  // Children laid out top-to-bottom
)

// Wrap controls whether flex items may break onto additional lines.
type Wrap uint8

const (
	NoWrap Wrap = iota
	WrapLines
)

// Justify specifies how children are distributed along the main axis.
type Justify uint8

const (
	JustifyStart        Justify = iota // Pack at start
	JustifyEnd                         // Pack at end
	JustifyCenter                      // Center children
	JustifySpaceBetween                // Even space between, none at edges
	JustifySpaceAround                 // Even space around each child
	JustifySpaceEvenly                 // Equal space between and at edges
)

// Align specifies how children are positioned on the cross axis.
type Align uint8

const (
	AlignStretch Align = iota // Stretch to fill cross axis
	AlignStart                // Align to start of cross axis
	AlignEnd                  // Align to end of cross axis
	AlignCenter               // Center on cross axis
)

// Overflow controls whether content outside a node's content box is painted.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
)

// Style contains all layout properties for a node.
type Style struct {
	Display Display

	// Sizing
	Width     Value
	Height    Value
	MinWidth  Value
	MinHeight Value
	MaxWidth  Value
	MaxHeight Value

	// Flex container properties
	Direction      Direction
	Wrap           Wrap
	JustifyContent Justify
	AlignItems     Align
	Gap            int // Space between children along the main axis

	// Flex item properties
	FlexGrow   float64 // How much to grow relative to siblings
	FlexShrink float64 // How much to shrink relative to siblings (default 1)
	FlexBasis  Value   // Starting main-axis size (auto = Width/Height or content)
	AlignSelf  *Align  // Override parent's AlignItems (nil = inherit)

	// Spacing
	Padding Edges
	Margin  Edges

	// Bordered reserves one cell on every edge for a border.
	Bordered bool
	Overflow Overflow
}

// DefaultStyle returns a Style with sensible defaults.
func DefaultStyle() Style {
	return Style{
		Width:      Auto(),
		Height:     Auto(),
		MinWidth:   Fixed(0),
		MinHeight:  Fixed(0),
		MaxWidth:   Auto(), // No maximum
		MaxHeight:  Auto(), // No maximum
		FlexBasis:  Auto(),
		Direction:  Row,
		AlignItems: AlignStretch,
		FlexShrink: 1.0,
	}
}

// Sanitize returns a copy of s where every numeric field is a non-negative
// finite number. The tree applies it to every style it stores.
func (s Style) Sanitize() Style {
	s.Width = s.Width.sanitized()
	s.Height = s.Height.sanitized()
	s.MinWidth = s.MinWidth.sanitized()
	s.MinHeight = s.MinHeight.sanitized()
	s.MaxWidth = s.MaxWidth.sanitized()
	s.MaxHeight = s.MaxHeight.sanitized()
	s.FlexBasis = s.FlexBasis.sanitized()
	s.FlexGrow = nonNegative(s.FlexGrow)
	s.FlexShrink = nonNegative(s.FlexShrink)
	s.Gap = max(0, s.Gap)
	s.Padding = s.Padding.sanitized()
	s.Margin = s.Margin.sanitized()
	return s
}

// insets returns the space taken by border and padding on each edge.
func (s Style) insets() Edges {
	e := s.Padding
	if s.Bordered {
		e = Edges{Top: e.Top + 1, Right: e.Right + 1, Bottom: e.Bottom + 1, Left: e.Left + 1}
	}
	return e
}
