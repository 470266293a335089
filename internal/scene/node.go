package scene

import (
	"fmt"
	"slices"
)

const minSize = 0.01

var (
	layoutModes       = []string{"NONE", "HORIZONTAL", "VERTICAL"}
	sizingModes       = []string{"FIXED", "AUTO"}
	primaryAlignments = []string{"MIN", "CENTER", "MAX", "SPACE_BETWEEN"}
	counterAlignments = []string{"MIN", "CENTER", "MAX"}
	textAlignments    = []string{"LEFT", "CENTER", "RIGHT", "JUSTIFIED"}
	autoResizeModes   = []string{AutoResizeNone, AutoResizeWidthAndHeight, AutoResizeHeight}
)

type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		panic("unreachable")
	}
}

// Node is a scene object. Properties are read directly and written through
// the setters, which validate the value against the node type.
type Node struct {
	ID           string   `json:"id" msgpack:"id"`
	Type         NodeType `json:"type" msgpack:"type"`
	Name         string   `json:"name" msgpack:"name"`
	X            float64  `json:"x" msgpack:"x"`
	Y            float64  `json:"y" msgpack:"y"`
	Width        float64  `json:"width" msgpack:"width"`
	Height       float64  `json:"height" msgpack:"height"`
	Fills        []Paint  `json:"fills,omitempty" msgpack:"fills"`
	Strokes      []Paint  `json:"strokes,omitempty" msgpack:"strokes"`
	StrokeWeight float64  `json:"strokeWeight" msgpack:"stroke_weight"`
	Effects      []Effect `json:"effects,omitempty" msgpack:"effects"`
	Opacity      float64  `json:"opacity" msgpack:"opacity"`
	CornerRadius float64  `json:"cornerRadius" msgpack:"corner_radius"`

	LayoutMode            string  `json:"layoutMode,omitempty" msgpack:"layout_mode"`
	PaddingTop            float64 `json:"paddingTop,omitempty" msgpack:"padding_top"`
	PaddingRight          float64 `json:"paddingRight,omitempty" msgpack:"padding_right"`
	PaddingBottom         float64 `json:"paddingBottom,omitempty" msgpack:"padding_bottom"`
	PaddingLeft           float64 `json:"paddingLeft,omitempty" msgpack:"padding_left"`
	ItemSpacing           float64 `json:"itemSpacing,omitempty" msgpack:"item_spacing"`
	PrimaryAxisSizingMode string  `json:"primaryAxisSizingMode,omitempty" msgpack:"primary_axis_sizing_mode"`
	CounterAxisSizingMode string  `json:"counterAxisSizingMode,omitempty" msgpack:"counter_axis_sizing_mode"`
	PrimaryAxisAlignItems string  `json:"primaryAxisAlignItems,omitempty" msgpack:"primary_axis_align_items"`
	CounterAxisAlignItems string  `json:"counterAxisAlignItems,omitempty" msgpack:"counter_axis_align_items"`

	Characters          string   `json:"characters,omitempty" msgpack:"characters"`
	FontName            FontName `json:"fontName,omitzero" msgpack:"font_name"`
	FontSize            float64  `json:"fontSize,omitempty" msgpack:"font_size"`
	TextAlignHorizontal string   `json:"textAlignHorizontal,omitempty" msgpack:"text_align_horizontal"`
	TextAutoResize      string   `json:"textAutoResize,omitempty" msgpack:"text_auto_resize"`

	Children []*Node `json:"children,omitempty" msgpack:"children"`

	parent *Node
	doc    *MemoryDocument
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) isContainer() bool {
	return n.Type == TypeFrame || n.Type == TypePage
}

func (n *Node) requireType(property string, types ...NodeType) error {
	if !slices.Contains(types, n.Type) {
		return fmt.Errorf("%w: %s on %s", ErrNotSupported, property, n.Type)
	}
	return nil
}

func invalid(property string, value any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidProperty, property, value)
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

func (n *Node) SetName(name string) {
	n.Name = name
}

func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
}

// Resize sets the node size. Both dimensions must be at least 0.01.
func (n *Node) Resize(width, height float64) error {
	if err := n.requireType("size", TypeFrame, TypeText, TypeRectangle); err != nil {
		return err
	}
	if width < minSize || height < minSize {
		return invalid("size", fmt.Sprintf("%gx%g", width, height))
	}
	n.Width, n.Height = width, height
	if n.Type == TypeText {
		n.TextAutoResize = AutoResizeNone
	}
	return nil
}

func validatePaints(property string, paints []Paint) error {
	for _, p := range paints {
		if p.Type != PaintSolid {
			return invalid(property+".type", p.Type)
		}
		if !inUnitRange(p.Color.R) || !inUnitRange(p.Color.G) || !inUnitRange(p.Color.B) {
			return invalid(property+".color", p.Color)
		}
	}
	return nil
}

func (n *Node) SetFills(fills []Paint) error {
	if err := n.requireType("fills", TypeFrame, TypeText, TypeRectangle); err != nil {
		return err
	}
	if err := validatePaints("fills", fills); err != nil {
		return err
	}
	n.Fills = slices.Clone(fills)
	return nil
}

func (n *Node) SetStrokes(strokes []Paint) error {
	if err := n.requireType("strokes", TypeFrame, TypeText, TypeRectangle); err != nil {
		return err
	}
	if err := validatePaints("strokes", strokes); err != nil {
		return err
	}
	n.Strokes = slices.Clone(strokes)
	return nil
}

func (n *Node) SetStrokeWeight(weight float64) error {
	if err := n.requireType("strokeWeight", TypeFrame, TypeText, TypeRectangle); err != nil {
		return err
	}
	if weight < 0 {
		return invalid("strokeWeight", weight)
	}
	n.StrokeWeight = weight
	return nil
}

func (n *Node) SetEffects(effects []Effect) error {
	if err := n.requireType("effects", TypeFrame, TypeText, TypeRectangle); err != nil {
		return err
	}
	for _, e := range effects {
		if e.Type != EffectDropShadow {
			return invalid("effects.type", e.Type)
		}
		c := e.Color
		if !inUnitRange(c.R) || !inUnitRange(c.G) || !inUnitRange(c.B) || !inUnitRange(c.A) {
			return invalid("effects.color", c)
		}
		if e.Radius < 0 {
			return invalid("effects.radius", e.Radius)
		}
	}
	n.Effects = slices.Clone(effects)
	return nil
}

func (n *Node) SetOpacity(opacity float64) error {
	if !inUnitRange(opacity) {
		return invalid("opacity", opacity)
	}
	n.Opacity = opacity
	return nil
}

func (n *Node) SetCornerRadius(radius float64) error {
	if err := n.requireType("cornerRadius", TypeFrame, TypeRectangle); err != nil {
		return err
	}
	if radius < 0 {
		return invalid("cornerRadius", radius)
	}
	n.CornerRadius = radius
	return nil
}

func (n *Node) setFrameEnum(property string, allowed []string, value string, dst *string) error {
	if err := n.requireType(property, TypeFrame); err != nil {
		return err
	}
	if !slices.Contains(allowed, value) {
		return invalid(property, value)
	}
	*dst = value
	return nil
}

func (n *Node) SetLayoutMode(mode string) error {
	return n.setFrameEnum("layoutMode", layoutModes, mode, &n.LayoutMode)
}

func (n *Node) SetPrimaryAxisSizingMode(mode string) error {
	return n.setFrameEnum("primaryAxisSizingMode", sizingModes, mode, &n.PrimaryAxisSizingMode)
}

func (n *Node) SetCounterAxisSizingMode(mode string) error {
	return n.setFrameEnum("counterAxisSizingMode", sizingModes, mode, &n.CounterAxisSizingMode)
}

func (n *Node) SetPrimaryAxisAlignItems(align string) error {
	return n.setFrameEnum("primaryAxisAlignItems", primaryAlignments, align, &n.PrimaryAxisAlignItems)
}

func (n *Node) SetCounterAxisAlignItems(align string) error {
	return n.setFrameEnum("counterAxisAlignItems", counterAlignments, align, &n.CounterAxisAlignItems)
}

func (n *Node) SetPadding(side Side, value float64) error {
	if err := n.requireType("padding", TypeFrame); err != nil {
		return err
	}
	if value < 0 {
		return invalid("padding."+side.String(), value)
	}
	switch side {
	case SideTop:
		n.PaddingTop = value
	case SideRight:
		n.PaddingRight = value
	case SideBottom:
		n.PaddingBottom = value
	case SideLeft:
		n.PaddingLeft = value
	}
	return nil
}

func (n *Node) SetItemSpacing(spacing float64) error {
	if err := n.requireType("itemSpacing", TypeFrame); err != nil {
		return err
	}
	if spacing < 0 {
		return invalid("itemSpacing", spacing)
	}
	n.ItemSpacing = spacing
	return nil
}

// SetFontName switches the text font. The font must have been loaded in the
// owning document.
func (n *Node) SetFontName(font FontName) error {
	if err := n.requireType("fontName", TypeText); err != nil {
		return err
	}
	if !n.doc.isFontLoaded(font) {
		return fmt.Errorf("%w: %s", ErrFontNotLoaded, font)
	}
	n.FontName = font
	return nil
}

// SetCharacters replaces the text content. The current font must be loaded.
func (n *Node) SetCharacters(text string) error {
	if err := n.requireType("characters", TypeText); err != nil {
		return err
	}
	if !n.doc.isFontLoaded(n.FontName) {
		return fmt.Errorf("%w: %s", ErrFontNotLoaded, n.FontName)
	}
	n.Characters = text
	return nil
}

func (n *Node) SetFontSize(size float64) error {
	if err := n.requireType("fontSize", TypeText); err != nil {
		return err
	}
	if size < 1 {
		return invalid("fontSize", size)
	}
	if !n.doc.isFontLoaded(n.FontName) {
		return fmt.Errorf("%w: %s", ErrFontNotLoaded, n.FontName)
	}
	n.FontSize = size
	return nil
}

func (n *Node) SetTextAlignHorizontal(align string) error {
	if err := n.requireType("textAlignHorizontal", TypeText); err != nil {
		return err
	}
	if !slices.Contains(textAlignments, align) {
		return invalid("textAlignHorizontal", align)
	}
	n.TextAlignHorizontal = align
	return nil
}

func (n *Node) SetTextAutoResize(mode string) error {
	if err := n.requireType("textAutoResize", TypeText); err != nil {
		return err
	}
	if !slices.Contains(autoResizeModes, mode) {
		return invalid("textAutoResize", mode)
	}
	n.TextAutoResize = mode
	return nil
}

// AppendChild moves child at the end of the children of n.
func (n *Node) AppendChild(child *Node) error {
	if !n.isContainer() {
		return fmt.Errorf("%w: children on %s", ErrNotSupported, n.Type)
	}
	if child.Type == TypePage {
		return fmt.Errorf("%w: a page cannot be a child", ErrNotSupported)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: a node cannot contain itself", ErrInvalidProperty)
		}
	}
	child.detach()
	child.parent = n
	n.Children = append(n.Children, child)
	return nil
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	n.parent.Children = slices.DeleteFunc(n.parent.Children, func(c *Node) bool { return c == n })
	n.parent = nil
}

// Remove detaches the node from its parent and forgets it and all its
// descendants.
func (n *Node) Remove() {
	n.detach()
	if n.doc != nil {
		n.doc.forget(n)
	}
}

// FindChild returns the first direct child matching the predicate.
func (n *Node) FindChild(match func(*Node) bool) *Node {
	idx := slices.IndexFunc(n.Children, match)
	if idx == -1 {
		return nil
	}
	return n.Children[idx]
}

// FindAll returns every descendant matching the predicate, depth first.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var res []*Node
	for _, c := range n.Children {
		if match(c) {
			res = append(res, c)
		}
		res = append(res, c.FindAll(match)...)
	}
	return res
}
