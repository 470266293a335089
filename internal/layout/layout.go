// Package layout holds the screen description returned by the generation
// service: named trees of visual nodes.
package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

type Kind string

const (
	KindText      Kind = "TEXT"
	KindRectangle Kind = "RECTANGLE"
	KindFrame     Kind = "FRAME"
	KindImage     Kind = "IMAGE"
)

func (k Kind) AllowedKinds() []Kind {
	return []Kind{KindText, KindRectangle, KindFrame, KindImage}
}

func (k Kind) IsValid() bool {
	return slices.Contains(k.AllowedKinds(), k)
}

const (
	LayoutNone       = "NONE"
	LayoutHorizontal = "HORIZONTAL"
	LayoutVertical   = "VERTICAL"

	PaintSolid       = "SOLID"
	EffectDropShadow = "DROP_SHADOW"

	// AutoDimension is the width/height sentinel asking the host to size the
	// node itself.
	AutoDimension = "auto"
)

var (
	AllowedTextAligns        = []string{"LEFT", "CENTER", "RIGHT"}
	AllowedLayoutModes       = []string{LayoutNone, LayoutHorizontal, LayoutVertical}
	AllowedSizingModes       = []string{"FIXED", "AUTO"}
	AllowedPrimaryAlignments = []string{"MIN", "CENTER", "MAX", "SPACE_BETWEEN"}
	AllowedCounterAlignments = []string{"MIN", "CENTER", "MAX"}
	AllowedFontWeights       = []string{"normal", "bold", "medium", "light"}
)

// Response is the parsed output of a generation request.
type Response struct {
	Frames []Tree `json:"frames"`
}

// Tree describes one named top-level screen.
type Tree struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`

	// Issues collects the fields and nodes that were dropped while decoding.
	Issues []string `json:"-"`
}

// UnmarshalJSON decodes the nodes one by one, so that a malformed node is
// reported in Issues while its siblings are kept.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("frame must be an object")
	}
	*t = Tree{}
	d := fieldDecoder{raw: raw}
	decodeField(&d, "name", &t.Name, "a string")
	t.Nodes = d.decodeNodes("nodes")
	t.Issues = d.issues
	return nil
}

// FirstFrame returns the index of the first top-level node of kind FRAME, or -1.
func (t Tree) FirstFrame() int {
	return slices.IndexFunc(t.Nodes, func(n Node) bool { return n.Kind == KindFrame })
}

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimension is a width or height: unset, the "auto" sentinel, or a number.
type Dimension struct {
	value float64
	auto  bool
	set   bool
}

func Fixed(v float64) Dimension { return Dimension{value: v, set: true} }

func Auto() Dimension { return Dimension{auto: true, set: true} }

func (d Dimension) IsSet() bool  { return d.set }
func (d Dimension) IsAuto() bool { return d.set && d.auto }

// Number returns the numeric value, false when unset or "auto".
func (d Dimension) Number() (float64, bool) {
	if !d.set || d.auto {
		return 0, false
	}
	return d.value, true
}

// OrDefault returns the numeric value or def when unset or "auto".
func (d Dimension) OrDefault(def float64) float64 {
	if v, ok := d.Number(); ok {
		return v
	}
	return def
}

func (d Dimension) IsZero() bool { return !d.set }

func (d Dimension) MarshalJSON() ([]byte, error) {
	switch {
	case !d.set:
		return []byte("null"), nil
	case d.auto:
		return json.Marshal(AutoDimension)
	default:
		return json.Marshal(d.value)
	}
}

func (d *Dimension) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Dimension{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != AutoDimension {
			return fmt.Errorf("invalid dimension %q", s)
		}
		*d = Auto()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid dimension %s", data)
	}
	*d = Fixed(v)
	return nil
}

// Color is a solid color with channels in [0,1]. A, when present, is an
// opacity and not a per-channel alpha.
type Color struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a,omitempty"`

	// Invalid lists the channels that were present but not numbers, or missing.
	Invalid []string `json:"-"`
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("color must be an object: %w", err)
	}
	*c = Color{}
	for _, ch := range []struct {
		key string
		dst *float64
	}{{"r", &c.R}, {"g", &c.G}, {"b", &c.B}} {
		v, ok := raw[ch.key]
		if !ok || json.Unmarshal(v, ch.dst) != nil {
			c.Invalid = append(c.Invalid, ch.key)
		}
	}
	if v, ok := raw["a"]; ok && !isNull(v) {
		var a float64
		if err := json.Unmarshal(v, &a); err != nil {
			c.Invalid = append(c.Invalid, "a")
		} else {
			c.A = &a
		}
	}
	return nil
}

// Paint is a fill or stroke descriptor.
type Paint struct {
	Type  string `json:"type"`
	Color *Color `json:"color,omitempty"`
}

// Effect is a shadow descriptor. Every field is optional.
type Effect struct {
	Type   string   `json:"type,omitempty"`
	Color  *Color   `json:"color,omitempty"`
	Offset *Vector  `json:"offset,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	Spread *float64 `json:"spread,omitempty"`
}

// Node describes one visual element. Optional scalar properties are pointers
// so that "absent" and "zero" stay distinct.
type Node struct {
	Kind         Kind      `json:"type"`
	Name         string    `json:"name,omitempty"`
	X            *float64  `json:"x,omitempty"`
	Y            *float64  `json:"y,omitempty"`
	Width        Dimension `json:"width,omitzero"`
	Height       Dimension `json:"height,omitzero"`
	CornerRadius *float64  `json:"cornerRadius,omitempty"`
	Fills        []Paint   `json:"fills,omitempty"`
	Strokes      []Paint   `json:"strokes,omitempty"`
	StrokeWeight *float64  `json:"strokeWeight,omitempty"`
	Effects      []Effect  `json:"effects,omitempty"`
	Opacity      *float64  `json:"opacity,omitempty"`

	Characters string   `json:"characters,omitempty"`
	Text       string   `json:"text,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontWeight string   `json:"fontWeight,omitempty"`
	TextAlign  string   `json:"textAlign,omitempty"`
	ImageURL   string   `json:"imageUrl,omitempty"`

	LayoutMode            string   `json:"layoutMode,omitempty"`
	PaddingTop            *float64 `json:"paddingTop,omitempty"`
	PaddingRight          *float64 `json:"paddingRight,omitempty"`
	PaddingBottom         *float64 `json:"paddingBottom,omitempty"`
	PaddingLeft           *float64 `json:"paddingLeft,omitempty"`
	ItemSpacing           *float64 `json:"itemSpacing,omitempty"`
	PrimaryAxisSizingMode string   `json:"primaryAxisSizingMode,omitempty"`
	CounterAxisSizingMode string   `json:"counterAxisSizingMode,omitempty"`
	PrimaryAxisAlignItems string   `json:"primaryAxisAlignItems,omitempty"`
	CounterAxisAlignItems string   `json:"counterAxisAlignItems,omitempty"`

	Children []Node `json:"children,omitempty"`

	// EffectsMalformed is set when "effects" was present but could not be
	// decoded as a list of shadow descriptors.
	EffectsMalformed bool `json:"-"`
	// Issues collects the fields that were dropped while decoding because they
	// carried a value of the wrong type.
	Issues []string `json:"-"`
}

// Content returns the text of a TEXT node: characters, then the legacy text
// field.
func (n Node) Content() string {
	if n.Characters != "" {
		return n.Characters
	}
	return n.Text
}

// Position returns x and y, treating absent coordinates as 0.
func (n Node) Position() (float64, float64) {
	var x, y float64
	if n.X != nil {
		x = *n.X
	}
	if n.Y != nil {
		y = *n.Y
	}
	return x, y
}

// UsesAutoLayout reports whether the node declares a layout mode other than NONE.
func (n Node) UsesAutoLayout() bool {
	return n.LayoutMode != "" && n.LayoutMode != LayoutNone
}

// UnmarshalJSON decodes a node field by field. A field holding a value of the
// wrong type is left unset and reported in Issues instead of failing the
// whole document. Children may be given as "children" or "nodes", the
// former taking precedence.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("node must be an object")
	}
	*n = Node{}
	d := fieldDecoder{raw: raw}

	var kind string
	decodeField(&d, "type", &kind, "a string")
	n.Kind = Kind(kind)
	decodeField(&d, "name", &n.Name, "a string")
	decodeField(&d, "x", &n.X, "a number")
	decodeField(&d, "y", &n.Y, "a number")
	decodeField(&d, "width", &n.Width, `a number or "auto"`)
	decodeField(&d, "height", &n.Height, `a number or "auto"`)
	decodeField(&d, "cornerRadius", &n.CornerRadius, "a number")
	decodeField(&d, "fills", &n.Fills, "a list of paints")
	decodeField(&d, "strokes", &n.Strokes, "a list of paints")
	decodeField(&d, "strokeWeight", &n.StrokeWeight, "a number")
	decodeField(&d, "opacity", &n.Opacity, "a number")
	decodeField(&d, "characters", &n.Characters, "a string")
	decodeField(&d, "text", &n.Text, "a string")
	decodeField(&d, "fontSize", &n.FontSize, "a number")
	decodeField(&d, "fontWeight", &n.FontWeight, "a string")
	decodeField(&d, "textAlign", &n.TextAlign, "a string")
	decodeField(&d, "imageUrl", &n.ImageURL, "a string")
	decodeField(&d, "layoutMode", &n.LayoutMode, "a string")
	decodeField(&d, "paddingTop", &n.PaddingTop, "a number")
	decodeField(&d, "paddingRight", &n.PaddingRight, "a number")
	decodeField(&d, "paddingBottom", &n.PaddingBottom, "a number")
	decodeField(&d, "paddingLeft", &n.PaddingLeft, "a number")
	decodeField(&d, "itemSpacing", &n.ItemSpacing, "a number")
	decodeField(&d, "primaryAxisSizingMode", &n.PrimaryAxisSizingMode, "a string")
	decodeField(&d, "counterAxisSizingMode", &n.CounterAxisSizingMode, "a string")
	decodeField(&d, "primaryAxisAlignItems", &n.PrimaryAxisAlignItems, "a string")
	decodeField(&d, "counterAxisAlignItems", &n.CounterAxisAlignItems, "a string")

	if v, ok := raw["effects"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &n.Effects); err != nil {
			n.Effects = nil
			n.EffectsMalformed = true
		}
	}

	childrenKey := "children"
	if _, ok := raw[childrenKey]; !ok {
		childrenKey = "nodes"
	}
	n.Children = d.decodeNodes(childrenKey)

	n.Issues = d.issues
	return nil
}

type fieldDecoder struct {
	raw    map[string]json.RawMessage
	issues []string
}

// decodeNodes decodes the list under key item by item, skipping and
// reporting the items that are not nodes.
func (d *fieldDecoder) decodeNodes(key string) []Node {
	v, ok := d.raw[key]
	if !ok || isNull(v) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		d.issues = append(d.issues, key+": expected a list of nodes")
		return nil
	}
	var nodes []Node
	for i, item := range items {
		var n Node
		if err := json.Unmarshal(item, &n); err != nil {
			d.issues = append(d.issues, key+"["+strconv.Itoa(i)+"]: "+err.Error())
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func decodeField[T any](d *fieldDecoder, key string, dst *T, expected string) {
	v, ok := d.raw[key]
	if !ok || isNull(v) {
		return
	}
	var value T
	if err := json.Unmarshal(v, &value); err != nil {
		d.issues = append(d.issues, fmt.Sprintf("%s: expected %s", key, expected))
		return
	}
	*dst = value
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
