// Package scene is the host document surface: a mutable graph of pages,
// frames, texts and rectangles with the property setters a design editor
// exposes. Setters reject out-of-range values with an error and leave the
// node untouched.
package scene

import (
	"context"
	"errors"
)

var (
	ErrInvalidProperty = errors.New("invalid property value")
	ErrNotSupported    = errors.New("property not supported by node type")
	ErrFontNotLoaded   = errors.New("font not loaded")
	ErrFontUnavailable = errors.New("font not available")
	ErrNodeNotFound    = errors.New("node not found")
)

type NodeType string

const (
	TypePage      NodeType = "PAGE"
	TypeFrame     NodeType = "FRAME"
	TypeText      NodeType = "TEXT"
	TypeRectangle NodeType = "RECTANGLE"
)

type RGB struct {
	R float64 `json:"r" msgpack:"r"`
	G float64 `json:"g" msgpack:"g"`
	B float64 `json:"b" msgpack:"b"`
}

type RGBA struct {
	R float64 `json:"r" msgpack:"r"`
	G float64 `json:"g" msgpack:"g"`
	B float64 `json:"b" msgpack:"b"`
	A float64 `json:"a" msgpack:"a"`
}

type Vector struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

const (
	PaintSolid       = "SOLID"
	EffectDropShadow = "DROP_SHADOW"
	BlendNormal      = "NORMAL"

	AutoResizeNone           = "NONE"
	AutoResizeWidthAndHeight = "WIDTH_AND_HEIGHT"
	AutoResizeHeight         = "HEIGHT"
)

type Paint struct {
	Type  string `json:"type" msgpack:"type"`
	Color RGB    `json:"color" msgpack:"color"`
}

type Effect struct {
	Type      string  `json:"type" msgpack:"type"`
	Visible   bool    `json:"visible" msgpack:"visible"`
	BlendMode string  `json:"blendMode" msgpack:"blend_mode"`
	Color     RGBA    `json:"color" msgpack:"color"`
	Offset    Vector  `json:"offset" msgpack:"offset"`
	Radius    float64 `json:"radius" msgpack:"radius"`
	Spread    float64 `json:"spread" msgpack:"spread"`
}

type FontName struct {
	Family string `json:"family" msgpack:"family"`
	Style  string `json:"style" msgpack:"style"`
}

func (f FontName) String() string {
	return f.Family + " " + f.Style
}

// Document is the host document the generation pipeline mutates.
type Document interface {
	CurrentPage() *Node
	CreateFrame() *Node
	CreateText() *Node
	CreateRectangle() *Node
	LoadFont(ctx context.Context, font FontName) error
	NodeByID(id string) (*Node, bool)
	Selection() []*Node
	Notify(message string)
}
