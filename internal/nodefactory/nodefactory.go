// Package nodefactory builds scene nodes out of layout nodes. It never fails:
// a value the scene rejects is logged and the node keeps a safe default, so
// one malformed node cannot prevent its siblings from being built.
package nodefactory

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/figgen/figgen-cli/internal/layout"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/scene"
)

const defaultSize = 100

type Factory struct {
	reg    *preset.Registry
	logger *slog.Logger
}

func New(reg *preset.Registry, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{reg: reg, logger: logger}
}

// CreateNode builds def, styles it, and appends it to parent. Children of
// frames are not built here. Unknown kinds are built as frames.
func (f *Factory) CreateNode(ctx context.Context, doc scene.Document, def layout.Node, parent *scene.Node) *scene.Node {
	var node *scene.Node
	switch def.Kind {
	case layout.KindText:
		node = f.createText(ctx, doc, def, parent)
	case layout.KindRectangle:
		node = f.createRectangle(ctx, doc, def)
	case layout.KindImage:
		node = f.createImage(ctx, doc, def)
	default:
		node = f.createFrame(ctx, doc, def)
	}
	if def.Name != "" {
		node.SetName(def.Name)
	}

	f.applyStyles(ctx, node, def, parent)
	f.applyOrDefault(ctx, node, "parent", func() error { return parent.AppendChild(node) })

	if def.Kind == layout.KindImage {
		f.addImageGlyph(ctx, doc, def, parent)
	}
	return node
}

func isAutoLayout(n *scene.Node) bool {
	return n.LayoutMode != "" && n.LayoutMode != layout.LayoutNone
}

func (f *Factory) regularFont() scene.FontName {
	return scene.FontName{Family: f.reg.Font.Family, Style: f.reg.Font.Styles.Regular}
}

func (f *Factory) loadFont(ctx context.Context, doc scene.Document, node *scene.Node, font scene.FontName) bool {
	return f.applyOrDefault(ctx, node, "fontName", func() error {
		if err := doc.LoadFont(ctx, font); err != nil {
			return err
		}
		return node.SetFontName(font)
	})
}

func (f *Factory) createText(ctx context.Context, doc scene.Document, def layout.Node, parent *scene.Node) *scene.Node {
	node := doc.CreateText()
	f.loadFont(ctx, doc, node, f.regularFont())

	content := def.Content()
	if content == "" {
		content = f.reg.Fallback.Text
	}
	f.applyOrDefault(ctx, node, "characters", func() error { return node.SetCharacters(content) })

	size := f.reg.Font.DefaultSize
	if def.FontSize != nil && *def.FontSize > 0 {
		size = max(f.reg.Font.MinSize, *def.FontSize)
	}
	f.applyOrDefault(ctx, node, "fontSize", func() error { return node.SetFontSize(size) })

	if def.FontWeight != "" {
		f.applyFontWeight(ctx, doc, node, def.FontWeight)
	}

	if def.TextAlign != "" {
		align := strings.ToUpper(def.TextAlign)
		if !slices.Contains(layout.AllowedTextAligns, align) {
			align = "LEFT"
		}
		f.applyOrDefault(ctx, node, "textAlignHorizontal", func() error { return node.SetTextAlignHorizontal(align) })
	}

	if isAutoLayout(parent) {
		f.applyOrDefault(ctx, node, "textAutoResize", func() error {
			return node.SetTextAutoResize(scene.AutoResizeWidthAndHeight)
		})
	} else {
		w, wok := def.Width.Number()
		h, hok := def.Height.Number()
		if wok && hok && w != 0 && h != 0 {
			f.applyOrDefault(ctx, node, "size", func() error { return node.Resize(w, h) })
		}
	}
	return node
}

// applyFontWeight switches to the style of weight, falling back to the
// regular style when it cannot be loaded.
func (f *Factory) applyFontWeight(ctx context.Context, doc scene.Document, node *scene.Node, weight string) {
	font := scene.FontName{Family: f.reg.Font.Family, Style: f.reg.FontStyle(weight)}
	if f.loadFont(ctx, doc, node, font) {
		return
	}
	f.loadFont(ctx, doc, node, f.regularFont())
}

func (f *Factory) resize(ctx context.Context, node *scene.Node, def layout.Node) {
	w := def.Width.OrDefault(defaultSize)
	h := def.Height.OrDefault(defaultSize)
	f.applyOrDefault(ctx, node, "size", func() error { return node.Resize(w, h) })
}

func (f *Factory) createRectangle(ctx context.Context, doc scene.Document, def layout.Node) *scene.Node {
	node := doc.CreateRectangle()
	f.resize(ctx, node, def)
	f.ApplyCornerRadius(ctx, node, def)
	return node
}

func (f *Factory) createFrame(ctx context.Context, doc scene.Document, def layout.Node) *scene.Node {
	node := doc.CreateFrame()
	f.resize(ctx, node, def)
	if def.UsesAutoLayout() {
		f.ConfigureAutoLayout(ctx, node, def)
	}
	f.ApplyCornerRadius(ctx, node, def)
	return node
}

func (f *Factory) createImage(ctx context.Context, doc scene.Document, def layout.Node) *scene.Node {
	node := doc.CreateRectangle()
	node.SetName("Image")
	f.resize(ctx, node, def)

	placeholder := []scene.Paint{{Type: scene.PaintSolid, Color: sceneRGB(f.reg.Palette.ImagePlaceholder)}}
	f.applyOrDefault(ctx, node, "fills", func() error { return node.SetFills(placeholder) })
	f.applyOrDefault(ctx, node, "effects", func() error { return node.SetEffects([]scene.Effect{f.defaultShadow()}) })
	f.ApplyCornerRadius(ctx, node, def)
	return node
}

// ConfigureAutoLayout applies the layout mode of def and the auto-layout
// properties that are present and in range. Anything else is ignored.
func (f *Factory) ConfigureAutoLayout(ctx context.Context, frame *scene.Node, def layout.Node) {
	if !f.applyOrDefault(ctx, frame, "layoutMode", func() error { return frame.SetLayoutMode(def.LayoutMode) }) {
		return
	}

	for _, p := range []struct {
		side  scene.Side
		value *float64
	}{
		{scene.SideTop, def.PaddingTop},
		{scene.SideBottom, def.PaddingBottom},
		{scene.SideLeft, def.PaddingLeft},
		{scene.SideRight, def.PaddingRight},
	} {
		if p.value != nil && *p.value >= 0 {
			f.applyOrDefault(ctx, frame, "padding", func() error { return frame.SetPadding(p.side, *p.value) })
		}
	}
	if def.ItemSpacing != nil && *def.ItemSpacing >= 0 {
		f.applyOrDefault(ctx, frame, "itemSpacing", func() error { return frame.SetItemSpacing(*def.ItemSpacing) })
	}

	if slices.Contains(layout.AllowedSizingModes, def.PrimaryAxisSizingMode) {
		f.applyOrDefault(ctx, frame, "primaryAxisSizingMode", func() error {
			return frame.SetPrimaryAxisSizingMode(def.PrimaryAxisSizingMode)
		})
	}
	if slices.Contains(layout.AllowedSizingModes, def.CounterAxisSizingMode) {
		f.applyOrDefault(ctx, frame, "counterAxisSizingMode", func() error {
			return frame.SetCounterAxisSizingMode(def.CounterAxisSizingMode)
		})
	}
	if slices.Contains(layout.AllowedPrimaryAlignments, def.PrimaryAxisAlignItems) {
		f.applyOrDefault(ctx, frame, "primaryAxisAlignItems", func() error {
			return frame.SetPrimaryAxisAlignItems(def.PrimaryAxisAlignItems)
		})
	}
	if slices.Contains(layout.AllowedCounterAlignments, def.CounterAxisAlignItems) {
		f.applyOrDefault(ctx, frame, "counterAxisAlignItems", func() error {
			return frame.SetCounterAxisAlignItems(def.CounterAxisAlignItems)
		})
	}
}

// ApplyCornerRadius sets a non-zero corner radius.
func (f *Factory) ApplyCornerRadius(ctx context.Context, node *scene.Node, def layout.Node) {
	if def.CornerRadius == nil || *def.CornerRadius == 0 {
		return
	}
	f.applyOrDefault(ctx, node, "cornerRadius", func() error { return node.SetCornerRadius(*def.CornerRadius) })
}

// addImageGlyph appends to parent a text glyph centered on the image
// described by def.
func (f *Factory) addImageGlyph(ctx context.Context, doc scene.Document, def layout.Node, parent *scene.Node) {
	hint := def.ImageURL
	if hint == "" {
		hint = "photo"
	}
	w := def.Width.OrDefault(defaultSize)
	h := def.Height.OrDefault(defaultSize)
	size := min(w, h) * f.reg.ImageGlyphScale
	x, y := def.Position()

	glyph := doc.CreateText()
	glyph.SetName("Image icon")
	f.loadFont(ctx, doc, glyph, f.regularFont())
	f.applyOrDefault(ctx, glyph, "characters", func() error { return glyph.SetCharacters(f.reg.ImageGlyph(hint)) })
	f.applyOrDefault(ctx, glyph, "fontSize", func() error { return glyph.SetFontSize(size) })
	f.applyOrDefault(ctx, glyph, "textAlignHorizontal", func() error { return glyph.SetTextAlignHorizontal("CENTER") })
	glyph.SetPosition(x+w/2-size/2, y+h/2-size/2)
	f.applyOrDefault(ctx, glyph, "parent", func() error { return parent.AppendChild(glyph) })
}
