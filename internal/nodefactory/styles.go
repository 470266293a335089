package nodefactory

import (
	"context"
	"errors"

	"github.com/figgen/figgen-cli/internal/layout"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/scene"
)

var errStrokeWithoutColor = errors.New("stroke without color")

func sceneRGB(c preset.RGB) scene.RGB {
	return scene.RGB{R: c.R, G: c.G, B: c.B}
}

func clampedRGB(c *layout.Color) scene.RGB {
	return scene.RGB{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

func (f *Factory) defaultShadow() scene.Effect {
	s := f.reg.Shadow
	return scene.Effect{
		Type:      scene.EffectDropShadow,
		Visible:   true,
		BlendMode: scene.BlendNormal,
		Color:     scene.RGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: s.Color.A},
		Offset:    scene.Vector{X: s.Offset.X, Y: s.Offset.Y},
		Radius:    s.Radius,
		Spread:    s.Spread,
	}
}

// applyStyles positions node inside parent and applies fills, strokes,
// opacity and effects.
func (f *Factory) applyStyles(ctx context.Context, node *scene.Node, def layout.Node, parent *scene.Node) {
	if !isAutoLayout(parent) {
		node.SetPosition(def.Position())
	}
	f.ApplyFills(ctx, node, def)
	f.applyStrokes(ctx, node, def)
	f.applyOpacity(ctx, node, def)
	f.applyEffects(ctx, node, def)
}

// ApplyFills sets the fills of def with clamped channels. The alpha of the
// first fill becomes the node opacity. Without fills, texts get the primary
// text color, images keep their placeholder and anything else turns white.
func (f *Factory) ApplyFills(ctx context.Context, node *scene.Node, def layout.Node) {
	if len(def.Fills) == 0 {
		var color preset.RGB
		switch def.Kind {
		case layout.KindImage:
			return
		case layout.KindText:
			color = f.reg.Palette.TextPrimary
		default:
			color = f.reg.Palette.White
		}
		f.applyOrDefault(ctx, node, "fills", func() error {
			return node.SetFills([]scene.Paint{{Type: scene.PaintSolid, Color: sceneRGB(color)}})
		})
		return
	}

	paints := make([]scene.Paint, 0, len(def.Fills))
	for _, fill := range def.Fills {
		if fill.Color == nil {
			paints = append(paints, scene.Paint{Type: scene.PaintSolid, Color: sceneRGB(f.reg.Palette.BackgroundLight)})
			continue
		}
		paints = append(paints, scene.Paint{Type: fill.Type, Color: clampedRGB(fill.Color)})
	}
	if !f.applyOrDefault(ctx, node, "fills", func() error { return node.SetFills(paints) }) {
		fallback := []scene.Paint{{Type: scene.PaintSolid, Color: sceneRGB(f.reg.Palette.BackgroundLight)}}
		f.applyOrDefault(ctx, node, "fills", func() error { return node.SetFills(fallback) })
		return
	}

	if first := def.Fills[0]; first.Color != nil && first.Color.A != nil && *first.Color.A != 1 {
		alpha := clamp01(*first.Color.A)
		f.applyOrDefault(ctx, node, "opacity", func() error { return node.SetOpacity(alpha) })
	}
}

func (f *Factory) applyStrokes(ctx context.Context, node *scene.Node, def layout.Node) {
	if def.Strokes == nil {
		return
	}
	ok := f.applyOrDefault(ctx, node, "strokes", func() error {
		paints := make([]scene.Paint, 0, len(def.Strokes))
		for _, stroke := range def.Strokes {
			if stroke.Color == nil {
				return errStrokeWithoutColor
			}
			paints = append(paints, scene.Paint{Type: stroke.Type, Color: clampedRGB(stroke.Color)})
		}
		return node.SetStrokes(paints)
	})
	if ok && def.StrokeWeight != nil && *def.StrokeWeight >= 0 {
		f.applyOrDefault(ctx, node, "strokeWeight", func() error { return node.SetStrokeWeight(*def.StrokeWeight) })
	}
}

func (f *Factory) applyOpacity(ctx context.Context, node *scene.Node, def layout.Node) {
	if def.Opacity == nil {
		return
	}
	opacity := clamp01(*def.Opacity)
	f.applyOrDefault(ctx, node, "opacity", func() error { return node.SetOpacity(opacity) })
}

// applyEffects sets the shadows of def, filling the missing fields with the
// effect defaults. A malformed or rejected list falls back to the default
// drop shadow.
func (f *Factory) applyEffects(ctx context.Context, node *scene.Node, def layout.Node) {
	shadow := []scene.Effect{f.defaultShadow()}
	if def.EffectsMalformed {
		f.applyOrDefault(ctx, node, "effects", func() error { return node.SetEffects(shadow) })
		return
	}
	if len(def.Effects) == 0 {
		return
	}

	d := f.reg.EffectDefaults
	effects := make([]scene.Effect, 0, len(def.Effects))
	for _, e := range def.Effects {
		effect := scene.Effect{
			Type:      e.Type,
			Visible:   true,
			BlendMode: scene.BlendNormal,
			Color:     scene.RGBA{R: d.Color.R, G: d.Color.G, B: d.Color.B, A: d.Color.A},
			Offset:    scene.Vector{X: d.Offset.X, Y: d.Offset.Y},
			Radius:    d.Radius,
			Spread:    max(0, d.Spread),
		}
		if effect.Type == "" {
			effect.Type = layout.EffectDropShadow
		}
		if e.Color != nil {
			alpha := d.Alpha
			if e.Color.A != nil && *e.Color.A != 0 {
				alpha = *e.Color.A
			}
			effect.Color = scene.RGBA{R: clamp01(e.Color.R), G: clamp01(e.Color.G), B: clamp01(e.Color.B), A: clamp01(alpha)}
		}
		if e.Offset != nil {
			effect.Offset.X = e.Offset.X
			if e.Offset.Y != 0 {
				effect.Offset.Y = e.Offset.Y
			}
		}
		if e.Radius != nil && *e.Radius != 0 {
			effect.Radius = max(0, *e.Radius)
		}
		if e.Spread != nil {
			effect.Spread = max(0, *e.Spread)
		}
		effects = append(effects, effect)
	}
	if !f.applyOrDefault(ctx, node, "effects", func() error { return node.SetEffects(effects) }) {
		f.applyOrDefault(ctx, node, "effects", func() error { return node.SetEffects(shadow) })
	}
}
