// Package framemanager materializes layout trees into top-level frames of a
// scene document.
package framemanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/figgen/figgen-cli/internal/errhandler"
	"github.com/figgen/figgen-cli/internal/layout"
	"github.com/figgen/figgen-cli/internal/nodefactory"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/scene"
)

type Manager struct {
	reg     *preset.Registry
	factory *nodefactory.Factory
	logger  *slog.Logger
}

func New(reg *preset.Registry, factory *nodefactory.Factory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{reg: reg, factory: factory, logger: logger}
}

// Materialize renders every tree into the top-level frame of the current page
// carrying its name, creating the frame when missing. The previous content of
// the frame is replaced.
func (m *Manager) Materialize(ctx context.Context, doc scene.Document, trees []layout.Tree) error {
	if err := m.loadDefaultFont(ctx, doc); err != nil {
		return err
	}
	for _, tree := range trees {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame := m.findFrame(doc, tree.Name)
		if frame == nil {
			frame = m.createFrame(doc, tree)
		}
		if err := m.render(ctx, doc, frame, tree); err != nil {
			return err
		}
	}
	return nil
}

// MaterializeInto renders the first tree into the existing frame frameID.
func (m *Manager) MaterializeInto(ctx context.Context, doc scene.Document, trees []layout.Tree, frameID string) error {
	frame, ok := doc.NodeByID(frameID)
	if !ok || frame.Type != scene.TypeFrame {
		return &errhandler.HostOperationError{
			Op:  fmt.Sprintf("materialize into %q", frameID),
			Err: errhandler.ErrFrameNotFound,
		}
	}
	if err := m.loadDefaultFont(ctx, doc); err != nil {
		return err
	}
	if len(trees) == 0 {
		return nil
	}
	return m.render(ctx, doc, frame, trees[0])
}

func (m *Manager) loadDefaultFont(ctx context.Context, doc scene.Document) error {
	font := scene.FontName{Family: m.reg.Font.Family, Style: m.reg.Font.Styles.Regular}
	if err := doc.LoadFont(ctx, font); err != nil {
		return &errhandler.HostOperationError{Op: "load font " + font.String(), Err: err}
	}
	return nil
}

func (m *Manager) findFrame(doc scene.Document, name string) *scene.Node {
	return doc.CurrentPage().FindChild(func(n *scene.Node) bool {
		return n.Type == scene.TypeFrame && n.Name == name
	})
}

func (m *Manager) createFrame(doc scene.Document, tree layout.Tree) *scene.Node {
	frame := doc.CreateFrame()
	frame.SetName(tree.Name)
	w, h := m.initialSize(tree)
	if err := frame.Resize(w, h); err != nil {
		m.logger.Warn("cannot size frame", slog.String("frame", tree.Name), slog.String("error", err.Error()))
	}
	return frame
}

// initialSize uses the size declared by the first top-level FRAME node. When
// there is none, a large canvas is picked if any top-level node is larger
// than the threshold, a small one otherwise.
func (m *Manager) initialSize(tree layout.Tree) (float64, float64) {
	if idx := tree.FirstFrame(); idx != -1 {
		main := tree.Nodes[idx]
		w, wok := main.Width.Number()
		h, hok := main.Height.Number()
		if wok && hok && w != 0 && h != 0 {
			return w, h
		}
	}

	c := m.reg.Canvas
	large := slices.ContainsFunc(tree.Nodes, func(n layout.Node) bool {
		w, _ := n.Width.Number()
		h, _ := n.Height.Number()
		return w > c.LargeThreshold || h > c.LargeThreshold
	})
	if large {
		return c.Large.Width, c.Large.Height
	}
	return c.Small.Width, c.Small.Height
}

// render replaces the content of frame with tree. The first top-level FRAME
// node is folded into frame: its fills, auto-layout and corner radius are
// applied to frame and its children become children of frame, followed by
// the other top-level nodes.
func (m *Manager) render(ctx context.Context, doc scene.Document, frame *scene.Node, tree layout.Tree) error {
	for _, c := range slices.Clone(frame.Children) {
		c.Remove()
	}

	nodes := tree.Nodes
	if idx := tree.FirstFrame(); idx != -1 {
		main := tree.Nodes[idx]
		m.applyFrameProperties(ctx, frame, main)
		nodes = slices.Concat(main.Children, slices.Delete(slices.Clone(tree.Nodes), idx, idx+1))
	}
	for _, def := range nodes {
		m.addNode(ctx, doc, frame, def)
	}

	if len(frame.Children) == 0 {
		if err := m.addPlaceholder(ctx, doc, frame); err != nil {
			return &errhandler.HostOperationError{Op: "add placeholder", Err: err}
		}
	}
	m.logger.DebugContext(ctx, "frame rendered", slog.String("frame", frame.Name), slog.Int("children", len(frame.Children)))
	return nil
}

func (m *Manager) applyFrameProperties(ctx context.Context, frame *scene.Node, def layout.Node) {
	if len(def.Fills) > 0 {
		m.factory.ApplyFills(ctx, frame, def)
	}
	if def.UsesAutoLayout() {
		m.factory.ConfigureAutoLayout(ctx, frame, def)
	}
	m.factory.ApplyCornerRadius(ctx, frame, def)
}

func (m *Manager) addNode(ctx context.Context, doc scene.Document, parent *scene.Node, def layout.Node) {
	node := m.factory.CreateNode(ctx, doc, def, parent)
	if def.Kind != layout.KindFrame {
		return
	}
	for _, child := range def.Children {
		m.addNode(ctx, doc, node, child)
	}
}

func (m *Manager) addPlaceholder(ctx context.Context, doc scene.Document, frame *scene.Node) error {
	fb := m.reg.Fallback
	color := m.reg.Palette.FallbackText

	text := doc.CreateText()
	err := errors.Join(
		text.SetCharacters(fb.Placeholder),
		text.SetFontSize(fb.PlaceholderSize),
		text.SetFills([]scene.Paint{{Type: scene.PaintSolid, Color: scene.RGB{R: color.R, G: color.G, B: color.B}}}),
	)
	if err != nil {
		text.Remove()
		return err
	}
	text.SetPosition(frame.Width/2-fb.PlaceholderOffsetX, frame.Height/2)
	return frame.AppendChild(text)
}
