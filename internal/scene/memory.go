package scene

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultFonts are the fonts a fresh document can load.
var DefaultFonts = []FontName{
	{Family: "Inter", Style: "Regular"},
	{Family: "Inter", Style: "Bold"},
	{Family: "Inter", Style: "Medium"},
	{Family: "Inter", Style: "Light"},
}

// MemoryDocument is a Document kept in memory with a single page. It is not
// safe for concurrent use.
type MemoryDocument struct {
	name      string
	page      *Node
	fonts     []FontName
	loaded    []FontName
	selection []string
	index     map[string]*Node
	notifier  func(string)
}

type Option func(*MemoryDocument)

// WithFonts replaces the fonts available for loading.
func WithFonts(fonts ...FontName) Option {
	return func(d *MemoryDocument) {
		d.fonts = slices.Clone(fonts)
	}
}

// WithNotifier registers a callback receiving every host notification.
func WithNotifier(fn func(message string)) Option {
	return func(d *MemoryDocument) {
		d.notifier = fn
	}
}

func NewMemoryDocument(name string, opts ...Option) *MemoryDocument {
	d := &MemoryDocument{
		name:  name,
		fonts: slices.Clone(DefaultFonts),
		index: map[string]*Node{},
	}
	d.page = d.newNode(TypePage)
	d.page.Name = "Page 1"
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *MemoryDocument) Name() string {
	return d.name
}

func (d *MemoryDocument) CurrentPage() *Node {
	return d.page
}

func (d *MemoryDocument) newNode(t NodeType) *Node {
	n := &Node{
		ID:      uuid.NewString(),
		Type:    t,
		Opacity: 1,
		doc:     d,
	}
	d.index[n.ID] = n
	return n
}

// CreateFrame creates a 100x100 white frame appended to the current page.
func (d *MemoryDocument) CreateFrame() *Node {
	n := d.newNode(TypeFrame)
	n.Name = "Frame"
	n.Width, n.Height = 100, 100
	n.Fills = []Paint{{Type: PaintSolid, Color: RGB{R: 1, G: 1, B: 1}}}
	n.LayoutMode = "NONE"
	_ = d.page.AppendChild(n)
	return n
}

// CreateText creates an empty text appended to the current page, using the
// Inter Regular font.
func (d *MemoryDocument) CreateText() *Node {
	n := d.newNode(TypeText)
	n.Name = "Text"
	n.FontName = DefaultFonts[0]
	n.FontSize = 12
	n.TextAlignHorizontal = "LEFT"
	n.TextAutoResize = AutoResizeWidthAndHeight
	n.Fills = []Paint{{Type: PaintSolid, Color: RGB{}}}
	_ = d.page.AppendChild(n)
	return n
}

// CreateRectangle creates a 100x100 gray rectangle appended to the current page.
func (d *MemoryDocument) CreateRectangle() *Node {
	n := d.newNode(TypeRectangle)
	n.Name = "Rectangle"
	n.Width, n.Height = 100, 100
	n.Fills = []Paint{{Type: PaintSolid, Color: RGB{R: 0.85, G: 0.85, B: 0.85}}}
	_ = d.page.AppendChild(n)
	return n
}

func (d *MemoryDocument) LoadFont(ctx context.Context, font FontName) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !slices.Contains(d.fonts, font) {
		return fmt.Errorf("%w: %s", ErrFontUnavailable, font)
	}
	if !slices.Contains(d.loaded, font) {
		d.loaded = append(d.loaded, font)
	}
	return nil
}

func (d *MemoryDocument) isFontLoaded(font FontName) bool {
	if d == nil {
		return false
	}
	return slices.Contains(d.loaded, font)
}

func (d *MemoryDocument) NodeByID(id string) (*Node, bool) {
	n, ok := d.index[id]
	return n, ok
}

func (d *MemoryDocument) forget(n *Node) {
	delete(d.index, n.ID)
	d.selection = slices.DeleteFunc(d.selection, func(id string) bool { return id == n.ID })
	for _, c := range n.Children {
		d.forget(c)
	}
}

// Selection returns the selected nodes still present in the document.
func (d *MemoryDocument) Selection() []*Node {
	var res []*Node
	for _, id := range d.selection {
		if n, ok := d.index[id]; ok {
			res = append(res, n)
		}
	}
	return res
}

// SetSelection replaces the selection. Every id must exist.
func (d *MemoryDocument) SetSelection(ids ...string) error {
	for _, id := range ids {
		if _, ok := d.index[id]; !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
	}
	d.selection = slices.Clone(ids)
	return nil
}

func (d *MemoryDocument) Notify(message string) {
	if d.notifier != nil {
		d.notifier(message)
	}
}

// SetNotifier replaces the notification callback.
func (d *MemoryDocument) SetNotifier(fn func(message string)) {
	d.notifier = fn
}

type snapshot struct {
	Name      string     `msgpack:"name"`
	Page      *Node      `msgpack:"page"`
	Fonts     []FontName `msgpack:"fonts"`
	Selection []string   `msgpack:"selection"`
}

func (d *MemoryDocument) MarshalMsgpack() ([]byte, error) {
	return msgpack.Marshal(snapshot{
		Name:      d.name,
		Page:      d.page,
		Fonts:     d.fonts,
		Selection: d.selection,
	})
}

func (d *MemoryDocument) UnmarshalMsgpack(data []byte) error {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return err
	}
	if s.Page == nil || s.Page.Type != TypePage {
		return fmt.Errorf("%w: document has no page", ErrInvalidProperty)
	}
	*d = MemoryDocument{
		name:      s.Name,
		page:      s.Page,
		fonts:     s.Fonts,
		selection: s.Selection,
		index:     map[string]*Node{},
	}
	d.adopt(nil, d.page)
	return nil
}

func (d *MemoryDocument) adopt(parent, n *Node) {
	n.parent = parent
	n.doc = d
	d.index[n.ID] = n
	for _, c := range n.Children {
		d.adopt(n, c)
	}
}
