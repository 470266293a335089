package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestSetters(t *testing.T) {
	doc := NewMemoryDocument("test")

	t.Run("frame rejects out of range values", func(t *testing.T) {
		frame := doc.CreateFrame()
		require.ErrorIs(t, frame.Resize(0, 10), ErrInvalidProperty)
		require.ErrorIs(t, frame.SetOpacity(1.5), ErrInvalidProperty)
		require.ErrorIs(t, frame.SetLayoutMode("GRID"), ErrInvalidProperty)
		require.ErrorIs(t, frame.SetPadding(SideLeft, -1), ErrInvalidProperty)
		require.ErrorIs(t, frame.SetFills([]Paint{{Type: PaintSolid, Color: RGB{R: 2}}}), ErrInvalidProperty)
		require.ErrorIs(t, frame.SetTextAlignHorizontal("LEFT"), ErrNotSupported)

		assert.InDelta(t, 100, frame.Width, 1e-9)
		assert.InDelta(t, 1, frame.Opacity, 1e-9)
		assert.Equal(t, "NONE", frame.LayoutMode)

		require.NoError(t, frame.Resize(375, 812))
		require.NoError(t, frame.SetLayoutMode("VERTICAL"))
		require.NoError(t, frame.SetPadding(SideTop, 24))
		require.NoError(t, frame.SetPrimaryAxisAlignItems("SPACE_BETWEEN"))
		assert.InDelta(t, 24, frame.PaddingTop, 1e-9)
		assert.Equal(t, "SPACE_BETWEEN", frame.PrimaryAxisAlignItems)
	})

	t.Run("text needs a loaded font", func(t *testing.T) {
		text := doc.CreateText()
		require.ErrorIs(t, text.SetCharacters("hello"), ErrFontNotLoaded)

		require.NoError(t, doc.LoadFont(t.Context(), FontName{Family: "Inter", Style: "Regular"}))
		require.NoError(t, text.SetCharacters("hello"))
		require.ErrorIs(t, text.SetFontName(FontName{Family: "Inter", Style: "Bold"}), ErrFontNotLoaded)
		require.ErrorIs(t, doc.LoadFont(t.Context(), FontName{Family: "Comic Sans", Style: "Regular"}), ErrFontUnavailable)
		require.ErrorIs(t, text.SetCornerRadius(4), ErrNotSupported)
		assert.Equal(t, "hello", text.Characters)
	})

	t.Run("resizing a text fixes its size", func(t *testing.T) {
		text := doc.CreateText()
		require.NoError(t, text.Resize(200, 40))
		assert.Equal(t, AutoResizeNone, text.TextAutoResize)
	})
}

func TestTree(t *testing.T) {
	doc := NewMemoryDocument("test")
	outer := doc.CreateFrame()
	inner := doc.CreateFrame()
	rect := doc.CreateRectangle()

	require.NoError(t, outer.AppendChild(inner))
	require.NoError(t, inner.AppendChild(rect))
	assert.Equal(t, []*Node{outer}, doc.CurrentPage().Children)
	assert.Same(t, inner, rect.Parent())

	require.ErrorIs(t, rect.AppendChild(doc.CreateText()), ErrNotSupported)
	require.ErrorIs(t, inner.AppendChild(outer), ErrInvalidProperty)

	all := doc.CurrentPage().FindAll(func(n *Node) bool { return n.Type == TypeFrame })
	assert.Equal(t, []*Node{outer, inner}, all)

	require.NoError(t, doc.SetSelection(rect.ID))
	inner.Remove()
	assert.Empty(t, outer.Children)
	_, found := doc.NodeByID(rect.ID)
	assert.False(t, found)
	assert.Empty(t, doc.Selection())
	require.ErrorIs(t, doc.SetSelection("missing"), ErrNodeNotFound)
}

func TestNotify(t *testing.T) {
	var got []string
	doc := NewMemoryDocument("test", WithNotifier(func(m string) { got = append(got, m) }))
	doc.Notify("one")
	doc.Notify("two")
	assert.Equal(t, []string{"one", "two"}, got)

	doc.SetNotifier(nil)
	doc.Notify("dropped")
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestMsgpackRoundTrip(t *testing.T) {
	doc := NewMemoryDocument("login")
	frame := doc.CreateFrame()
	frame.SetName("Login")
	text := doc.CreateText()
	require.NoError(t, frame.AppendChild(text))
	require.NoError(t, doc.SetSelection(frame.ID))

	data, err := msgpack.Marshal(doc)
	require.NoError(t, err)

	var loaded MemoryDocument
	require.NoError(t, msgpack.Unmarshal(data, &loaded))
	assert.Equal(t, "login", loaded.Name())

	sel := loaded.Selection()
	require.Len(t, sel, 1)
	assert.Equal(t, "Login", sel[0].Name)
	require.Len(t, sel[0].Children, 1)
	assert.Same(t, sel[0], sel[0].Children[0].Parent())
	assert.Same(t, loaded.CurrentPage(), sel[0].Parent())

	n, ok := loaded.NodeByID(text.ID)
	require.True(t, ok)
	assert.Equal(t, TypeText, n.Type)
}
