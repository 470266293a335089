package framemanager

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/f"

	"github.com/figgen/figgen-cli/internal/errhandler"
	"github.com/figgen/figgen-cli/internal/layout"
	"github.com/figgen/figgen-cli/internal/nodefactory"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/scene"
)

func newManager() *Manager {
	reg := preset.Default()
	return New(reg, nodefactory.New(reg, nil), nil)
}

func decodeTrees(t *testing.T, input string) []layout.Tree {
	t.Helper()
	var resp layout.Response
	require.NoError(t, json.Unmarshal([]byte(input), &resp))
	return resp.Frames
}

func childNames(n *scene.Node) []string {
	return f.Map(n.Children, func(c *scene.Node) string { return c.Name })
}

func TestMaterialize(t *testing.T) {
	t.Run("main frame is folded into the container", func(t *testing.T) {
		doc := scene.NewMemoryDocument("test")
		trees := decodeTrees(t, `{"frames":[{"name":"Login","nodes":[
			{"type":"FRAME","width":390,"height":844,"layoutMode":"VERTICAL","itemSpacing":16,"cornerRadius":12,
			 "fills":[{"type":"SOLID","color":{"r":0.9,"g":0.9,"b":0.9}}],
			 "children":[{"type":"TEXT","name":"A","characters":"a"},{"type":"RECTANGLE","name":"B"}]},
			{"type":"TEXT","name":"C","characters":"c"}
		]}]}`)
		require.NoError(t, newManager().Materialize(t.Context(), doc, trees))

		page := doc.CurrentPage()
		require.Len(t, page.Children, 1)
		frame := page.Children[0]
		assert.Equal(t, "Login", frame.Name)
		assert.InDelta(t, 390, frame.Width, 1e-9)
		assert.InDelta(t, 844, frame.Height, 1e-9)
		assert.Equal(t, "VERTICAL", frame.LayoutMode)
		assert.InDelta(t, 16, frame.ItemSpacing, 1e-9)
		assert.InDelta(t, 12, frame.CornerRadius, 1e-9)
		assert.Equal(t, scene.RGB{R: 0.9, G: 0.9, B: 0.9}, frame.Fills[0].Color)
		assert.Equal(t, []string{"A", "B", "C"}, childNames(frame))
	})

	t.Run("flat trees are appended in order", func(t *testing.T) {
		doc := scene.NewMemoryDocument("test")
		trees := decodeTrees(t, `{"frames":[{"name":"Flat","nodes":[
			{"type":"TEXT","name":"A","characters":"a","x":10,"y":20},{"type":"RECTANGLE","name":"B"}
		]}]}`)
		require.NoError(t, newManager().Materialize(t.Context(), doc, trees))

		frame := doc.CurrentPage().Children[0]
		assert.Equal(t, []string{"A", "B"}, childNames(frame))
		assert.InDelta(t, 375, frame.Width, 1e-9)
		assert.InDelta(t, 812, frame.Height, 1e-9)
		assert.InDelta(t, 10, frame.Children[0].X, 1e-9)
	})

	t.Run("large content picks the large canvas", func(t *testing.T) {
		doc := scene.NewMemoryDocument("test")
		trees := decodeTrees(t, `{"frames":[{"name":"Dashboard","nodes":[{"type":"RECTANGLE","width":1000,"height":50}]}]}`)
		require.NoError(t, newManager().Materialize(t.Context(), doc, trees))

		frame := doc.CurrentPage().Children[0]
		assert.InDelta(t, 1200, frame.Width, 1e-9)
		assert.InDelta(t, 800, frame.Height, 1e-9)
	})

	t.Run("nested frames are not folded", func(t *testing.T) {
		doc := scene.NewMemoryDocument("test")
		trees := decodeTrees(t, `{"frames":[{"name":"Nested","nodes":[
			{"type":"FRAME","width":375,"height":812,"children":[
				{"type":"FRAME","name":"Card","layoutMode":"HORIZONTAL","nodes":[{"type":"TEXT","name":"Inner","characters":"x"}]}
			]}
		]}]}`)
		require.NoError(t, newManager().Materialize(t.Context(), doc, trees))

		frame := doc.CurrentPage().Children[0]
		require.Equal(t, []string{"Card"}, childNames(frame))
		card := frame.Children[0]
		assert.Equal(t, "HORIZONTAL", card.LayoutMode)
		assert.Equal(t, []string{"Inner"}, childNames(card))
		assert.Equal(t, scene.AutoResizeWidthAndHeight, card.Children[0].TextAutoResize)
	})

	t.Run("an empty tree gets a placeholder", func(t *testing.T) {
		doc := scene.NewMemoryDocument("test")
		trees := decodeTrees(t, `{"frames":[{"name":"Empty","nodes":[{"type":"FRAME","width":400,"height":600}]}]}`)
		require.NoError(t, newManager().Materialize(t.Context(), doc, trees))

		frame := doc.CurrentPage().Children[0]
		require.Len(t, frame.Children, 1)
		placeholder := frame.Children[0]
		assert.Equal(t, "Contenido generado", placeholder.Characters)
		assert.InDelta(t, 16, placeholder.FontSize, 1e-9)
		assert.InDelta(t, 150, placeholder.X, 1e-9)
		assert.InDelta(t, 300, placeholder.Y, 1e-9)
		assert.Equal(t, scene.RGB{R: 0.5, G: 0.5, B: 0.5}, placeholder.Fills[0].Color)
	})

	t.Run("running twice replaces the content", func(t *testing.T) {
		doc := scene.NewMemoryDocument("test")
		m := newManager()
		trees := decodeTrees(t, `{"frames":[{"name":"Home","nodes":[{"type":"TEXT","name":"A","characters":"a"},{"type":"IMAGE","name":"Hero"}]}]}`)
		require.NoError(t, m.Materialize(t.Context(), doc, trees))
		first := childNames(doc.CurrentPage().Children[0])

		require.NoError(t, m.Materialize(t.Context(), doc, trees))
		require.Len(t, doc.CurrentPage().Children, 1)
		assert.Equal(t, first, childNames(doc.CurrentPage().Children[0]))
		assert.Equal(t, []string{"A", "Hero", "Image icon"}, first)
	})
}

func TestMaterializeInto(t *testing.T) {
	trees := decodeTrees(t, `{"frames":[
		{"name":"Ignored name","nodes":[{"type":"TEXT","name":"A","characters":"a"}]},
		{"name":"Second","nodes":[{"type":"TEXT","characters":"b"}]}
	]}`)

	t.Run("renders the first tree into the frame", func(t *testing.T) {
		doc := scene.NewMemoryDocument("test")
		target := doc.CreateFrame()
		target.SetName("Existing")
		require.NoError(t, newManager().MaterializeInto(t.Context(), doc, trees, target.ID))

		assert.Len(t, doc.CurrentPage().Children, 1)
		assert.Equal(t, "Existing", target.Name)
		assert.Equal(t, []string{"A"}, childNames(target))
	})

	t.Run("the target must be a frame", func(t *testing.T) {
		doc := scene.NewMemoryDocument("test")
		rect := doc.CreateRectangle()
		for _, id := range []string{"missing", rect.ID} {
			err := newManager().MaterializeInto(t.Context(), doc, trees, id)
			require.ErrorIs(t, err, errhandler.ErrFrameNotFound)
			var hostErr *errhandler.HostOperationError
			require.ErrorAs(t, err, &hostErr)
		}
	})
}

func TestAnalyzeSelection(t *testing.T) {
	doc := scene.NewMemoryDocument("test")
	frame := doc.CreateFrame()
	frame.SetName("Checkout")
	require.NoError(t, frame.Resize(800, 1024))
	require.NoError(t, frame.SetLayoutMode("VERTICAL"))
	require.NoError(t, frame.SetPadding(scene.SideTop, 24))
	require.NoError(t, frame.SetItemSpacing(12))

	button := doc.CreateRectangle()
	require.NoError(t, button.Resize(300, 48))
	require.NoError(t, button.SetFills([]scene.Paint{{Type: scene.PaintSolid, Color: scene.RGB{R: 0.2, G: 0.6, B: 1}}}))
	image := doc.CreateRectangle()
	image.SetName("Product Image")
	for _, n := range []*scene.Node{button, image} {
		require.NoError(t, frame.AppendChild(n))
	}

	assert.Nil(t, AnalyzeSelection(nil))
	assert.Nil(t, AnalyzeSelection([]*scene.Node{button}))
	assert.Nil(t, AnalyzeSelection([]*scene.Node{frame, image}))

	res := AnalyzeSelection([]*scene.Node{frame})
	require.NotNil(t, res)
	assert.Equal(t, frame.ID, res.ID)
	assert.Equal(t, preset.Tablet, res.DeviceType)
	assert.Equal(t, &StyleInfo{
		BackgroundColor: "rgb(255, 255, 255)",
		LayoutMode:      "VERTICAL",
		Padding:         "24px",
		Spacing:         12,
		ElementCount:    2,
		HasImages:       true,
		HasButtons:      true,
		HasInputs:       true,
		PrimaryColors:   []string{"rgb(51, 153, 255)", "rgb(217, 217, 217)"},
		Description:     "Frame tablet (800x1024) with 2 elements, includes buttons, includes input fields, includes images",
	}, res.StyleInfo)

	assert.Equal(t, preset.Desktop, GuessDeviceType(1440))
	assert.Equal(t, preset.Mobile, GuessDeviceType(375))
}
