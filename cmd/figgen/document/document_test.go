package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figgen/figgen-cli/internal/scene"
)

func sampleDocument(t *testing.T) (*scene.MemoryDocument, *scene.Node) {
	doc := scene.NewMemoryDocument("Login Flow")
	frame := doc.CreateFrame()
	frame.SetName("Login")
	require.NoError(t, frame.Resize(375, 812))
	require.NoError(t, frame.SetLayoutMode("VERTICAL"))
	title := doc.CreateText()
	title.SetName("Title")
	title.Characters = "Welcome back"
	require.NoError(t, frame.AppendChild(title))
	require.NoError(t, doc.SetSelection(frame.ID))
	return doc, frame
}

func TestShowResult(t *testing.T) {
	doc, frame := sampleDocument(t)
	res := showResult(newDocumentData(doc))

	out := res.String()
	assert.Contains(t, out, "Login Flow\n")
	assert.Contains(t, out, `FRAME "Login" 375x812 [vertical] (selected)`)
	assert.Contains(t, out, `TEXT "Title" 0x0 "Welcome back"`)

	data, ok := res.Data().(documentData)
	require.True(t, ok)
	assert.Equal(t, []string{frame.ID}, data.Selection)

	empty := showResult(newDocumentData(scene.NewMemoryDocument("Blank")))
	assert.Equal(t, "Blank (empty)", empty.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "añoañ…", truncate("añoañoaño", 5))
}

func TestEncodeDocument(t *testing.T) {
	doc, frame := sampleDocument(t)
	data := newDocumentData(doc)

	t.Run("json", func(t *testing.T) {
		out, err := encodeDocument(data, "json")
		require.NoError(t, err)
		var decoded struct {
			Name string `json:"name"`
			Page struct {
				Children []struct {
					ID       string `json:"id"`
					Children []struct {
						Characters string `json:"characters"`
					} `json:"children"`
				} `json:"children"`
			} `json:"page"`
			Selection []string `json:"selection"`
		}
		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.Equal(t, "Login Flow", decoded.Name)
		require.Len(t, decoded.Page.Children, 1)
		assert.Equal(t, frame.ID, decoded.Page.Children[0].ID)
		assert.Equal(t, "Welcome back", decoded.Page.Children[0].Children[0].Characters)
		assert.Equal(t, []string{frame.ID}, decoded.Selection)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := encodeDocument(data, "yaml")
		require.NoError(t, err)
		assert.Contains(t, string(out), "name: Login Flow\n")
		assert.Contains(t, string(out), "characters: Welcome back")
		assert.Contains(t, string(out), "layoutMode: VERTICAL")
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := encodeDocument(data, "xml")
		require.ErrorContains(t, err, `unsupported export format "xml"`)
	})
}

func TestSelectResult(t *testing.T) {
	cleared := selectResult{Document: "Home", Selection: []selectedNode{}}
	assert.Equal(t, `✓ Selection of "Home" cleared`, cleared.String())

	res := selectResult{Document: "Home", Selection: []selectedNode{
		{ID: "1", Name: "Login", Type: "FRAME"},
		{ID: "2", Name: "Logo", Type: "RECTANGLE"},
	}}
	assert.Equal(t, `✓ Selected in "Home": FRAME "Login", RECTANGLE "Logo"`, res.String())
}

func TestToHumanKiB(t *testing.T) {
	assert.Equal(t, "0.0KiB", toHumanKiB(0))
	assert.Equal(t, "1.5KiB", toHumanKiB(1536))
}
