package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figgen/figgen-cli/internal/errhandler"
	"github.com/figgen/figgen-cli/internal/scene"
)

func TestTargetFrame(t *testing.T) {
	doc := scene.NewMemoryDocument("Shop")
	checkout := doc.CreateFrame()
	checkout.SetName("Checkout")
	require.NoError(t, checkout.Resize(1440, 900))
	label := doc.CreateText()
	require.NoError(t, checkout.AppendChild(label))

	t.Run("new frames", func(t *testing.T) {
		target, err := targetFrame(doc, options{})
		require.NoError(t, err)
		assert.Nil(t, target)
	})

	t.Run("by name", func(t *testing.T) {
		target, err := targetFrame(doc, options{frame: "Checkout"})
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.Equal(t, checkout.ID, target.ID)
		assert.Equal(t, "desktop", string(target.DeviceType))
		assert.Equal(t, 1, target.StyleInfo.ElementCount)
	})

	t.Run("not a frame", func(t *testing.T) {
		_, err := targetFrame(doc, options{frame: label.ID})
		require.ErrorContains(t, err, "is not a frame")
	})

	t.Run("unknown frame", func(t *testing.T) {
		_, err := targetFrame(doc, options{frame: "Cart"})
		require.ErrorIs(t, err, errhandler.ErrFrameNotFound)
	})

	t.Run("selection", func(t *testing.T) {
		_, err := targetFrame(doc, options{useSelection: true})
		require.ErrorContains(t, err, "Select exactly one frame")

		require.NoError(t, doc.SetSelection(checkout.ID))
		target, err := targetFrame(doc, options{useSelection: true})
		require.NoError(t, err)
		assert.Equal(t, "Checkout", target.Name)
	})
}

func TestGenerateResult(t *testing.T) {
	res := generateResult{
		Document: "Shop",
		Frames:   []frameSummary{{ID: "n1", Name: "Login", Width: 375, Height: 812, Children: 4}},
	}
	assert.Contains(t, res.String(), `Document "Shop" created`)
	assert.Contains(t, res.String(), "Login  375x812  (4 elements)  n1")

	res.Edited = true
	assert.Contains(t, res.String(), `Document "Shop" updated`)
}

func TestRenderedFrames(t *testing.T) {
	doc := scene.NewMemoryDocument("Shop")
	untouched := doc.CreateFrame()
	untouched.SetName("Cart")
	require.NoError(t, untouched.AppendChild(doc.CreateText()))
	rerun := doc.CreateFrame()
	rerun.SetName("Login")
	old := doc.CreateText()
	require.NoError(t, rerun.AppendChild(old))

	before := frameContents(doc.CurrentPage())

	old.Remove()
	require.NoError(t, rerun.AppendChild(doc.CreateText()))
	created := doc.CreateFrame()
	created.SetName("Signup")

	var names []string
	for _, n := range renderedFrames(doc.CurrentPage(), before) {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Login", "Signup"}, names)
}
