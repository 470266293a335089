package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figgen/figgen-cli/internal/preset"
)

func TestBuild(t *testing.T) {
	b := NewBuilder(preset.Default())

	t.Run("mobile", func(t *testing.T) {
		out, err := b.Build("a settings screen", preset.Mobile)
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(out, "\n\nUser prompt: a settings screen"))
		assert.Contains(t, out, "optimized for MOBILE")
		assert.Contains(t, out, "Canvas: 375x812px")
		assert.Contains(t, out, `"paddingTop": 122`)
		assert.Contains(t, out, `"paddingBottom": 40`)
		assert.Contains(t, out, `"itemSpacing": 16`)
		assert.Contains(t, out, "max width 335px")
		assert.Contains(t, out, "SELECTED DEVICE: MOBILE")
		assert.Contains(t, out, `"width": 375, "height": 812`)
		assert.NotContains(t, out, "MOBILE LOGIN")
		assert.NotContains(t, out, "Main content at most")

		system := strings.Index(out, "You are an EXPERT")
		device := strings.Index(out, "SELECTED DEVICE")
		assert.Zero(t, system)
		assert.Greater(t, device, system)
	})

	t.Run("desktop limits the content width", func(t *testing.T) {
		out, err := b.Build("a dashboard", preset.Desktop)
		require.NoError(t, err)
		assert.Contains(t, out, "Canvas: 1200x800px")
		assert.Contains(t, out, "max width 400px")
		assert.Contains(t, out, "Titles: fontSize 36-48px")
		assert.Contains(t, out, "Main content at most 600px wide")
		assert.Contains(t, out, "Buttons must not span the full width")
	})

	t.Run("login example is added on mobile only", func(t *testing.T) {
		out, err := b.Build("Create a LOGIN screen", preset.Mobile)
		require.NoError(t, err)
		login := strings.Index(out, "SPECIFIC STRUCTURE FOR A MOBILE LOGIN")
		require.Positive(t, login)
		assert.Greater(t, login, strings.Index(out, "SELECTED DEVICE"))
		assert.Less(t, login, strings.Index(out, "User prompt: "))
		assert.Contains(t, out, `"name": "EmailField"`)

		out, err = b.Build("Create a login screen", preset.Tablet)
		require.NoError(t, err)
		assert.NotContains(t, out, "MOBILE LOGIN")
	})

	t.Run("unknown devices use the mobile profile", func(t *testing.T) {
		out, err := b.Build("anything", preset.DeviceType("watch"))
		require.NoError(t, err)
		assert.Contains(t, out, "SELECTED DEVICE: MOBILE")
	})
}

func TestContextual(t *testing.T) {
	testCases := []struct {
		name     string
		req      Request
		contains []string
		excludes []string
	}{
		{
			name:     "create",
			req:      Request{Prompt: "a profile page"},
			contains: []string{"MODE: Create a new design from scratch\n\na profile page\n\nINSTRUCTIONS:"},
			excludes: []string{"CONTEXT:", "ADAPTATION", "custom rules"},
		},
		{
			name: "edit",
			req:  Request{Prompt: "add a footer", Target: &Target{Name: "Home", Width: 375, Height: 812}},
			contains: []string{
				`CONTEXT: I am editing a frame named "Home" of 375x812px.`,
				"USER PROMPT: add a footer",
			},
			excludes: []string{"MODE:"},
		},
		{
			name:     "adaptation with custom rules",
			req:      Request{Prompt: "same for desktop", IsAdaptation: true, HasCustomRules: true},
			contains: []string{"This is an ADAPTATION", "custom rules"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Contextual(tc.req)
			require.NoError(t, err)
			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tc.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
