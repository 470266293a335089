package preset

import (
	"strings"
	"testing"

	"github.com/arduino/go-paths-helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	t.Run("it loads the three device profiles", func(t *testing.T) {
		testCases := []struct {
			device         DeviceType
			width, height  int
			margin         int
			buttonMaxWidth int
		}{
			{Mobile, 375, 812, 20, 335},
			{Tablet, 768, 1024, 40, 688},
			{Desktop, 1200, 800, 60, 400},
		}
		for _, tc := range testCases {
			t.Run(string(tc.device), func(t *testing.T) {
				d, ok := reg.GetDevice(tc.device)
				require.True(t, ok)
				assert.Equal(t, tc.width, d.Width)
				assert.Equal(t, tc.height, d.Height)
				assert.Equal(t, tc.margin, d.Margin)
				assert.Equal(t, tc.buttonMaxWidth, d.ButtonMaxWidth())
			})
		}
	})

	t.Run("unknown devices fall back to mobile", func(t *testing.T) {
		assert.Equal(t, Mobile, reg.DeviceOrDefault("watch").Type)
	})

	t.Run("it loads the model allow-list", func(t *testing.T) {
		assert.Equal(t, []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash"}, reg.ModelIDs())
		m, ok := reg.GetModelByID("gemini-2.0-flash")
		require.True(t, ok)
		assert.Equal(t, "Gemini 2.0 Flash", m.Name)
		_, ok = reg.GetModelByID("gpt-4")
		assert.False(t, ok)
	})

	t.Run("it loads generation and retry settings", func(t *testing.T) {
		assert.InDelta(t, 0.6, reg.Generation.Temperature, 1e-9)
		assert.Equal(t, 8192, reg.Generation.MaxOutputTokens)
		assert.Equal(t, 3, reg.Retry.MaxAttempts)
		assert.Equal(t, "2s", reg.Retry.BaseDelay().String())
	})

	t.Run("it loads font and palette", func(t *testing.T) {
		assert.Equal(t, "Inter", reg.Font.Family)
		assert.InDelta(t, 16, reg.Font.DefaultSize, 1e-9)
		assert.InDelta(t, 8, reg.Font.MinSize, 1e-9)
		assert.Equal(t, RGB{R: 0.1, G: 0.1, B: 0.1}, reg.Palette.TextPrimary)
		assert.Equal(t, RGB{R: 0.92, G: 0.94, B: 0.98}, reg.Palette.ImagePlaceholder)
		assert.Equal(t, RGBA{R: 0, G: 0, B: 0, A: 0.1}, reg.Shadow.Color)
	})
}

func TestFontStyle(t *testing.T) {
	reg := Default()
	testCases := map[string]string{
		"bold":   "Bold",
		"medium": "Medium",
		"light":  "Light",
		"normal": "Regular",
		"BOLD":   "Regular",
		"":       "Regular",
	}
	for weight, expected := range testCases {
		assert.Equal(t, expected, reg.FontStyle(weight), "weight %q", weight)
	}
}

func TestImageGlyph(t *testing.T) {
	reg := Default()
	testCases := []struct {
		hint     string
		expected string
	}{
		{"https://example.com/avatar.png", "👤"},
		{"user-profile", "👤"},
		{"app-icon", "⭐"},
		{"Company LOGO", "🏷️"},
		{"hero photo", "📸"},
		{"", "🖼️"},
		{"banner", "🖼️"},
	}
	for _, tc := range testCases {
		t.Run(tc.hint, func(t *testing.T) {
			assert.Equal(t, tc.expected, reg.ImageGlyph(tc.hint))
		})
	}
}

func TestIsLoginPrompt(t *testing.T) {
	reg := Default()
	assert.True(t, reg.IsLoginPrompt("A LOGIN screen"))
	assert.True(t, reg.IsLoginPrompt("pantalla de inicio de sesión"))
	assert.True(t, reg.IsLoginPrompt("forgot Password flow"))
	assert.True(t, reg.IsLoginPrompt("cambiar contraseña"))
	assert.False(t, reg.IsLoginPrompt("a product catalog"))
}

func TestLoadErrors(t *testing.T) {
	t.Run("unsupported version", func(t *testing.T) {
		content := strings.Replace(string(defaultPresets), `version: "1.0.0"`, `version: "2.1.0"`, 1)
		_, err := Load(strings.NewReader(content))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported presets version")
	})

	t.Run("default model must be defined", func(t *testing.T) {
		content := strings.Replace(string(defaultPresets), "default_model: gemini-1.5-flash", "default_model: gemini-ultra", 1)
		_, err := Load(strings.NewReader(content))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `default model "gemini-ultra" is not defined`)
	})

	t.Run("image glyphs must be emoji", func(t *testing.T) {
		content := strings.Replace(string(defaultPresets), `glyph: "⭐"`, `glyph: "star"`, 1)
		_, err := Load(strings.NewReader(content))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `image glyph "star" is not a valid single emoji`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(paths.New(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("override file on disk", func(t *testing.T) {
		file := paths.New(t.TempDir(), "presets.yaml")
		content := strings.Replace(string(defaultPresets), "max_attempts: 3", "max_attempts: 5", 1)
		require.NoError(t, file.WriteFile([]byte(content)))
		reg, err := LoadFile(file)
		require.NoError(t, err)
		assert.Equal(t, 5, reg.Retry.MaxAttempts)
	})
}
