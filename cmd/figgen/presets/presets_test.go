package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/figgen/figgen-cli/internal/preset"
)

func TestDeviceListResult(t *testing.T) {
	reg := preset.Default()
	out := deviceListResult{Devices: reg.GetDevices(), DefaultDevice: "mobile"}.String()

	assert.Contains(t, out, "mobile (default)")
	assert.Contains(t, out, "375x812")
	assert.Contains(t, out, "48-56")
	assert.NotContains(t, out, "tablet (default)")
}

func TestTitleSize(t *testing.T) {
	assert.Equal(t, "24", titleSize(preset.Typography{Title: 24}))
	assert.Equal(t, "28-32", titleSize(preset.Typography{Title: 28, TitleMax: 32}))
}

func TestModelListResult(t *testing.T) {
	res := modelListResult{
		Models:       []preset.Model{{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash"}, {ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro"}},
		DefaultModel: "gemini-1.5-pro",
	}
	out := res.String()
	assert.Contains(t, out, "gemini-1.5-flash")
	assert.Contains(t, out, "Gemini 1.5 Pro")
	assert.Contains(t, out, "✓")
}
