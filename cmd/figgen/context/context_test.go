package context

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/figgen/figgen-cli/internal/framemanager"
)

func TestContextResult(t *testing.T) {
	empty := contextResult{Document: "Home"}
	assert.Equal(t, `No frame selected in "Home": the next design creates new frames.`, empty.String())

	res := contextResult{
		Document: "Home",
		Frame: &framemanager.SelectedFrame{
			ID:         "n1",
			Name:       "Login",
			Width:      375,
			Height:     812,
			DeviceType: "mobile",
			StyleInfo: &framemanager.StyleInfo{
				LayoutMode:    "VERTICAL",
				Padding:       "24px",
				Spacing:       16,
				ElementCount:  3,
				PrimaryColors: []string{"#2563eb"},
				Description:   "Vertical layout with 3 elements",
			},
		},
	}
	out := res.String()
	assert.Contains(t, out, "Frame:    Login (n1)\n")
	assert.Contains(t, out, "Size:     375x812\n")
	assert.Contains(t, out, "Layout:   VERTICAL, padding 24px, spacing 16\n")
	assert.Contains(t, out, "Colors:   #2563eb\n")
	assert.Contains(t, out, "Vertical layout with 3 elements")
}
