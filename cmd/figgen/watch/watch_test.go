package watch

import (
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/figgen/figgen-cli/internal/coordinator"
	"github.com/figgen/figgen-cli/internal/framemanager"
)

func TestEventResult(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	testCases := []struct {
		name string
		msg  coordinator.Message
		want string
	}{
		{
			name: "progress",
			msg:  coordinator.Message{Type: coordinator.TypeProgress, Message: "Generating layout...", Document: "Home"},
			want: "10:30:00 [Home] … Generating layout...",
		},
		{
			name: "success",
			msg:  coordinator.Message{Type: coordinator.TypeSuccess, Message: "Design generated successfully!"},
			want: "10:30:00 ✓ Design generated successfully!",
		},
		{
			name: "error alert with suggestions",
			msg: coordinator.Message{
				Type:        coordinator.TypeAlert,
				AlertType:   coordinator.AlertError,
				Message:     "Invalid API key",
				Suggestions: []string{"Check the key", "Create a new one"},
			},
			want: "10:30:00 ✗ Invalid API key\n    - Check the key\n    - Create a new one",
		},
		{
			name: "warning alert",
			msg:  coordinator.Message{Type: coordinator.TypeAlert, AlertType: coordinator.AlertWarning, Message: "Retrying"},
			want: "10:30:00 ! Retrying",
		},
		{
			name: "empty selection",
			msg:  coordinator.Message{Type: coordinator.TypeContextUpdate, Document: "Home"},
			want: "10:30:00 [Home] selection: no frame selected",
		},
		{
			name: "frame selection",
			msg: coordinator.Message{
				Type:  coordinator.TypeContextUpdate,
				Frame: &framemanager.SelectedFrame{ID: "1", Name: "Login", Width: 375, Height: 812, DeviceType: "mobile"},
			},
			want: "10:30:00 selection: Login 375x812 (mobile)",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eventResult{Time: at, Message: tc.msg}.String())
		})
	}
}
