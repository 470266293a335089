package framemanager

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/figgen/figgen-cli/internal/i18n"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/scene"
)

const maxPrimaryColors = 3

// SelectedFrame describes the frame the user selected in the document.
type SelectedFrame struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	DeviceType preset.DeviceType `json:"deviceType,omitempty"`
	StyleInfo  *StyleInfo        `json:"styleInfo,omitempty"`
}

type StyleInfo struct {
	BackgroundColor string   `json:"backgroundColor"`
	LayoutMode      string   `json:"layoutMode"`
	Padding         string   `json:"padding"`
	Spacing         float64  `json:"spacing"`
	ElementCount    int      `json:"elementCount"`
	HasImages       bool     `json:"hasImages"`
	HasButtons      bool     `json:"hasButtons"`
	HasInputs       bool     `json:"hasInputs"`
	PrimaryColors   []string `json:"primaryColors"`
	Description     string   `json:"description"`
}

// GuessDeviceType maps a canvas width to the closest device profile.
func GuessDeviceType(width float64) preset.DeviceType {
	switch {
	case width >= 1200:
		return preset.Desktop
	case width >= 768:
		return preset.Tablet
	default:
		return preset.Mobile
	}
}

// AnalyzeSelection describes the selection when it is exactly one frame, and
// returns nil otherwise.
func AnalyzeSelection(selection []*scene.Node) *SelectedFrame {
	if len(selection) != 1 || selection[0].Type != scene.TypeFrame {
		return nil
	}
	frame := selection[0]
	device := GuessDeviceType(frame.Width)
	return &SelectedFrame{
		ID:         frame.ID,
		Name:       frame.Name,
		Width:      frame.Width,
		Height:     frame.Height,
		DeviceType: device,
		StyleInfo:  analyzeContent(frame, device),
	}
}

func analyzeContent(frame *scene.Node, device preset.DeviceType) *StyleInfo {
	info := &StyleInfo{
		BackgroundColor: "white",
		LayoutMode:      frame.LayoutMode,
		Padding:         fmt.Sprintf("%gpx", frame.PaddingTop),
		Spacing:         frame.ItemSpacing,
		ElementCount:    len(frame.Children),
		PrimaryColors:   []string{},
	}
	if info.LayoutMode == "" {
		info.LayoutMode = "NONE"
	}
	if len(frame.Fills) > 0 {
		info.BackgroundColor = cssRGB(frame.Fills[0].Color)
	}

	for _, child := range frame.Children {
		for _, fill := range child.Fills {
			if fill.Type != scene.PaintSolid {
				continue
			}
			color := cssRGB(fill.Color)
			if len(info.PrimaryColors) < maxPrimaryColors && !slices.Contains(info.PrimaryColors, color) {
				info.PrimaryColors = append(info.PrimaryColors, color)
			}
		}
		if child.Type == scene.TypeRectangle && child.Width > 200 && child.Height < 60 {
			info.HasButtons = true
		}
		if child.Type == scene.TypeRectangle && child.Height > 40 && child.Height < 60 {
			info.HasInputs = true
		}
		if name := strings.ToLower(child.Name); strings.Contains(name, "image") || strings.Contains(name, "img") {
			info.HasImages = true
		}
	}

	desc := i18n.Tr("Frame %s (%gx%g) with %d elements", device, frame.Width, frame.Height, len(frame.Children))
	if info.HasButtons {
		desc += i18n.Tr(", includes buttons")
	}
	if info.HasInputs {
		desc += i18n.Tr(", includes input fields")
	}
	if info.HasImages {
		desc += i18n.Tr(", includes images")
	}
	info.Description = desc
	return info
}

func cssRGB(c scene.RGB) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	return int(math.Round(v * 255))
}
