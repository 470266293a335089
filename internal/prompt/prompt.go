// Package prompt renders the instructions sent to the generation service.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"math"
	"path"
	"strings"
	"text/template"

	"go.bug.st/f"

	"github.com/figgen/figgen-cli/internal/layout"
	"github.com/figgen/figgen-cli/internal/preset"
)

//go:embed templates
var fsTemplates embed.FS

const templateRoot = "templates"

// userPromptSeparator introduces the user request at the end of the prompt.
const userPromptSeparator = "\n\nUser prompt: "

var templates = template.Must(
	template.New("prompt").
		Funcs(template.FuncMap{
			"rgb":  formatRGB,
			"join": func(s []string) string { return strings.Join(s, ", ") },
		}).
		ParseFS(fsTemplates, path.Join(templateRoot, "*.tmpl")),
)

func formatRGB(c preset.RGB) string {
	return fmt.Sprintf(`{"r": %g, "g": %g, "b": %g}`, c.R, c.G, c.B)
}

type deviceData struct {
	Device        preset.Device
	DeviceName    string
	Palette       preset.Palette
	PaddingTop    int
	PaddingBottom int
	ItemSpacing   int

	Kinds             []string
	LayoutModes       []string
	SizingModes       []string
	PrimaryAlignments []string
	CounterAlignments []string
	TextAligns        []string
	FontWeights       []string
	PaintType         string
	EffectType        string
}

// Builder assembles the full generation prompt for a device profile.
type Builder struct {
	reg *preset.Registry
}

func NewBuilder(reg *preset.Registry) *Builder {
	return &Builder{reg: reg}
}

// Build returns the system instructions, the device section, the mobile login
// example when the prompt asks for a login screen on mobile, and the user
// prompt, in this order.
func (b *Builder) Build(userPrompt string, deviceType preset.DeviceType) (string, error) {
	device := b.reg.DeviceOrDefault(deviceType)
	data := b.deviceData(device)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "system.tmpl", data); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	if err := templates.ExecuteTemplate(&buf, "device.tmpl", data); err != nil {
		return "", fmt.Errorf("render device prompt: %w", err)
	}
	if device.Type == preset.Mobile && b.reg.IsLoginPrompt(userPrompt) {
		if err := templates.ExecuteTemplate(&buf, "login.tmpl", data); err != nil {
			return "", fmt.Errorf("render login example: %w", err)
		}
	}
	buf.WriteString(userPromptSeparator)
	buf.WriteString(userPrompt)
	return buf.String(), nil
}

func (b *Builder) deviceData(device preset.Device) deviceData {
	return deviceData{
		Device:        device,
		DeviceName:    strings.ToUpper(string(device.Type)),
		Palette:       b.reg.Palette,
		PaddingTop:    int(math.Round(float64(device.Height) * 0.15)),
		PaddingBottom: device.Margin * 2,
		ItemSpacing:   int(math.Round(float64(device.Margin) * 0.8)),

		Kinds:             f.Map(layout.Kind("").AllowedKinds(), func(k layout.Kind) string { return string(k) }),
		LayoutModes:       layout.AllowedLayoutModes,
		SizingModes:       layout.AllowedSizingModes,
		PrimaryAlignments: layout.AllowedPrimaryAlignments,
		CounterAlignments: layout.AllowedCounterAlignments,
		TextAligns:        layout.AllowedTextAligns,
		FontWeights:       layout.AllowedFontWeights,
		PaintType:         layout.PaintSolid,
		EffectType:        layout.EffectDropShadow,
	}
}

// Target is the existing frame a request edits.
type Target struct {
	Name   string
	Width  float64
	Height float64
}

// Request describes a user request before it is expanded with the device
// instructions.
type Request struct {
	Prompt string
	// Target is nil when a new design is created from scratch.
	Target         *Target
	IsAdaptation   bool
	HasCustomRules bool
}

// Contextual wraps the user prompt with the create or edit instructions and
// the optional adaptation and custom rules notes.
func Contextual(req Request) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "contextual.tmpl", req); err != nil {
		return "", fmt.Errorf("render contextual prompt: %w", err)
	}
	return buf.String(), nil
}
