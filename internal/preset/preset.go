package preset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	emoji "github.com/Andrew-M-C/go.emoji"
	"github.com/arduino/go-paths-helper"
	"github.com/goccy/go-yaml"
	"go.bug.st/f"
	semver "go.bug.st/relaxed-semver"
)

//go:embed presets.yaml
var defaultPresets []byte

var (
	minSupportedVersion = semver.MustParse("1.0.0")
	maxSupportedVersion = semver.MustParse("2.0.0")
)

type DeviceType string

const (
	Mobile  DeviceType = "mobile"
	Tablet  DeviceType = "tablet"
	Desktop DeviceType = "desktop"
)

func (d DeviceType) AllowedDeviceTypes() []DeviceType {
	return []DeviceType{Mobile, Tablet, Desktop}
}

type RGB struct {
	R float64 `yaml:"r" json:"r"`
	G float64 `yaml:"g" json:"g"`
	B float64 `yaml:"b" json:"b"`
}

type RGBA struct {
	R float64 `yaml:"r" json:"r"`
	G float64 `yaml:"g" json:"g"`
	B float64 `yaml:"b" json:"b"`
	A float64 `yaml:"a" json:"a"`
}

type Vector struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

type ButtonRules struct {
	MinHeight int `yaml:"min_height" json:"min_height"`
	MaxHeight int `yaml:"max_height" json:"max_height"`
	MaxWidth  int `yaml:"max_width,omitempty" json:"max_width,omitempty"`
}

type Typography struct {
	Title    int `yaml:"title" json:"title"`
	TitleMax int `yaml:"title_max,omitempty" json:"title_max,omitempty"`
	Text     int `yaml:"text" json:"text"`
	Small    int `yaml:"small" json:"small"`
}

// Device is the canvas profile of a target device together with the sizing
// rules injected in the generation prompt.
type Device struct {
	Type            DeviceType  `yaml:"-" json:"type"`
	Width           int         `yaml:"width" json:"width"`
	Height          int         `yaml:"height" json:"height"`
	Margin          int         `yaml:"margin" json:"margin"`
	Buttons         ButtonRules `yaml:"buttons" json:"buttons"`
	Typography      Typography  `yaml:"typography" json:"typography"`
	InputHeight     int         `yaml:"input_height" json:"input_height"`
	ContentMaxWidth int         `yaml:"content_max_width,omitempty" json:"content_max_width,omitempty"`
	Notes           []string    `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// ButtonMaxWidth returns the explicit button width cap, or the canvas width
// minus both margins when the device does not define one.
func (d Device) ButtonMaxWidth() int {
	if d.Buttons.MaxWidth > 0 {
		return d.Buttons.MaxWidth
	}
	return d.Width - 2*d.Margin
}

type Model struct {
	ID   string `yaml:"-" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type GenerationConfig struct {
	Temperature     float64 `yaml:"temperature" json:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens" json:"maxOutputTokens"`
}

type RetryPolicy struct {
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
	BaseDelayMs int `yaml:"base_delay_ms" json:"base_delay_ms"`
}

func (r RetryPolicy) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMs) * time.Millisecond
}

type Palette struct {
	TextPrimary      RGB `yaml:"text_primary" json:"text_primary"`
	TextSecondary    RGB `yaml:"text_secondary" json:"text_secondary"`
	TextOnDark       RGB `yaml:"text_on_dark" json:"text_on_dark"`
	BackgroundLight  RGB `yaml:"background_light" json:"background_light"`
	ButtonPrimary    RGB `yaml:"button_primary" json:"button_primary"`
	ButtonSuccess    RGB `yaml:"button_success" json:"button_success"`
	Border           RGB `yaml:"border" json:"border"`
	White            RGB `yaml:"white" json:"white"`
	ImagePlaceholder RGB `yaml:"image_placeholder" json:"image_placeholder"`
	FallbackText     RGB `yaml:"fallback_text" json:"fallback_text"`
}

type FontStyles struct {
	Regular string `yaml:"regular" json:"regular"`
	Bold    string `yaml:"bold" json:"bold"`
	Medium  string `yaml:"medium" json:"medium"`
	Light   string `yaml:"light" json:"light"`
}

type Font struct {
	Family      string     `yaml:"family" json:"family"`
	Styles      FontStyles `yaml:"styles" json:"styles"`
	DefaultSize float64    `yaml:"default_size" json:"default_size"`
	MinSize     float64    `yaml:"min_size" json:"min_size"`
}

type Shadow struct {
	Color  RGBA    `yaml:"color" json:"color"`
	Offset Vector  `yaml:"offset" json:"offset"`
	Radius float64 `yaml:"radius" json:"radius"`
	Spread float64 `yaml:"spread" json:"spread"`
}

// EffectDefaults are the values used for the fields a shadow description
// leaves out.
type EffectDefaults struct {
	Color  RGBA    `yaml:"color" json:"color"`
	Alpha  float64 `yaml:"alpha" json:"alpha"`
	Offset Vector  `yaml:"offset" json:"offset"`
	Radius float64 `yaml:"radius" json:"radius"`
	Spread float64 `yaml:"spread" json:"spread"`
}

type LayoutDefaults struct {
	Padding      float64 `yaml:"padding" json:"padding"`
	ItemSpacing  float64 `yaml:"item_spacing" json:"item_spacing"`
	CornerRadius float64 `yaml:"corner_radius" json:"corner_radius"`
}

type ImageGlyph struct {
	Keywords []string `yaml:"keywords" json:"keywords"`
	Glyph    string   `yaml:"glyph" json:"glyph"`
}

type APIKeyRule struct {
	Prefix          string `yaml:"prefix" json:"prefix"`
	MinSuffixLength int    `yaml:"min_suffix_length" json:"min_suffix_length"`
}

type Fallback struct {
	Text               string  `yaml:"text" json:"text"`
	Placeholder        string  `yaml:"placeholder" json:"placeholder"`
	PlaceholderSize    float64 `yaml:"placeholder_size" json:"placeholder_size"`
	PlaceholderOffsetX float64 `yaml:"placeholder_offset_x" json:"placeholder_offset_x"`
}

type Canvas struct {
	LargeThreshold float64 `yaml:"large_threshold" json:"large_threshold"`
	Large          Size    `yaml:"large" json:"large"`
	Small          Size    `yaml:"small" json:"small"`
}

type presetFile struct {
	Version           string              `yaml:"version"`
	Devices           []map[string]Device `yaml:"devices"`
	Models            []map[string]Model  `yaml:"models"`
	DefaultModel      string              `yaml:"default_model"`
	DefaultDevice     DeviceType          `yaml:"default_device"`
	Generation        GenerationConfig    `yaml:"generation"`
	Retry             RetryPolicy         `yaml:"retry"`
	Palette           Palette             `yaml:"palette"`
	Font              Font                `yaml:"font"`
	Shadow            Shadow              `yaml:"shadow"`
	EffectDefaults    EffectDefaults      `yaml:"effect_defaults"`
	Layout            LayoutDefaults      `yaml:"layout"`
	ImageGlyphs       []ImageGlyph        `yaml:"image_glyphs"`
	DefaultImageGlyph string              `yaml:"default_image_glyph"`
	ImageGlyphScale   float64             `yaml:"image_glyph_scale"`
	LoginKeywords     []string            `yaml:"login_keywords"`
	APIKey            APIKeyRule          `yaml:"api_key"`
	Fallback          Fallback            `yaml:"fallback"`
	Canvas            Canvas              `yaml:"canvas"`
}

// Registry holds the static tables used across the generation pipeline.
// It is immutable once loaded.
type Registry struct {
	Version           string
	DefaultModel      string
	DefaultDevice     DeviceType
	Generation        GenerationConfig
	Retry             RetryPolicy
	Palette           Palette
	Font              Font
	Shadow            Shadow
	EffectDefaults    EffectDefaults
	Layout            LayoutDefaults
	DefaultImageGlyph string
	ImageGlyphScale   float64
	LoginKeywords     []string
	APIKey            APIKeyRule
	Fallback          Fallback
	Canvas            Canvas

	devices     []Device
	models      []Model
	imageGlyphs []ImageGlyph
}

// Default returns the registry embedded in the binary.
func Default() *Registry {
	return f.Must(Load(bytes.NewReader(defaultPresets)))
}

// LoadFile loads a registry from a presets file on disk.
func LoadFile(file *paths.Path) (*Registry, error) {
	content, err := file.ReadFile()
	if err != nil {
		return nil, fmt.Errorf("cannot read presets file: %w", err)
	}
	return Load(bytes.NewReader(content))
}

func Load(r io.Reader) (*Registry, error) {
	var raw presetFile
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("cannot decode presets: %w", err)
	}

	reg := &Registry{
		Version:           raw.Version,
		DefaultModel:      raw.DefaultModel,
		DefaultDevice:     raw.DefaultDevice,
		Generation:        raw.Generation,
		Retry:             raw.Retry,
		Palette:           raw.Palette,
		Font:              raw.Font,
		Shadow:            raw.Shadow,
		EffectDefaults:    raw.EffectDefaults,
		Layout:            raw.Layout,
		DefaultImageGlyph: raw.DefaultImageGlyph,
		ImageGlyphScale:   raw.ImageGlyphScale,
		LoginKeywords:     raw.LoginKeywords,
		APIKey:            raw.APIKey,
		Fallback:          raw.Fallback,
		Canvas:            raw.Canvas,
		imageGlyphs:       raw.ImageGlyphs,
	}
	for _, entry := range raw.Devices {
		for id, device := range entry {
			device.Type = DeviceType(id)
			reg.devices = append(reg.devices, device)
		}
	}
	for _, entry := range raw.Models {
		for id, model := range entry {
			model.ID = id
			reg.models = append(reg.models, model)
		}
	}

	if err := reg.validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *Registry) validate() error {
	var allErrors error

	version, err := semver.Parse(r.Version)
	if err != nil {
		allErrors = errors.Join(allErrors, fmt.Errorf("invalid presets version %q: %w", r.Version, err))
	} else if version.LessThan(minSupportedVersion) || version.GreaterThanOrEqual(maxSupportedVersion) {
		allErrors = errors.Join(allErrors, fmt.Errorf("unsupported presets version %s", version))
	}

	for _, t := range DeviceType("").AllowedDeviceTypes() {
		if _, ok := r.GetDevice(t); !ok {
			allErrors = errors.Join(allErrors, fmt.Errorf("missing device %q", t))
		}
	}
	for _, d := range r.devices {
		if !slices.Contains(DeviceType("").AllowedDeviceTypes(), d.Type) {
			allErrors = errors.Join(allErrors, fmt.Errorf("unknown device %q", d.Type))
		}
		if d.Width <= 0 || d.Height <= 0 {
			allErrors = errors.Join(allErrors, fmt.Errorf("device %q must have a positive canvas size", d.Type))
		}
	}
	if len(r.models) == 0 {
		allErrors = errors.Join(allErrors, errors.New("at least one model must be defined"))
	}
	if _, ok := r.GetModelByID(r.DefaultModel); !ok {
		allErrors = errors.Join(allErrors, fmt.Errorf("default model %q is not defined", r.DefaultModel))
	}
	if r.Retry.MaxAttempts < 1 {
		allErrors = errors.Join(allErrors, errors.New("retry.max_attempts must be at least 1"))
	}
	if r.Font.Family == "" || r.Font.Styles.Regular == "" {
		allErrors = errors.Join(allErrors, errors.New("font family and regular style are required"))
	}
	for _, g := range r.imageGlyphs {
		if !isSingleEmoji(g.Glyph) {
			allErrors = errors.Join(allErrors, fmt.Errorf("image glyph %q is not a valid single emoji", g.Glyph))
		}
	}
	if !isSingleEmoji(r.DefaultImageGlyph) {
		allErrors = errors.Join(allErrors, fmt.Errorf("default image glyph %q is not a valid single emoji", r.DefaultImageGlyph))
	}
	return allErrors
}

func (r *Registry) GetDevices() []Device {
	return r.devices
}

// GetDevice returns the profile for the given device type.
func (r *Registry) GetDevice(t DeviceType) (Device, bool) {
	idx := slices.IndexFunc(r.devices, func(d Device) bool { return d.Type == t })
	if idx == -1 {
		return Device{}, false
	}
	return r.devices[idx], true
}

// DeviceOrDefault falls back to the mobile profile for unknown device types.
func (r *Registry) DeviceOrDefault(t DeviceType) Device {
	if d, ok := r.GetDevice(t); ok {
		return d
	}
	d, _ := r.GetDevice(Mobile)
	return d
}

func (r *Registry) GetModels() []Model {
	return r.models
}

func (r *Registry) GetModelByID(id string) (*Model, bool) {
	idx := slices.IndexFunc(r.models, func(m Model) bool { return m.ID == id })
	if idx == -1 {
		return nil, false
	}
	return &r.models[idx], true
}

func (r *Registry) ModelIDs() []string {
	return f.Map(r.models, func(m Model) string { return m.ID })
}

// ImageGlyph picks the glyph for an image hint by keyword match, in table order.
func (r *Registry) ImageGlyph(hint string) string {
	hint = strings.ToLower(hint)
	for _, g := range r.imageGlyphs {
		if slices.ContainsFunc(g.Keywords, func(k string) bool { return strings.Contains(hint, k) }) {
			return g.Glyph
		}
	}
	return r.DefaultImageGlyph
}

// IsLoginPrompt reports whether the lowercased prompt mentions any of the
// login keywords.
func (r *Registry) IsLoginPrompt(prompt string) bool {
	prompt = strings.ToLower(prompt)
	return slices.ContainsFunc(r.LoginKeywords, func(k string) bool { return strings.Contains(prompt, k) })
}

// FontStyle maps a weight keyword to the style name of the default family.
func (r *Registry) FontStyle(weight string) string {
	switch weight {
	case "bold":
		return r.Font.Styles.Bold
	case "medium":
		return r.Font.Styles.Medium
	case "light":
		return r.Font.Styles.Light
	default:
		return r.Font.Styles.Regular
	}
}

func isSingleEmoji(s string) bool {
	emojis := 0
	for it := emoji.IterateChars(s); it.Next(); {
		if !it.CurrentIsEmoji() {
			return false
		}
		// Skip variation selectors (0xFE00-0xFE0F)
		if it.Current() >= "\uFE00" && it.Current() <= "\uFE0F" {
			continue
		}
		emojis++
	}
	return emojis == 1
}
