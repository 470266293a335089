// Package validation checks generate requests and generation responses. The
// checks never stop at the first defect: every finding is collected so a
// single report describes the whole input.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/figgen/figgen-cli/internal/i18n"
	"github.com/figgen/figgen-cli/internal/layout"
	"github.com/figgen/figgen-cli/internal/preset"
)

const (
	minPromptLength = 3
	maxPromptLength = 2000
	maxFontSize     = 200
)

type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func newResult(errs []string) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// GenerateRequest is the user intent checked before calling the generation
// service.
type GenerateRequest struct {
	Prompt     string
	APIKey     string
	Model      string
	DeviceType string
}

func ValidateGenerateRequest(req GenerateRequest, reg *preset.Registry) Result {
	var errs []string
	if !ValidAPIKey(req.APIKey, reg.APIKey) {
		errs = append(errs, i18n.Tr("A valid Gemini API key is required"))
	}
	if !ValidPrompt(req.Prompt) {
		errs = append(errs, i18n.Tr("The prompt cannot be empty"))
	}
	if _, ok := reg.GetModelByID(req.Model); !ok {
		errs = append(errs, i18n.Tr("Invalid AI model"))
	}
	if !slices.Contains(preset.DeviceType("").AllowedDeviceTypes(), preset.DeviceType(req.DeviceType)) {
		errs = append(errs, i18n.Tr("Invalid device type"))
	}
	return newResult(errs)
}

// ValidAPIKey checks the key shape: a fixed prefix followed by at least
// rule.MinSuffixLength url-safe characters.
func ValidAPIKey(key string, rule preset.APIKeyRule) bool {
	pattern := regexp.MustCompile(fmt.Sprintf(`^%s[A-Za-z0-9_-]{%d,}$`, regexp.QuoteMeta(rule.Prefix), rule.MinSuffixLength))
	return pattern.MatchString(strings.TrimSpace(key))
}

// ValidPrompt requires at least three characters after trimming, one of them
// being a letter or a digit.
func ValidPrompt(prompt string) bool {
	prompt = strings.TrimSpace(prompt)
	if len([]rune(prompt)) < minPromptLength {
		return false
	}
	return strings.ContainsFunc(prompt, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}

func ValidateResponse(resp *layout.Response) Result {
	if resp == nil {
		return newResult([]string{i18n.Tr("The response must be an object")})
	}
	if resp.Frames == nil {
		return newResult([]string{i18n.Tr("The response must contain a list of frames")})
	}
	var errs []string
	for i, tree := range resp.Frames {
		errs = append(errs, prefixed(i18n.Tr("Frame %d: ", i), ValidateTree(tree).Errors)...)
	}
	return newResult(errs)
}

func ValidateTree(tree layout.Tree) Result {
	var errs []string
	for _, issue := range tree.Issues {
		errs = append(errs, i18n.Tr("invalid field %s", issue))
	}
	if strings.TrimSpace(tree.Name) == "" {
		errs = append(errs, i18n.Tr("the frame must have a valid name"))
	}
	if len(tree.Nodes) == 0 {
		errs = append(errs, i18n.Tr("the frame must have at least one node"))
	}
	for i, n := range tree.Nodes {
		errs = append(errs, prefixed(i18n.Tr("Node %d: ", i), ValidateNode(n).Errors)...)
	}
	return newResult(errs)
}

func ValidateNode(n layout.Node) Result {
	var errs []string
	for _, issue := range n.Issues {
		errs = append(errs, i18n.Tr("invalid field %s", issue))
	}
	if !n.Kind.IsValid() {
		errs = append(errs, i18n.Tr("invalid node type %q", string(n.Kind)))
	}
	if !finitePtr(n.X) || !finitePtr(n.Y) {
		errs = append(errs, i18n.Tr("x and y coordinates must be valid numbers"))
	}
	if !validDimension(n.Width) {
		errs = append(errs, i18n.Tr("width must be a positive number"))
	}
	if !validDimension(n.Height) {
		errs = append(errs, i18n.Tr("height must be a positive number"))
	}

	switch n.Kind {
	case layout.KindText:
		errs = append(errs, validateText(n)...)
	case layout.KindFrame:
		errs = append(errs, validateFrame(n)...)
	}

	if !validFills(n.Fills) {
		errs = append(errs, i18n.Tr("invalid fills"))
	}
	return newResult(errs)
}

func validateText(n layout.Node) []string {
	var errs []string
	if strings.TrimSpace(n.Characters) == "" && strings.TrimSpace(n.Text) == "" {
		errs = append(errs, i18n.Tr("a text node must have content (characters or text)"))
	}
	if n.FontSize != nil && (*n.FontSize <= 0 || *n.FontSize > maxFontSize) {
		errs = append(errs, i18n.Tr("fontSize must be a number between 1 and 200"))
	}
	if n.TextAlign != "" && !slices.Contains(layout.AllowedTextAligns, strings.ToUpper(n.TextAlign)) {
		errs = append(errs, i18n.Tr("textAlign must be LEFT, CENTER or RIGHT"))
	}
	return errs
}

func validateFrame(n layout.Node) []string {
	var errs []string
	if n.LayoutMode != "" && !slices.Contains(layout.AllowedLayoutModes, n.LayoutMode) {
		errs = append(errs, i18n.Tr("layoutMode must be NONE, HORIZONTAL or VERTICAL"))
	}
	if n.PaddingTop != nil && *n.PaddingTop < 0 {
		errs = append(errs, i18n.Tr("paddingTop must be a non-negative number"))
	}
	for i, c := range n.Children {
		errs = append(errs, prefixed(i18n.Tr("Child %d: ", i), ValidateNode(c).Errors)...)
	}
	return errs
}

func validFills(fills []layout.Paint) bool {
	for _, p := range fills {
		if p.Type != layout.PaintSolid || p.Color == nil || len(p.Color.Invalid) > 0 {
			return false
		}
		for _, ch := range []float64{p.Color.R, p.Color.G, p.Color.B} {
			if ch < 0 || ch > 1 {
				return false
			}
		}
	}
	return true
}

// validDimension accepts an unset value, the "auto" sentinel or a positive
// finite number.
func validDimension(d layout.Dimension) bool {
	if !d.IsSet() || d.IsAuto() {
		return true
	}
	v, _ := d.Number()
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func finitePtr(v *float64) bool {
	return v == nil || (!math.IsInf(*v, 0) && !math.IsNaN(*v))
}

func prefixed(prefix string, errs []string) []string {
	res := make([]string, 0, len(errs))
	for _, e := range errs {
		res = append(res, prefix+e)
	}
	return res
}

// SanitizePrompt trims the prompt, collapses whitespace runs, drops angle
// brackets and caps the length.
func SanitizePrompt(prompt string) string {
	prompt = strings.Join(strings.Fields(prompt), " ")
	prompt = strings.NewReplacer("<", "", ">", "").Replace(prompt)
	if r := []rune(prompt); len(r) > maxPromptLength {
		prompt = string(r[:maxPromptLength])
	}
	return prompt
}

// SanitizeAPIKey removes every whitespace character from the key.
func SanitizeAPIKey(key string) string {
	return strings.Join(strings.Fields(key), "")
}
