package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/figgen/figgen-cli/internal/errhandler"
	"github.com/figgen/figgen-cli/internal/layout"
)

const previewLength = 500

var (
	errNoCandidate = errors.New("the answer has no candidate text")
	errNoFrames    = errors.New("the layout does not contain a frames array")
)

var fenceReplacer = strings.NewReplacer("```json\n", "", "```json", "", "```\n", "", "```", "")

// ParseLayout cleans the generated text and decodes it as a layout response.
// Unbalanced braces or brackets are reported as truncation before decoding.
func ParseLayout(generated string) (*layout.Response, error) {
	text := strings.TrimSpace(fenceReplacer.Replace(generated))

	if err := checkCompleteness(text); err != nil {
		return nil, &errhandler.FormatError{Kind: errhandler.FormatTruncated, Preview: preview(text), Err: err}
	}
	if !json.Valid([]byte(text)) {
		var v any
		err := json.Unmarshal([]byte(text), &v)
		return nil, &errhandler.FormatError{Kind: errhandler.FormatParse, Preview: preview(text), Err: err}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, &errhandler.FormatError{Kind: errhandler.FormatStructure, Preview: preview(text), Err: errNoFrames}
	}
	if frames := strings.TrimSpace(string(probe["frames"])); !strings.HasPrefix(frames, "[") {
		return nil, &errhandler.FormatError{Kind: errhandler.FormatStructure, Preview: preview(text), Err: errNoFrames}
	}

	var resp layout.Response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, &errhandler.FormatError{Kind: errhandler.FormatParse, Preview: preview(text), Err: err}
	}
	return &resp, nil
}

func checkCompleteness(text string) error {
	openBraces, closeBraces := strings.Count(text, "{"), strings.Count(text, "}")
	openBrackets, closeBrackets := strings.Count(text, "["), strings.Count(text, "]")
	if openBraces != closeBraces || openBrackets != closeBrackets {
		return fmt.Errorf("braces %d/%d, brackets %d/%d, raise the output token limit",
			openBraces, closeBraces, openBrackets, closeBrackets)
	}
	return nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "...[TRUNCATED]"
}
