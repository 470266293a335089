// Package errhandler turns pipeline failures into log records and into
// messages and remediation hints for the user.
package errhandler

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/figgen/figgen-cli/internal/i18n"
)

type requestIDKey struct{}

// WithRequestID returns a context carrying the correlation id attached to
// every record written by Report.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type Handler struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// Report writes one structured record describing err. Format errors also
// carry the preview of the generated text.
func (h *Handler) Report(ctx context.Context, err error, operation string) {
	if err == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("context", operation),
		slog.String("error", err.Error()),
		slog.String("error_type", errorType(err)),
		slog.String("message", h.Message(err)),
		slog.Bool("retryable", h.IsRetryable(err)),
		slog.String("request_id", RequestID(ctx)),
	}
	var formatErr *FormatError
	if errors.As(err, &formatErr) && formatErr.Preview != "" {
		attrs = append(attrs, slog.String("preview", formatErr.Preview))
	}
	h.logger.LogAttrs(ctx, slog.LevelError, operation, attrs...)
}

type messageRule struct {
	keywords []string
	message  func(original string) string
}

// messageRules is evaluated in order against the lowercased error text.
var messageRules = []messageRule{
	{[]string{"api key"}, func(string) string { return i18n.Tr("Invalid API key. Check your Gemini key.") }},
	{[]string{"403", "forbidden"}, func(string) string { return i18n.Tr("Access denied. Check the permissions of your API key.") }},
	{[]string{"429", "quota"}, func(string) string { return i18n.Tr("Quota exceeded. Try again later or check your plan.") }},
	{[]string{"503", "overloaded"}, func(string) string { return i18n.Tr("The service is temporarily overloaded. Try again in a few moments.") }},
	{[]string{"truncated"}, func(string) string { return i18n.Tr("Incomplete response from the server. Try a simpler prompt.") }},
	{[]string{"parse", "parsing"}, func(string) string { return i18n.Tr("Error processing the response. The server returned malformed data.") }},
	{[]string{"network", "fetch", "connection"}, func(string) string { return i18n.Tr("Connection error. Check your internet connection.") }},
	{[]string{"timeout", "deadline"}, func(string) string { return i18n.Tr("Timed out. Try again.") }},
	{[]string{"required"}, sanitize},
	{[]string{"frame not found"}, func(string) string { return i18n.Tr("The selected frame no longer exists. Select another frame.") }},
	{[]string{"font"}, func(string) string { return i18n.Tr("Error loading fonts. Using the default font.") }},
	{[]string{"plugin"}, func(string) string { return i18n.Tr("Internal plugin error. Restart and try again.") }},
}

// Message returns the user facing text for err.
func (h *Handler) Message(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return strings.Join(validationErr.Errors, "\n")
	}
	if errors.Is(err, ErrOperationInProgress) {
		return i18n.Tr("Another generation is already running. Wait for it to finish.")
	}
	if errors.Is(err, context.Canceled) {
		return i18n.Tr("The operation was cancelled.")
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range messageRules {
		if containsAny(msg, rule.keywords...) {
			return rule.message(err.Error())
		}
	}
	return sanitize(err.Error())
}

// Suggestions returns remediation hints for err. Hints for every matching
// category are concatenated; a generic set is returned when none matches.
func (h *Handler) Suggestions(err error) []string {
	var res []string
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "api key") {
			res = append(res,
				i18n.Tr("Check that your Gemini API key is correct"),
				i18n.Tr("Make sure the API key has valid permissions"),
				i18n.Tr("Get a new API key from Google AI Studio"),
			)
		}
		if containsAny(msg, "quota", "429") {
			res = append(res,
				i18n.Tr("Wait a few minutes before trying again"),
				i18n.Tr("Check your quota limit in Google AI Studio"),
				i18n.Tr("Consider upgrading your plan if needed"),
			)
		}
		if containsAny(msg, "network", "timeout", "connection", "deadline") {
			res = append(res,
				i18n.Tr("Check your internet connection"),
				i18n.Tr("Try again in a few moments"),
				i18n.Tr("Make sure no firewall is blocking the request"),
			)
		}
		if containsAny(msg, "json", "parse", "parsing", "truncated") {
			res = append(res,
				i18n.Tr("Try a simpler prompt"),
				i18n.Tr("Reduce the complexity of your request"),
				i18n.Tr("Check that the selected model is available"),
			)
		}
		if strings.Contains(msg, "frame") {
			res = append(res,
				i18n.Tr("Make sure a frame is selected"),
				i18n.Tr("Check that the selected frame is valid"),
				i18n.Tr("Try creating a new frame"),
			)
		}
	}
	if len(res) == 0 {
		res = append(res,
			i18n.Tr("Try again in a few moments"),
			i18n.Tr("Check your configuration and connection"),
			i18n.Tr("Restart the plugin if the problem persists"),
		)
	}
	return res
}

// IsRetryable reports whether running the same operation again may succeed.
func (h *Handler) IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var (
		validationErr *ValidationError
		transientErr  *TransientServiceError
	)
	switch {
	case errors.As(err, &validationErr), errors.Is(err, context.Canceled):
		return false
	case errors.As(err, &transientErr):
		return true
	}

	msg := strings.ToLower(err.Error())
	if containsAny(msg, "503", "timeout", "network", "overloaded", "deadline") {
		return true
	}
	if containsAny(msg, "api key", "403", "401", "400") {
		return false
	}
	return true
}

// Format returns the message followed by the bulleted suggestions, prefixed
// with operation when not empty.
func (h *Handler) Format(err error, operation string) string {
	var sb strings.Builder
	if operation != "" {
		sb.WriteString(operation)
		sb.WriteString(": ")
	}
	sb.WriteString(h.Message(err))
	if suggestions := h.Suggestions(err); len(suggestions) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(i18n.Tr("Suggestions:"))
		for _, s := range suggestions {
			sb.WriteString("\n• ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

var errorPrefix = regexp.MustCompile(`(?i)\b(type|reference)?error:\s*`)

func sanitize(msg string) string {
	msg = errorPrefix.ReplaceAllString(msg, "")
	msg = strings.Join(strings.Fields(msg), " ")
	if msg == "" {
		return i18n.Tr("Unexpected error.")
	}
	r, size := utf8.DecodeRuneInString(msg)
	msg = string(unicode.ToUpper(r)) + msg[size:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
