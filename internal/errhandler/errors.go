package errhandler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFrameNotFound       = errors.New("frame not found")
	ErrOperationInProgress = errors.New("an operation is already in progress")
)

// ValidationError carries every defect found in a request or a response.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// TransientServiceError is an overload failure of the generation service
// that survived every retry.
type TransientServiceError struct {
	StatusCode int
	Body       string
	Attempts   int
	Err        error
}

func (e *TransientServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service unavailable after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("generation service unavailable after %d attempts: HTTP %d: %s", e.Attempts, e.StatusCode, e.Body)
}

func (e *TransientServiceError) Unwrap() error {
	return e.Err
}

// TerminalServiceError is a generation service failure that must not be
// retried.
type TerminalServiceError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TerminalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service request failed: %v", e.Err)
	}
	return fmt.Sprintf("generation service returned HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *TerminalServiceError) Unwrap() error {
	return e.Err
}

type FormatKind string

const (
	FormatTruncated FormatKind = "truncated"
	FormatParse     FormatKind = "parse"
	FormatStructure FormatKind = "structure"
)

// FormatError reports generated text that is not a usable layout. Preview
// holds the beginning of the offending text.
type FormatError struct {
	Kind    FormatKind
	Preview string
	Err     error
}

func (e *FormatError) Error() string {
	var msg string
	switch e.Kind {
	case FormatTruncated:
		msg = "generated layout is truncated"
	case FormatParse:
		msg = "cannot parse generated layout"
	default:
		msg = "generated layout has an invalid structure"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// HostOperationError is a failure of the scene document.
type HostOperationError struct {
	Op  string
	Err error
}

func (e *HostOperationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *HostOperationError) Unwrap() error {
	return e.Err
}

func errorType(err error) string {
	var (
		validationErr *ValidationError
		transientErr  *TransientServiceError
		terminalErr   *TerminalServiceError
		formatErr     *FormatError
		hostErr       *HostOperationError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &transientErr):
		return "transient_service"
	case errors.As(err, &terminalErr):
		return "terminal_service"
	case errors.As(err, &formatErr):
		return "format"
	case errors.As(err, &hostErr):
		return "host_operation"
	default:
		return "unknown"
	}
}
