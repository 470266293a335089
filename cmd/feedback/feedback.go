// Package feedback prints command results either as text for a terminal or
// as a structured document for scripts.
package feedback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/figgen/figgen-cli/internal/i18n"
)

// OutputFormat is an output format
type OutputFormat int

const (
	// Text is the plain text format, suitable for interactive terminals
	Text OutputFormat = iota
	// JSON format
	JSON
	// MinifiedJSON format
	MinifiedJSON
	// YAML format
	YAML
)

var formats = map[string]OutputFormat{
	"json":     JSON,
	"jsonmini": MinifiedJSON,
	"text":     Text,
	"yaml":     YAML,
}

func (f OutputFormat) String() string {
	for res, format := range formats {
		if format == f {
			return res
		}
	}
	panic("unknown output format")
}

// ParseOutputFormat parses a string and returns the corresponding OutputFormat.
// The boolean returned is true if the string was a valid OutputFormat.
func ParseOutputFormat(in string) (OutputFormat, bool) {
	format, found := formats[in]
	return format, found
}

var (
	stdOut         io.Writer
	stdErr         io.Writer
	feedbackOut    io.Writer
	feedbackErr    io.Writer
	bufferOut      *bytes.Buffer
	bufferErr      *bytes.Buffer
	bufferWarnings []string
	format         OutputFormat
	formatSelected bool
	exit           = os.Exit
	warnColor      = color.New(color.FgYellow)
)

// nolint:gochecknoinits
func init() {
	reset()
}

// reset resets the feedback package to its initial state, useful for unit testing
func reset() {
	stdOut = os.Stdout
	stdErr = os.Stderr
	feedbackOut = os.Stdout
	feedbackErr = os.Stderr
	bufferOut = bytes.NewBuffer(nil)
	bufferErr = bytes.NewBuffer(nil)
	bufferWarnings = nil
	format = Text
	formatSelected = false
	exit = os.Exit
}

// Result is anything more complex than a sentence that needs to be printed
// for the user.
type Result interface {
	fmt.Stringer
	Data() any
}

// ErrorResult is a result embedding also an error. In case of textual output
// the error will be printed on stderr.
type ErrorResult interface {
	Result
	ErrorString() string
}

// SetOut can be used to change the out writer at runtime
func SetOut(out io.Writer) {
	if formatSelected {
		panic("output format already selected")
	}
	stdOut = out
}

// SetErr can be used to change the err writer at runtime
func SetErr(err io.Writer) {
	if formatSelected {
		panic("output format already selected")
	}
	stdErr = err
}

// SetFormat can be used to change the output format at runtime
func SetFormat(f OutputFormat) {
	if formatSelected {
		panic("output format already selected")
	}
	format = f
	formatSelected = true

	if format == Text {
		feedbackOut = io.MultiWriter(bufferOut, stdOut)
		feedbackErr = io.MultiWriter(bufferErr, stdErr)
	} else {
		feedbackOut = bufferOut
		feedbackErr = bufferErr
		bufferWarnings = nil
	}
}

// GetFormat returns the output format currently set
func GetFormat() OutputFormat {
	return format
}

// Printf behaves like fmt.Printf but writes on the out writer and adds a newline.
func Printf(format string, v ...any) {
	Print(fmt.Sprintf(format, v...))
}

// Print behaves like fmt.Print but writes on the out writer and adds a newline.
func Print(v string) {
	fmt.Fprintln(feedbackOut, v)
}

// Warnf outputs a warning message. Structured formats collect the warnings
// in the printed document.
func Warnf(msg string, args ...any) {
	msg = fmt.Sprintf(msg, args...)
	if format == Text {
		warnColor.Fprintln(feedbackErr, msg)
	} else {
		bufferWarnings = append(bufferWarnings, msg)
	}
	slog.Warn(msg)
}

// FatalError outputs the error and exits with status exitCode.
func FatalError(err error, exitCode ExitCode) {
	Fatal(err.Error(), exitCode)
}

// FatalResult outputs the result and exits with status exitCode.
func FatalResult(res ErrorResult, exitCode ExitCode) {
	PrintResult(res)
	exit(int(exitCode))
}

// Fatal outputs the errorMsg and exits with status exitCode.
func Fatal(errorMsg string, exitCode ExitCode) {
	if format == Text {
		fmt.Fprintln(stdErr, errorMsg)
		exit(int(exitCode))
		return
	}

	type fatalError struct {
		Error  string               `json:"error" yaml:"error"`
		Output *OutputStreamsResult `json:"output,omitempty" yaml:"output,omitempty"`
	}
	res := &fatalError{Error: errorMsg}
	if output := getOutputStreamResult(); !output.Empty() {
		res.Output = output
	}
	d, err := encode(res)
	if err != nil {
		d = []byte(errorMsg)
	}
	fmt.Fprintln(stdErr, string(d))
	exit(int(exitCode))
}

// encode renders data in the selected structured format, warnings included.
func encode(data any) ([]byte, error) {
	data = augment(data)
	switch format {
	case JSON:
		return json.MarshalIndent(data, "", "  ")
	case MinifiedJSON:
		return json.Marshal(data)
	case YAML:
		// Results only carry json tags, so go through JSON to keep the same keys.
		d, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		return yaml.JSONToYAML(d)
	default:
		panic("unknown output format")
	}
}

func augment(data any) any {
	if len(bufferWarnings) == 0 {
		return data
	}
	d, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var res any
	if err := json.Unmarshal(d, &res); err != nil {
		return data
	}
	if m, ok := res.(map[string]any); ok {
		m["warnings"] = bufferWarnings
	}
	return res
}

// PrintResult is a convenient wrapper to provide feedback for complex data,
// where the contents can't be just serialized to JSON but requires more
// structure.
func PrintResult(res Result) {
	var data string
	var dataErr string
	if format == Text {
		data = res.String()
		if resErr, ok := res.(ErrorResult); ok {
			dataErr = resErr.ErrorString()
		}
	} else {
		d, err := encode(res.Data())
		if err != nil {
			Fatal(i18n.Tr("Error during %s encoding of the output: %v", format, err), ErrGeneric)
			return
		}
		data = string(bytes.TrimRight(d, "\n"))
	}
	if data != "" {
		fmt.Fprintln(stdOut, data)
	}
	if dataErr != "" {
		fmt.Fprintln(stdErr, dataErr)
	}
}
