package feedback

import (
	"errors"
	"io"

	"github.com/figgen/figgen-cli/internal/i18n"
)

// OutputStreamsResult contains the accumulated text printed before a
// structured result.
type OutputStreamsResult struct {
	Stdout string `json:"stdout" yaml:"stdout"`
	Stderr string `json:"stderr" yaml:"stderr"`
}

// Empty returns true if both streams are empty.
func (r *OutputStreamsResult) Empty() bool {
	return r.Stdout == "" && r.Stderr == ""
}

// OutputStreams returns the writers commands should use for free form
// output, and a function returning what was written to them.
func OutputStreams() (io.Writer, io.Writer, func() *OutputStreamsResult) {
	if !formatSelected {
		panic("output format not yet selected")
	}
	return feedbackOut, feedbackErr, getOutputStreamResult
}

func getOutputStreamResult() *OutputStreamsResult {
	return &OutputStreamsResult{
		Stdout: bufferOut.String(),
		Stderr: bufferErr.String(),
	}
}

// DirectStreams returns the underlying writers, bypassing buffering. It
// fails when a structured format is selected, as free form text would
// corrupt it.
func DirectStreams() (io.Writer, io.Writer, error) {
	if !formatSelected {
		panic("output format not yet selected")
	}
	if format != Text {
		return nil, nil, errors.New(i18n.Tr("available only in text format"))
	}
	return stdOut, stdErr, nil
}
