package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/internal/errhandler"
	"github.com/figgen/figgen-cli/internal/scene"
	"github.com/figgen/figgen-cli/internal/store"
)

func TestExitCode(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	testCases := []struct {
		name string
		err  error
		want feedback.ExitCode
	}{
		{name: "no error", err: nil, want: feedback.Success},
		{name: "validation", err: &errhandler.ValidationError{Errors: []string{"Prompt cannot be empty"}}, want: feedback.ErrBadArgument},
		{name: "invalid document name", err: fmt.Errorf("%w: %q", store.ErrInvalidName, "??"), want: feedback.ErrBadArgument},
		{name: "missing document", err: store.ErrDocumentNotFound, want: feedback.ErrDocument},
		{name: "locked document", err: fmt.Errorf("saving: %w", store.ErrLocked), want: feedback.ErrDocument},
		{name: "missing frame", err: errhandler.ErrFrameNotFound, want: feedback.ErrDocument},
		{name: "overloaded service", err: &errhandler.TransientServiceError{StatusCode: 503, Attempts: 3}, want: feedback.ErrService},
		{name: "rejected request", err: &errhandler.TerminalServiceError{StatusCode: 400}, want: feedback.ErrService},
		{name: "unreachable service", err: &errhandler.TerminalServiceError{Err: dialErr}, want: feedback.ErrNetwork},
		{name: "timeout", err: context.DeadlineExceeded, want: feedback.ErrNetwork},
		{name: "anything else", err: errors.New("boom"), want: feedback.ErrGeneric},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestResolveNode(t *testing.T) {
	doc := scene.NewMemoryDocument("Home")
	landing := doc.CreateFrame()
	landing.SetName("Landing")
	title := doc.CreateText()
	title.SetName("Landing")
	require.NoError(t, landing.AppendChild(title))

	n, err := ResolveNode(doc, landing.ID)
	require.NoError(t, err)
	require.Same(t, landing, n)

	n, err = ResolveNode(doc, title.ID)
	require.NoError(t, err)
	require.Same(t, title, n)

	n, err = ResolveNode(doc, "Landing")
	require.NoError(t, err)
	require.Same(t, landing, n)

	card := doc.CreateFrame()
	card.SetName("Card")
	require.NoError(t, landing.AppendChild(card))
	n, err = ResolveNode(doc, "Card")
	require.NoError(t, err)
	require.Same(t, card, n)

	outer := doc.CreateFrame()
	outer.SetName("Card")
	n, err = ResolveNode(doc, "Card")
	require.NoError(t, err)
	require.Same(t, outer, n)

	_, err = ResolveNode(doc, "Checkout")
	require.ErrorIs(t, err, errhandler.ErrFrameNotFound)
}
