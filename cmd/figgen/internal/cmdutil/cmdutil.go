package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/internal/errhandler"
	"github.com/figgen/figgen-cli/internal/scene"
	"github.com/figgen/figgen-cli/internal/store"
)

// ResolveNode finds a node of doc by id, or else a frame by name. Top level
// frames win over nested ones.
func ResolveNode(doc *scene.MemoryDocument, ref string) (*scene.Node, error) {
	if n, ok := doc.NodeByID(ref); ok {
		return n, nil
	}
	named := func(n *scene.Node) bool {
		return n.Type == scene.TypeFrame && n.Name == ref
	}
	if n := doc.CurrentPage().FindChild(named); n != nil {
		return n, nil
	}
	if nested := doc.CurrentPage().FindAll(named); len(nested) > 0 {
		return nested[0], nil
	}
	return nil, fmt.Errorf("%w: %s", errhandler.ErrFrameNotFound, ref)
}

// ExitCode maps a failure to the exit status of the command.
func ExitCode(err error) feedback.ExitCode {
	var (
		validationErr *errhandler.ValidationError
		transientErr  *errhandler.TransientServiceError
		terminalErr   *errhandler.TerminalServiceError
		netErr        net.Error
	)
	switch {
	case err == nil:
		return feedback.Success
	case errors.As(err, &validationErr), errors.Is(err, store.ErrInvalidName):
		return feedback.ErrBadArgument
	case errors.Is(err, store.ErrDocumentNotFound), errors.Is(err, store.ErrLocked),
		errors.Is(err, errhandler.ErrFrameNotFound), errors.Is(err, errhandler.ErrOperationInProgress):
		return feedback.ErrDocument
	case errors.As(err, &transientErr) || errors.As(err, &terminalErr):
		if errors.As(err, &netErr) {
			return feedback.ErrNetwork
		}
		return feedback.ErrService
	case errors.As(err, &netErr), errors.Is(err, context.DeadlineExceeded):
		return feedback.ErrNetwork
	default:
		return feedback.ErrGeneric
	}
}

// Fatal prints the user facing description of err, with suggestions, and
// exits.
func Fatal(errs *errhandler.Handler, err error, operation string) {
	feedback.Fatal(errs.Format(err, operation), ExitCode(err))
}
