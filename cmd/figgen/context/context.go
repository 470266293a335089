// Package context implements the command describing the current selection
// the way the UI panel receives it.
package context

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/completion"
	"github.com/figgen/figgen-cli/cmd/figgen/generate"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/cmdutil"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	"github.com/figgen/figgen-cli/internal/coordinator"
	"github.com/figgen/figgen-cli/internal/framemanager"
	"github.com/figgen/figgen-cli/internal/scene"
	"github.com/figgen/figgen-cli/internal/store"
)

func NewContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "context [document]",
		Short:             "Describe the frame selected in a document",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completion.DocumentNames(),
		Run: func(cmd *cobra.Command, args []string) {
			name := generate.DefaultDocument
			if len(args) == 1 {
				name = args[0]
			}
			contextHandler(cmd, name)
		},
	}
}

func contextHandler(cmd *cobra.Command, name string) {
	doc, err := servicelocator.GetDocumentStore().Load(name)
	if errors.Is(err, store.ErrDocumentNotFound) {
		doc, err = scene.NewMemoryDocument(name), nil
	}
	if err != nil {
		feedback.Fatal(err.Error(), cmdutil.ExitCode(err))
		return
	}

	res := contextResult{Document: name}
	err = servicelocator.GetCoordinator().Handle(cmd.Context(), doc, coordinator.Request{Type: coordinator.TypeGetContext}, func(msg coordinator.Message) {
		if msg.Type == coordinator.TypeContextUpdate {
			res.Frame = msg.Frame
		}
	})
	if err != nil {
		feedback.Fatal(err.Error(), cmdutil.ExitCode(err))
		return
	}
	feedback.PrintResult(res)
}

type contextResult struct {
	Document string                      `json:"document"`
	Frame    *framemanager.SelectedFrame `json:"frame"`
}

func (r contextResult) String() string {
	if r.Frame == nil {
		return fmt.Sprintf("No frame selected in %q: the next design creates new frames.", r.Document)
	}
	f := r.Frame
	var b strings.Builder
	fmt.Fprintf(&b, "Frame:    %s (%s)\n", f.Name, f.ID)
	fmt.Fprintf(&b, "Size:     %gx%g\n", f.Width, f.Height)
	fmt.Fprintf(&b, "Device:   %s\n", f.DeviceType)
	if s := f.StyleInfo; s != nil {
		fmt.Fprintf(&b, "Layout:   %s, padding %s, spacing %g\n", s.LayoutMode, s.Padding, s.Spacing)
		fmt.Fprintf(&b, "Elements: %d\n", s.ElementCount)
		if len(s.PrimaryColors) > 0 {
			fmt.Fprintf(&b, "Colors:   %s\n", strings.Join(s.PrimaryColors, ", "))
		}
		if s.Description != "" {
			b.WriteString(s.Description + "\n")
		}
	}
	return b.String()
}

func (r contextResult) Data() any {
	return r
}
