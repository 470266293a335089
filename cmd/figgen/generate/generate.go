package generate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/completion"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/cmdutil"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	"github.com/figgen/figgen-cli/internal/coordinator"
	"github.com/figgen/figgen-cli/internal/framemanager"
	"github.com/figgen/figgen-cli/internal/i18n"
	"github.com/figgen/figgen-cli/internal/scene"
)

const DefaultDocument = "Untitled"

type options struct {
	document       string
	apiKey         string
	model          string
	device         string
	frame          string
	useSelection   bool
	isAdaptation   bool
	hasCustomRules bool
}

func NewGenerateCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "generate prompt...",
		Short: "Generate a design from a prompt into a document",
		Example: "  figgen generate a login screen with email and password\n" +
			"  figgen generate -d Shop --device desktop --frame Checkout make it fit a wide screen",
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			generateHandler(cmd.Context(), strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.document, "document", "d", DefaultDocument, "Document receiving the design")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "Gemini API key, overriding the configured one")
	cmd.Flags().StringVar(&opts.model, "model", "", "Generation model")
	cmd.Flags().StringVar(&opts.device, "device", "", "Target device type")
	cmd.Flags().StringVar(&opts.frame, "frame", "", "Id or name of the frame to edit instead of creating new frames")
	cmd.Flags().BoolVar(&opts.useSelection, "selection", false, "Edit the frame currently selected in the document")
	cmd.Flags().BoolVar(&opts.isAdaptation, "adapt", false, "Adapt the edited frame to the target device")
	cmd.Flags().BoolVar(&opts.hasCustomRules, "custom-rules", false, "The prompt carries custom design rules")
	cmd.MarkFlagsMutuallyExclusive("frame", "selection")
	_ = cmd.RegisterFlagCompletionFunc("document", completion.DocumentNames())
	_ = cmd.RegisterFlagCompletionFunc("model", completion.ModelIDs())
	_ = cmd.RegisterFlagCompletionFunc("device", completion.DeviceTypes())
	return cmd
}

func generateHandler(ctx context.Context, prompt string, opts options) {
	out, _, getResult := feedback.OutputStreams()
	coord := servicelocator.GetCoordinator()
	errs := servicelocator.GetErrorHandler()

	req := coordinator.Request{
		Type:           coordinator.TypeGenerate,
		Prompt:         prompt,
		APIKey:         opts.apiKey,
		Model:          opts.model,
		DeviceType:     opts.device,
		IsAdaptation:   opts.isAdaptation,
		HasCustomRules: opts.hasCustomRules,
	}
	servicelocator.GetGenerateDefaults().Apply(&req)

	var (
		messages []coordinator.Message
		frames   []frameSummary
	)
	send := func(msg coordinator.Message) {
		messages = append(messages, msg)
		if msg.AlertType == coordinator.AlertWarning {
			feedback.Warnf("%s", msg.Message)
		}
	}

	_, err := servicelocator.GetDocumentStore().Update(opts.document, true, func(doc *scene.MemoryDocument) error {
		doc.SetNotifier(func(message string) { fmt.Fprintln(out, message) })

		target, err := targetFrame(doc, opts)
		if err != nil {
			return err
		}
		req.SelectedFrame = target

		before := frameContents(doc.CurrentPage())
		if err := coord.Handle(ctx, doc, req, send); err != nil {
			return err
		}
		for _, n := range renderedFrames(doc.CurrentPage(), before) {
			frames = append(frames, summarize(n))
		}
		return nil
	})
	if err != nil {
		cmdutil.Fatal(errs, err, i18n.Tr("Error generating design"))
		return
	}

	feedback.PrintResult(generateResult{
		Document: opts.document,
		Edited:   req.SelectedFrame != nil,
		Frames:   frames,
		Messages: messages,
		Output:   getResult(),
	})
}

// targetFrame returns the frame the design goes into, nil to create new
// frames.
func targetFrame(doc *scene.MemoryDocument, opts options) (*framemanager.SelectedFrame, error) {
	switch {
	case opts.frame != "":
		n, err := cmdutil.ResolveNode(doc, opts.frame)
		if err != nil {
			return nil, err
		}
		target := framemanager.AnalyzeSelection([]*scene.Node{n})
		if target == nil {
			return nil, errors.New(i18n.Tr("%q is not a frame", opts.frame))
		}
		return target, nil
	case opts.useSelection:
		target := framemanager.AnalyzeSelection(doc.Selection())
		if target == nil {
			return nil, errors.New(i18n.Tr("Select exactly one frame to edit it"))
		}
		return target, nil
	default:
		return nil, nil
	}
}

type frameSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Children int     `json:"children"`
}

func summarize(n *scene.Node) frameSummary {
	return frameSummary{ID: n.ID, Name: n.Name, Width: n.Width, Height: n.Height, Children: len(n.Children)}
}

type generateResult struct {
	Document string                        `json:"document"`
	Edited   bool                          `json:"edited"`
	Frames   []frameSummary                `json:"frames"`
	Messages []coordinator.Message         `json:"messages"`
	Output   *feedback.OutputStreamsResult `json:"output,omitempty"`
}

func (r generateResult) String() string {
	var b strings.Builder
	verb := "created"
	if r.Edited {
		verb = "updated"
	}
	b.WriteString(color.GreenString("✓ "))
	fmt.Fprintf(&b, "Document %q %s", r.Document, verb)
	for _, f := range r.Frames {
		fmt.Fprintf(&b, "\n  %s  %gx%g  (%d elements)  %s", f.Name, f.Width, f.Height, f.Children, f.ID)
	}
	return b.String()
}

func (r generateResult) Data() any {
	return r
}

// frameContents maps every top-level frame of page to the ids of its children.
func frameContents(page *scene.Node) map[string][]string {
	res := map[string][]string{}
	for _, n := range page.Children {
		if n.Type == scene.TypeFrame {
			res[n.ID] = childIDs(n)
		}
	}
	return res
}

// renderedFrames returns the top-level frames of page created or filled since
// before was taken. Rendering a frame always replaces its children, so a
// frame updated in place never keeps the same children ids.
func renderedFrames(page *scene.Node, before map[string][]string) []*scene.Node {
	var res []*scene.Node
	for _, n := range page.Children {
		if n.Type != scene.TypeFrame {
			continue
		}
		if old, ok := before[n.ID]; ok && slices.Equal(old, childIDs(n)) {
			continue
		}
		res = append(res, n)
	}
	return res
}

func childIDs(n *scene.Node) []string {
	ids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}
