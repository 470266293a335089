package document

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.bug.st/f"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/completion"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/cmdutil"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	"github.com/figgen/figgen-cli/internal/scene"
)

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select document [node...]",
		Short: "Select nodes of a document by id or frame name, or clear the selection",
		Example: "  figgen document select Home Login\n" +
			"  figgen document select Home",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completion.DocumentNames(),
		Run: func(cmd *cobra.Command, args []string) {
			selectHandler(args[0], args[1:])
		},
	}
}

func selectHandler(name string, refs []string) {
	docs := servicelocator.GetDocumentStore()
	if _, err := docs.Load(name); err != nil {
		feedback.Fatal(err.Error(), cmdutil.ExitCode(err))
		return
	}
	doc, err := docs.Update(name, false, func(doc *scene.MemoryDocument) error {
		ids := make([]string, 0, len(refs))
		for _, ref := range refs {
			n, err := cmdutil.ResolveNode(doc, ref)
			if err != nil {
				return err
			}
			ids = append(ids, n.ID)
		}
		return doc.SetSelection(ids...)
	})
	if err != nil {
		feedback.Fatal(err.Error(), cmdutil.ExitCode(err))
		return
	}

	feedback.PrintResult(selectResult{
		Document: name,
		Selection: f.Map(doc.Selection(), func(n *scene.Node) selectedNode {
			return selectedNode{ID: n.ID, Name: n.Name, Type: string(n.Type)}
		}),
	})
}

type selectedNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type selectResult struct {
	Document  string         `json:"document"`
	Selection []selectedNode `json:"selection"`
}

func (r selectResult) String() string {
	if len(r.Selection) == 0 {
		return fmt.Sprintf("✓ Selection of %q cleared", r.Document)
	}
	names := f.Map(r.Selection, func(n selectedNode) string { return fmt.Sprintf("%s %q", n.Type, n.Name) })
	return fmt.Sprintf("✓ Selected in %q: %s", r.Document, strings.Join(names, ", "))
}

func (r selectResult) Data() any {
	return r
}
