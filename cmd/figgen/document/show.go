package document

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/completion"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/cmdutil"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	"github.com/figgen/figgen-cli/internal/scene"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "show document",
		Short:             "Show the node tree of a document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.DocumentNames(),
		Run: func(cmd *cobra.Command, args []string) {
			doc, err := servicelocator.GetDocumentStore().Load(args[0])
			if err != nil {
				feedback.Fatal(err.Error(), cmdutil.ExitCode(err))
				return
			}
			feedback.PrintResult(showResult(newDocumentData(doc)))
		},
	}
}

type showResult documentData

func (r showResult) String() string {
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	var walk func(n *scene.Node)
	walk = func(n *scene.Node) {
		l.AppendItem(describeNode(n, slices.Contains(r.Selection, n.ID)))
		if len(n.Children) == 0 {
			return
		}
		l.Indent()
		for _, c := range n.Children {
			walk(c)
		}
		l.UnIndent()
	}
	for _, c := range r.Page.Children {
		walk(c)
	}
	if l.Length() == 0 {
		return fmt.Sprintf("%s (empty)", r.Name)
	}
	return r.Name + "\n" + l.Render()
}

func (r showResult) Data() any {
	return documentData(r)
}

func describeNode(n *scene.Node, selected bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q %gx%g", n.Type, n.Name, n.Width, n.Height)
	if n.Type == scene.TypeText && n.Characters != "" {
		fmt.Fprintf(&b, " %q", truncate(n.Characters, 40))
	}
	if n.LayoutMode != "" && n.LayoutMode != "NONE" {
		b.WriteString(" [" + strings.ToLower(n.LayoutMode) + "]")
	}
	if selected {
		b.WriteString(" (selected)")
	}
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
