package document

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/cmdutil"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	"github.com/figgen/figgen-cli/internal/store"
	"github.com/figgen/figgen-cli/pkg/tablestyle"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored documents",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			docs, err := servicelocator.GetDocumentStore().List()
			if err != nil {
				feedback.Fatal(err.Error(), cmdutil.ExitCode(err))
				return
			}
			feedback.PrintResult(documentListResult{Documents: docs})
		},
	}
}

type documentListResult struct {
	Documents []store.DocumentInfo `json:"documents"`
}

func (r documentListResult) String() string {
	if len(r.Documents) == 0 {
		return "No documents yet. Create one with `figgen generate`."
	}
	t := tablestyle.New(table.Row{"NAME", "FRAMES", "SIZE", "MODIFIED", "FILE"}, 2, 3)
	for _, d := range r.Documents {
		t.AppendRow(table.Row{
			d.Name,
			d.Frames,
			toHumanKiB(d.Size),
			d.Modified.Format("2006-01-02 15:04"),
			d.File,
		})
	}
	return t.Render()
}

func (r documentListResult) Data() any {
	return r
}

func toHumanKiB(bytes int64) string {
	return strconv.FormatFloat(float64(bytes)/1024.0, 'f', 1, 64) + "KiB"
}
