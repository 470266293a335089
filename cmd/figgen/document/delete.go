package document

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/completion"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/cmdutil"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "delete document",
		Short:             "Delete a document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.DocumentNames(),
		Run: func(cmd *cobra.Command, args []string) {
			if err := servicelocator.GetDocumentStore().Delete(args[0]); err != nil {
				feedback.Fatal(err.Error(), cmdutil.ExitCode(err))
				return
			}
			feedback.PrintResult(deleteResult{Document: args[0], Status: "deleted"})
		},
	}
}

type deleteResult struct {
	Document string `json:"document"`
	Status   string `json:"status"`
}

func (r deleteResult) String() string {
	return fmt.Sprintf("✓ Document %q deleted", r.Document)
}

func (r deleteResult) Data() any {
	return r
}
