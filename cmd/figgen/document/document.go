package document

import (
	"github.com/spf13/cobra"

	cfg "github.com/figgen/figgen-cli/internal/config"
	"github.com/figgen/figgen-cli/internal/scene"
)

func NewDocumentCmd(configuration cfg.Configuration) *cobra.Command {
	documentCmd := &cobra.Command{
		Use:     "document",
		Aliases: []string{"doc"},
		Short:   "Manage the stored design documents",
	}

	documentCmd.AddCommand(
		newListCmd(),
		newShowCmd(),
		newSelectCmd(),
		newDeleteCmd(),
		newExportCmd(configuration),
	)

	return documentCmd
}

type documentData struct {
	Name      string      `json:"name"`
	Page      *scene.Node `json:"page"`
	Selection []string    `json:"selection"`
}

func newDocumentData(doc *scene.MemoryDocument) documentData {
	ids := []string{}
	for _, n := range doc.Selection() {
		ids = append(ids, n.ID)
	}
	return documentData{Name: doc.Name(), Page: doc.CurrentPage(), Selection: ids}
}
