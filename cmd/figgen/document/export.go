package document

import (
	"encoding/json"
	"fmt"

	"github.com/arduino/go-paths-helper"
	"github.com/goccy/go-yaml"
	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/completion"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/cmdutil"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	cfg "github.com/figgen/figgen-cli/internal/config"
	"github.com/figgen/figgen-cli/internal/fatomic"
)

func newExportCmd(configuration cfg.Configuration) *cobra.Command {
	var (
		exportFormat string
		output       string
	)
	cmd := &cobra.Command{
		Use:               "export document",
		Short:             "Export the node tree of a document as JSON or YAML",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.DocumentNames(),
		Run: func(cmd *cobra.Command, args []string) {
			doc, err := servicelocator.GetDocumentStore().Load(args[0])
			if err != nil {
				feedback.Fatal(err.Error(), cmdutil.ExitCode(err))
				return
			}
			data, err := encodeDocument(newDocumentData(doc), exportFormat)
			if err != nil {
				feedback.Fatal(err.Error(), feedback.ErrBadArgument)
				return
			}

			target := paths.New(output)
			if target == nil {
				target = configuration.ExportsDir().Join(slug.Make(doc.Name()) + "." + exportFormat)
			}
			if err := target.Parent().MkdirAll(); err != nil {
				feedback.Fatal(err.Error(), feedback.ErrGeneric)
				return
			}
			if err := fatomic.WriteFile(target, data, 0o644); err != nil {
				feedback.Fatal(fmt.Sprintf("cannot write %s: %v", target, err), feedback.ErrGeneric)
				return
			}
			feedback.PrintResult(exportResult{Document: doc.Name(), File: target.String(), Format: exportFormat})
		},
	}
	cmd.Flags().StringVar(&exportFormat, "to", "json", "Export format, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default: <data dir>/exports/<document>.<format>)")
	_ = cmd.RegisterFlagCompletionFunc("to", cobra.FixedCompletions([]string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func encodeDocument(data documentData, format string) ([]byte, error) {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return append(encoded, '\n'), nil
	case "yaml":
		return yaml.JSONToYAML(encoded)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

type exportResult struct {
	Document string `json:"document"`
	File     string `json:"file"`
	Format   string `json:"format"`
}

func (r exportResult) String() string {
	return fmt.Sprintf("✓ Document %q exported to %s", r.Document, r.File)
}

func (r exportResult) Data() any {
	return r
}
