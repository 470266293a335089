package completion

import (
	"os"

	"github.com/spf13/cobra"
	"go.bug.st/f"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/store"
)

func NewCompletionCommand() *cobra.Command {
	completionCmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		Short:     "Generates completion scripts",
		Long:      "Generates completion scripts for various shells",
		Example: "  " + os.Args[0] + " completion bash > completion.sh\n" +
			"  " + "source completion.sh",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout, _, err := feedback.DirectStreams()
			if err != nil {
				feedback.Fatal(err.Error(), feedback.ErrBadArgument)
				return nil
			}
			completionNoDesc, _ := cmd.Flags().GetBool("no-descriptions")

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(stdout, !completionNoDesc)
			case "zsh":
				if completionNoDesc {
					return cmd.Root().GenZshCompletionNoDesc(stdout)
				}
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, !completionNoDesc)
			case "powershell":
				return cmd.Root().GenPowerShellCompletion(stdout)
			default:
				return cmd.Usage()
			}
		},
	}

	completionCmd.Flags().Bool("no-descriptions", false, "Disable completion description for shells that support it")

	return completionCmd
}

// DocumentNames completes the names of the stored documents.
func DocumentNames() cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		docs, err := servicelocator.GetDocumentStore().List()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return f.Map(docs, func(d store.DocumentInfo) string { return d.Name }), cobra.ShellCompDirectiveNoFileComp
	}
}

func ModelIDs() cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return servicelocator.GetPresetRegistry().ModelIDs(), cobra.ShellCompDirectiveNoFileComp
	}
}

func DeviceTypes() cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return f.Map(servicelocator.GetPresetRegistry().GetDevices(), func(d preset.Device) string {
			return string(d.Type)
		}), cobra.ShellCompDirectiveNoFileComp
	}
}
