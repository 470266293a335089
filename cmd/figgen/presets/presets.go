package presets

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/pkg/tablestyle"
)

func NewPresetsCmd() *cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "Show the device profiles and the generation models",
	}

	presetsCmd.AddCommand(
		&cobra.Command{
			Use:   "devices",
			Short: "List the device profiles",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				reg := servicelocator.GetPresetRegistry()
				feedback.PrintResult(deviceListResult{
					Devices:       reg.GetDevices(),
					DefaultDevice: string(reg.DefaultDevice),
				})
			},
		},
		&cobra.Command{
			Use:   "models",
			Short: "List the generation models",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				reg := servicelocator.GetPresetRegistry()
				feedback.PrintResult(modelListResult{
					Models:       reg.GetModels(),
					DefaultModel: reg.DefaultModel,
				})
			},
		},
	)
	return presetsCmd
}

type deviceListResult struct {
	Devices       []preset.Device `json:"devices"`
	DefaultDevice string          `json:"default_device"`
}

func (r deviceListResult) String() string {
	t := tablestyle.New(table.Row{"TYPE", "SIZE", "MARGIN", "BUTTON HEIGHT", "TITLE", "TEXT", "SMALL"}, 3, 6, 7)
	for _, d := range r.Devices {
		name := string(d.Type)
		if name == r.DefaultDevice {
			name += " (default)"
		}
		t.AppendRow(table.Row{
			name,
			fmt.Sprintf("%dx%d", d.Width, d.Height),
			d.Margin,
			fmt.Sprintf("%d-%d", d.Buttons.MinHeight, d.Buttons.MaxHeight),
			titleSize(d.Typography),
			d.Typography.Text,
			d.Typography.Small,
		})
	}
	return t.Render()
}

func titleSize(t preset.Typography) string {
	if t.TitleMax > 0 {
		return fmt.Sprintf("%d-%d", t.Title, t.TitleMax)
	}
	return fmt.Sprint(t.Title)
}

func (r deviceListResult) Data() any {
	return r
}

type modelListResult struct {
	Models       []preset.Model `json:"models"`
	DefaultModel string         `json:"default_model"`
}

func (r modelListResult) String() string {
	t := tablestyle.New(table.Row{"ID", "NAME", "DEFAULT"})
	for _, m := range r.Models {
		def := ""
		if m.ID == r.DefaultModel {
			def = "✓"
		}
		t.AppendRow(table.Row{m.ID, m.Name, def})
	}
	return t.Render()
}

func (r modelListResult) Data() any {
	return r
}
