package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	cfg "github.com/figgen/figgen-cli/internal/config"
)

func NewConfigCmd(configuration cfg.Configuration) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage figgen config",
	}

	configCmd.AddCommand(newConfigGetCmd(configuration))

	return configCmd
}

func newConfigGetCmd(configuration cfg.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "get configuration",
		Run: func(cmd *cobra.Command, args []string) {
			getConfigHandler(configuration)
		},
	}
}

func getConfigHandler(configuration cfg.Configuration) {
	defaults := servicelocator.GetGenerateDefaults()
	res := configResult{
		Directories: directories{
			Config:    configuration.ConfigDir().String(),
			Data:      configuration.DataDir().String(),
			Documents: configuration.DocumentsDir().String(),
			Exports:   configuration.ExportsDir().String(),
		},
		APIKey:           configuration.MaskedAPIKey(),
		BaseURL:          configuration.BaseURL(),
		Model:            defaults.Model,
		Device:           defaults.Device,
		Locale:           configuration.Locale(),
		StrictValidation: configuration.StrictValidation(),
	}
	if file := configuration.ConfigFile(); file != nil {
		res.ConfigFile = file.String()
	}
	if file := configuration.PresetsFile(); file != nil {
		res.PresetsFile = file.String()
	}
	feedback.PrintResult(res)
}

type directories struct {
	Config    string `json:"config"`
	Data      string `json:"data"`
	Documents string `json:"documents"`
	Exports   string `json:"exports"`
}

type configResult struct {
	Directories      directories `json:"directories"`
	ConfigFile       string      `json:"config_file,omitempty"`
	PresetsFile      string      `json:"presets_file,omitempty"`
	APIKey           string      `json:"api_key,omitempty"`
	BaseURL          string      `json:"base_url,omitempty"`
	Model            string      `json:"model"`
	Device           string      `json:"device"`
	Locale           string      `json:"locale,omitempty"`
	StrictValidation bool        `json:"strict_validation"`
}

func (r configResult) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Config Directory:    %s\n", r.Directories.Config)
	fmt.Fprintf(&b, "Data Directory:      %s\n", r.Directories.Data)
	fmt.Fprintf(&b, "Documents Directory: %s\n", r.Directories.Documents)
	fmt.Fprintf(&b, "Exports Directory:   %s\n", r.Directories.Exports)
	if r.ConfigFile != "" {
		fmt.Fprintf(&b, "Config File:         %s\n", r.ConfigFile)
	}
	if r.PresetsFile != "" {
		fmt.Fprintf(&b, "Presets File:        %s\n", r.PresetsFile)
	}
	apiKey := r.APIKey
	if apiKey == "" {
		apiKey = "(not set)"
	}
	fmt.Fprintf(&b, "API Key:             %s\n", apiKey)
	if r.BaseURL != "" {
		fmt.Fprintf(&b, "Base URL:            %s\n", r.BaseURL)
	}
	fmt.Fprintf(&b, "Model:               %s\n", r.Model)
	fmt.Fprintf(&b, "Device:              %s\n", r.Device)
	fmt.Fprintf(&b, "Strict Validation:   %t\n", r.StrictValidation)

	return b.String()
}

func (r configResult) Data() any {
	return r
}
