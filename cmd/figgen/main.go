package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.bug.st/cleanup"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/completion"
	"github.com/figgen/figgen-cli/cmd/figgen/config"
	contextcmd "github.com/figgen/figgen-cli/cmd/figgen/context"
	"github.com/figgen/figgen-cli/cmd/figgen/daemon"
	"github.com/figgen/figgen-cli/cmd/figgen/document"
	"github.com/figgen/figgen-cli/cmd/figgen/generate"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	"github.com/figgen/figgen-cli/cmd/figgen/presets"
	"github.com/figgen/figgen-cli/cmd/figgen/version"
	"github.com/figgen/figgen-cli/cmd/figgen/watch"
	cfg "github.com/figgen/figgen-cli/internal/config"
	"github.com/figgen/figgen-cli/internal/i18n"
)

// Version will be set a build time with -ldflags
var Version string = "0.0.0-dev"
var format string
var logLevelStr string

func run(configuration cfg.Configuration) error {
	servicelocator.Init(configuration)
	i18n.SetLocale(configuration.Locale())

	rootCmd := &cobra.Command{
		Use:   "figgen",
		Short: "Generate interface designs from natural language prompts",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			format, ok := feedback.ParseOutputFormat(format)
			if !ok {
				feedback.Fatal(i18n.Tr("Invalid output format: %s", format), feedback.ErrBadArgument)
			}
			feedback.SetFormat(format)

			logLevel, err := ParseLogLevel(logLevelStr)
			if err != nil {
				feedback.FatalError(err, feedback.ErrBadArgument)
			}
			slog.SetLogLoggerLevel(logLevel)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "Output format (text, json, jsonmini, yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelStr, "log-level", "error", "Set the log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		completion.NewCompletionCommand(),
		config.NewConfigCmd(configuration),
		contextcmd.NewContextCmd(),
		daemon.NewDaemonCmd(Version),
		document.NewDocumentCmd(configuration),
		generate.NewGenerateCmd(),
		presets.NewPresetsCmd(),
		version.NewVersionCmd(Version),
		watch.NewWatchCmd(),
	)

	ctx := context.Background()
	ctx, _ = cleanup.InterruptableContext(ctx)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	if err := cfg.LoadDotEnv(".env"); err != nil {
		feedback.Fatal(fmt.Sprintf("invalid .env file: %s", err), feedback.ErrGeneric)
	}
	configuration, err := cfg.NewFromEnv()
	if err != nil {
		feedback.Fatal(fmt.Sprintf("invalid config: %s", err), feedback.ErrGeneric)
	}

	if err := run(configuration); err != nil {
		feedback.FatalError(err, feedback.ErrGeneric)
	}
}

func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(level))
	if err != nil {
		return 0, fmt.Errorf("invalid log level: %w", err)
	}
	return l, nil
}
