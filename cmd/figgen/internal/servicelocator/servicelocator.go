// Package servicelocator builds, once per process, the services the figgen
// commands share.
package servicelocator

import (
	"log/slog"
	"sync"

	"go.bug.st/f"

	"github.com/figgen/figgen-cli/internal/api/handlers"
	"github.com/figgen/figgen-cli/internal/config"
	"github.com/figgen/figgen-cli/internal/coordinator"
	"github.com/figgen/figgen-cli/internal/errhandler"
	"github.com/figgen/figgen-cli/internal/framemanager"
	"github.com/figgen/figgen-cli/internal/gemini"
	"github.com/figgen/figgen-cli/internal/nodefactory"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/store"
)

var (
	cfg config.Configuration

	GetPresetRegistry = sync.OnceValue(func() *preset.Registry {
		if file := cfg.PresetsFile(); file != nil {
			slog.Debug("Using presets file", slog.String("file", file.String()))
			return f.Must(preset.LoadFile(file))
		}
		return preset.Default()
	})

	GetErrorHandler = sync.OnceValue(func() *errhandler.Handler {
		return errhandler.New(slog.Default())
	})

	GetFrameManager = sync.OnceValue(func() *framemanager.Manager {
		reg := GetPresetRegistry()
		return framemanager.New(reg, nodefactory.New(reg, slog.Default()), slog.Default())
	})

	GetDocumentStore = sync.OnceValue(func() *store.DocumentStore {
		return store.New(cfg.DocumentsDir())
	})

	GetCoordinator = sync.OnceValue(func() *coordinator.Coordinator {
		reg := GetPresetRegistry()
		opts := []gemini.Option{gemini.WithLogger(slog.Default())}
		if baseURL := cfg.BaseURL(); baseURL != "" {
			opts = append(opts, gemini.WithBaseURL(baseURL))
		}
		return coordinator.New(reg, GetFrameManager(), GetErrorHandler(),
			coordinator.WithStrictValidation(cfg.StrictValidation()),
			coordinator.WithGeneratorFactory(func(apiKey string, onRetry gemini.RetryFunc) coordinator.Generator {
				return gemini.NewClient(apiKey, reg, append(opts, gemini.WithRetryHook(onRetry))...)
			}),
		)
	})
)

// GetGenerateDefaults returns the values used for the fields a generate
// request leaves empty: the configuration first, then the registry.
func GetGenerateDefaults() handlers.GenerateDefaults {
	reg := GetPresetRegistry()
	d := handlers.GenerateDefaults{
		APIKey: cfg.APIKey(),
		Model:  cfg.Model(),
		Device: cfg.Device(),
	}
	if d.Model == "" {
		d.Model = reg.DefaultModel
	}
	if d.Device == "" {
		d.Device = string(reg.DefaultDevice)
	}
	return d
}

// Init sets the configuration the services are built from. It must be
// called before any getter.
func Init(c config.Configuration) {
	cfg = c
}

func GetConfiguration() config.Configuration {
	return cfg
}
