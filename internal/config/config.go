// Package config resolves the figgen settings from the environment, an
// optional .env file and an optional figgen.yaml in the config directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/arduino/go-paths-helper"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "FIGGEN__"
	configFileName = "figgen"
	configFileType = "yaml"
)

// Setting keys, as written in figgen.yaml. The environment variable of a key
// is EnvPrefix followed by the uppercased key.
const (
	KeyDataDir          = "data_dir"
	KeyAPIKey           = "api_key"
	KeyBaseURL          = "base_url"
	KeyModel            = "model"
	KeyDevice           = "device"
	KeyLocale           = "locale"
	KeyPresetsFile      = "presets_file"
	KeyStrictValidation = "strict_validation"
)

type Configuration struct {
	configDir        *paths.Path
	dataDir          *paths.Path
	configFile       *paths.Path
	presetsFile      *paths.Path
	apiKey           string
	baseURL          string
	model            string
	device           string
	locale           string
	strictValidation bool
}

// LoadDotEnv loads the given .env files, or .env in the working directory,
// into the process environment. Missing files are ignored and variables
// already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot load %s: %w", file, err)
		}
	}
	return nil
}

func NewFromEnv() (Configuration, error) {
	configDir := paths.New(os.Getenv(EnvPrefix + "CONFIG_DIR"))
	if configDir == nil {
		xdgConfig, err := os.UserConfigDir()
		if err != nil {
			return Configuration{}, err
		}
		configDir = paths.New(xdgConfig).Join("figgen")
	}
	configDir, err := absolute(configDir)
	if err != nil {
		return Configuration{}, err
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir.String())
	bindings := map[string][]string{
		KeyDataDir:          {EnvPrefix + "DATA_DIR"},
		KeyAPIKey:           {EnvPrefix + "API_KEY", "GEMINI_API_KEY"},
		KeyBaseURL:          {EnvPrefix + "BASE_URL"},
		KeyModel:            {EnvPrefix + "MODEL"},
		KeyDevice:           {EnvPrefix + "DEVICE"},
		KeyLocale:           {EnvPrefix + "LOCALE"},
		KeyPresetsFile:      {EnvPrefix + "PRESETS_FILE"},
		KeyStrictValidation: {EnvPrefix + "STRICT_VALIDATION"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Configuration{}, err
		}
	}

	var configFile *paths.Path
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Configuration{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		configFile = paths.New(v.ConfigFileUsed())
		slog.Debug("Using configuration file", slog.String("file", configFile.String()))
	}

	dataDir := paths.New(v.GetString(KeyDataDir))
	if dataDir == nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return Configuration{}, err
		}
		dataDir = paths.New(home).Join(".local", "share", "figgen")
	}
	if dataDir, err = absolute(dataDir); err != nil {
		return Configuration{}, err
	}

	presetsFile := paths.New(v.GetString(KeyPresetsFile))
	if presetsFile != nil {
		if presetsFile, err = absolute(presetsFile); err != nil {
			return Configuration{}, err
		}
	}

	c := Configuration{
		configDir:        configDir,
		dataDir:          dataDir,
		configFile:       configFile,
		presetsFile:      presetsFile,
		apiKey:           strings.TrimSpace(v.GetString(KeyAPIKey)),
		baseURL:          v.GetString(KeyBaseURL),
		model:            v.GetString(KeyModel),
		device:           v.GetString(KeyDevice),
		locale:           v.GetString(KeyLocale),
		strictValidation: v.GetBool(KeyStrictValidation),
	}
	if err := c.init(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

func absolute(p *paths.Path) (*paths.Path, error) {
	if p.IsAbs() {
		return p, nil
	}
	wd, err := paths.Getwd()
	if err != nil {
		return nil, err
	}
	return wd.JoinPath(p), nil
}

func (c *Configuration) init() error {
	return c.DocumentsDir().MkdirAll()
}

func (c *Configuration) ConfigDir() *paths.Path {
	return c.configDir
}

// ConfigFile returns the figgen.yaml in use, or nil when there is none.
func (c *Configuration) ConfigFile() *paths.Path {
	return c.configFile
}

func (c *Configuration) DataDir() *paths.Path {
	return c.dataDir
}

func (c *Configuration) DocumentsDir() *paths.Path {
	return c.dataDir.Join("documents")
}

func (c *Configuration) ExportsDir() *paths.Path {
	return c.dataDir.Join("exports")
}

// PresetsFile returns the preset registry overriding the embedded one, or nil.
func (c *Configuration) PresetsFile() *paths.Path {
	return c.presetsFile
}

func (c *Configuration) APIKey() string {
	return c.apiKey
}

// BaseURL returns the generation endpoint base, empty for the default one.
func (c *Configuration) BaseURL() string {
	return c.baseURL
}

// Model returns the default model id, empty to use the registry default.
func (c *Configuration) Model() string {
	return c.model
}

// Device returns the default device type, empty to use the registry default.
func (c *Configuration) Device() string {
	return c.device
}

func (c *Configuration) Locale() string {
	return c.locale
}

func (c *Configuration) StrictValidation() bool {
	return c.strictValidation
}

// MaskedAPIKey shows only the first and last characters of the API key.
func (c *Configuration) MaskedAPIKey() string {
	const visible = 4
	if len(c.apiKey) <= 2*visible {
		return strings.Repeat("*", len(c.apiKey))
	}
	return c.apiKey[:visible] + strings.Repeat("*", len(c.apiKey)-2*visible) + c.apiKey[len(c.apiKey)-visible:]
}
