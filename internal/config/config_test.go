package config

import (
	"os"
	"testing"

	"github.com/arduino/go-paths-helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDirs(t *testing.T) (configDir, dataDir *paths.Path) {
	root := paths.New(t.TempDir())
	configDir, dataDir = root.Join("config"), root.Join("data")
	t.Setenv("FIGGEN__CONFIG_DIR", configDir.String())
	t.Setenv("FIGGEN__DATA_DIR", dataDir.String())
	for _, name := range []string{"API_KEY", "BASE_URL", "MODEL", "DEVICE", "LOCALE", "PRESETS_FILE", "STRICT_VALIDATION"} {
		t.Setenv("FIGGEN__"+name, "")
	}
	t.Setenv("GEMINI_API_KEY", "")
	return configDir, dataDir
}

func TestNewFromEnv(t *testing.T) {
	t.Run("environment only", func(t *testing.T) {
		configDir, dataDir := setupDirs(t)
		t.Setenv("FIGGEN__API_KEY", " AIzaFromEnv ")
		t.Setenv("FIGGEN__STRICT_VALIDATION", "true")

		c, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, configDir, c.ConfigDir())
		assert.Equal(t, dataDir, c.DataDir())
		assert.True(t, c.DocumentsDir().IsDir())
		assert.Nil(t, c.ConfigFile())
		assert.Nil(t, c.PresetsFile())
		assert.Equal(t, "AIzaFromEnv", c.APIKey())
		assert.True(t, c.StrictValidation())
		assert.Empty(t, c.Model())
	})

	t.Run("config file and fallback key", func(t *testing.T) {
		configDir, _ := setupDirs(t)
		require.NoError(t, configDir.MkdirAll())
		require.NoError(t, configDir.Join("figgen.yaml").WriteFile([]byte(
			"model: gemini-1.5-pro\ndevice: tablet\nlocale: es\nbase_url: http://localhost:9999\n",
		)))
		t.Setenv("GEMINI_API_KEY", "AIzaFallback")
		t.Setenv("FIGGEN__DEVICE", "desktop")

		c, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, configDir.Join("figgen.yaml"), c.ConfigFile())
		assert.Equal(t, "AIzaFallback", c.APIKey())
		assert.Equal(t, "gemini-1.5-pro", c.Model())
		assert.Equal(t, "desktop", c.Device())
		assert.Equal(t, "es", c.Locale())
		assert.Equal(t, "http://localhost:9999", c.BaseURL())
	})

	t.Run("prefixed key wins over the fallback", func(t *testing.T) {
		setupDirs(t)
		t.Setenv("FIGGEN__API_KEY", "AIzaPrimary")
		t.Setenv("GEMINI_API_KEY", "AIzaFallback")

		c, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "AIzaPrimary", c.APIKey())
	})

	t.Run("malformed config file", func(t *testing.T) {
		configDir, _ := setupDirs(t)
		require.NoError(t, configDir.MkdirAll())
		require.NoError(t, configDir.Join("figgen.yaml").WriteFile([]byte("model: [unterminated\n")))

		_, err := NewFromEnv()
		require.ErrorContains(t, err, "error reading config file")
	})
}

func TestLoadDotEnv(t *testing.T) {
	setupDirs(t)
	dir := paths.New(t.TempDir())
	env := dir.Join("test.env")
	require.NoError(t, env.WriteFile([]byte("FIGGEN__MODEL=gemini-2.0-flash\nFIGGEN__LOCALE=es\n")))
	t.Setenv("FIGGEN__LOCALE", "en")
	// Variables already present, even empty, are never overridden.
	require.NoError(t, os.Unsetenv("FIGGEN__MODEL"))

	require.NoError(t, LoadDotEnv(env.String(), dir.Join("missing.env").String()))
	c, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", c.Model())
	assert.Equal(t, "en", c.Locale())
}

func TestMaskedAPIKey(t *testing.T) {
	c := Configuration{apiKey: "AIzaSyA1234567890"}
	assert.Equal(t, "AIza*********7890", c.MaskedAPIKey())
	c.apiKey = "short"
	assert.Equal(t, "*****", c.MaskedAPIKey())
}
