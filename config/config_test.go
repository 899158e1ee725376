package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientConfig(t *testing.T) {
	t.Run("strips trailing slashes", func(t *testing.T) {
		cfg, err := NewClientConfig("https://abc123.ngrok.io//", 30*time.Second, "out")
		require.NoError(t, err)
		assert.Equal(t, "https://abc123.ngrok.io", cfg.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, DefaultHealthTimeout, cfg.HealthTimeout)
		assert.Equal(t, "out", cfg.OutputDir)
	})

	t.Run("rejects an empty url", func(t *testing.T) {
		_, err := NewClientConfig("  ", time.Second, "")
		assert.ErrorIs(t, err, ErrAPIURLRequired)
	})

	t.Run("fills defaults", func(t *testing.T) {
		cfg, err := NewClientConfig("http://localhost:8000", 0, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, cfg.Timeout)
		assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	})
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	assert.Equal(t, 500, l.MaxPromptLength)
	assert.Equal(t, 256, l.MinSize)
	assert.Equal(t, 1024, l.MaxSize)
	assert.Equal(t, 1, l.MinSteps)
	assert.Equal(t, 100, l.MaxSteps)
	assert.Equal(t, 1.0, l.MinGuidance)
	assert.Equal(t, 20.0, l.MaxGuidance)

	l.MaxSize = 1
	assert.Equal(t, 1024, DefaultLimits().MaxSize, "limits are returned by value")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("SD_API_URL", "")
		flags := NewFlagSet("test")
		require.NoError(t, flags.Parse(nil))

		cfg, err := Load(flags)
		require.NoError(t, err)

		assert.Equal(t, DefaultWidth, cfg.Width)
		assert.Equal(t, DefaultHeight, cfg.Height)
		assert.Equal(t, DefaultSteps, cfg.Steps)
		assert.Equal(t, DefaultGuidanceScale, cfg.GuidanceScale)
		assert.Equal(t, DefaultTimeout, cfg.Timeout())
		assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
		assert.Equal(t, DefaultRandomWords, cfg.RandomWords)
		assert.Nil(t, cfg.Seed)
		assert.Equal(t, DefaultLimits(), cfg.Limits)

		_, err = cfg.ClientConfig()
		assert.ErrorIs(t, err, ErrAPIURLRequired)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("SD_API_URL", "https://env.ngrok.io/")
		t.Setenv("SD_OUTPUT_DIR", "from-env")
		t.Setenv("SD_SEED", "1234")
		flags := NewFlagSet("test")
		require.NoError(t, flags.Parse(nil))

		cfg, err := Load(flags)
		require.NoError(t, err)

		assert.Equal(t, "https://env.ngrok.io/", cfg.APIURL)
		assert.Equal(t, "from-env", cfg.OutputDir)
		require.NotNil(t, cfg.Seed)
		assert.Equal(t, int64(1234), *cfg.Seed)

		cc, err := cfg.ClientConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://env.ngrok.io", cc.BaseURL)
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("SD_API_URL", "https://env.ngrok.io")
		flags := NewFlagSet("test")
		require.NoError(t, flags.Parse([]string{
			"-u", "https://flag.ngrok.io",
			"-w", "768",
			"-h", "640",
			"-g", "12.5",
			"--seed", "42",
			"--no-save",
			"a", "cat",
		}))

		cfg, err := Load(flags)
		require.NoError(t, err)

		assert.Equal(t, "https://flag.ngrok.io", cfg.APIURL)
		assert.Equal(t, 768, cfg.Width)
		assert.Equal(t, 640, cfg.Height)
		assert.Equal(t, 12.5, cfg.GuidanceScale)
		assert.True(t, cfg.NoSave)
		require.NotNil(t, cfg.Seed)
		assert.Equal(t, int64(42), *cfg.Seed)
		assert.Equal(t, []string{"a", "cat"}, flags.Args())
	})

	t.Run("config file sits below environment", func(t *testing.T) {
		t.Setenv("SD_API_URL", "")
		t.Setenv("SD_STEPS", "60")
		path := filepath.Join(t.TempDir(), "sdgen.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"api-url": "http://file:7860", "steps": 40, "width": 1024}`), 0o644))

		flags := NewFlagSet("test")
		require.NoError(t, flags.Parse([]string{"--config", path}))

		cfg, err := Load(flags)
		require.NoError(t, err)

		assert.Equal(t, "http://file:7860", cfg.APIURL)
		assert.Equal(t, 1024, cfg.Width)
		assert.Equal(t, 60, cfg.Steps)
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		flags := NewFlagSet("test")
		require.NoError(t, flags.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))

		_, err := Load(flags)
		assert.Error(t, err)
	})
}
