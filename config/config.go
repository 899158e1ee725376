package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrAPIURLRequired = errors.New("API URL is required")

const (
	EnvPrefix  = "SD"
	ConfigName = "sdgen"

	DefaultWidth         = 512
	DefaultHeight        = 512
	DefaultSteps         = 25
	DefaultGuidanceScale = 7.5
	DefaultTimeout       = 180 * time.Second
	DefaultHealthTimeout = 10 * time.Second
	DefaultOutputDir     = "generated_images"
	DefaultRandomWords   = 10
)

// Limits are the accepted bounds for a generation request.
type Limits struct {
	MaxPromptLength int

	MinSize int
	MaxSize int

	MinSteps int
	MaxSteps int

	MinGuidance float64
	MaxGuidance float64
}

func DefaultLimits() Limits {
	return Limits{
		MaxPromptLength: 500,
		MinSize:         256,
		MaxSize:         1024,
		MinSteps:        1,
		MaxSteps:        100,
		MinGuidance:     1.0,
		MaxGuidance:     20.0,
	}
}

// ClientConfig is what the API client needs to reach the service.
type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	HealthTimeout time.Duration
	OutputDir     string
}

func NewClientConfig(baseURL string, timeout time.Duration, outputDir string) (ClientConfig, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return ClientConfig{}, ErrAPIURLRequired
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	return ClientConfig{
		BaseURL:       baseURL,
		Timeout:       timeout,
		HealthTimeout: DefaultHealthTimeout,
		OutputDir:     outputDir,
	}, nil
}

// Config is the merged result of flags, environment, .env and config file.
type Config struct {
	APIURL         string  `mapstructure:"api-url"`
	Width          int     `mapstructure:"width"`
	Height         int     `mapstructure:"height"`
	Steps          int     `mapstructure:"steps"`
	GuidanceScale  float64 `mapstructure:"guidance"`
	NegativePrompt string  `mapstructure:"negative"`
	TimeoutSeconds int     `mapstructure:"timeout"`
	OutputDir      string  `mapstructure:"output-dir"`
	NoSave         bool    `mapstructure:"no-save"`
	Open           bool    `mapstructure:"open"`
	RandomWords    int     `mapstructure:"words"`
	Verbose        bool    `mapstructure:"verbose"`

	Seed   *int64 `mapstructure:"-"`
	Limits Limits `mapstructure:"-"`
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) ClientConfig() (ClientConfig, error) {
	return NewClientConfig(c.APIURL, c.Timeout(), c.OutputDir)
}

// NewFlagSet declares every option the CLI understands. Parsing is left to
// the caller so tests can feed their own arguments.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SortFlags = false

	flags.StringP("api-url", "u", "", "API URL (ngrok URL). Can also set SD_API_URL env var")
	flags.IntP("width", "w", DefaultWidth, "Image width (256-1024)")
	flags.IntP("height", "h", DefaultHeight, "Image height (256-1024)")
	flags.IntP("steps", "s", DefaultSteps, "Number of inference steps (1-100)")
	flags.Float64P("guidance", "g", DefaultGuidanceScale, "Guidance scale (1.0-20.0)")
	flags.Int64("seed", 0, "Random seed for reproducibility")
	flags.StringP("negative", "n", "", "Negative prompt (things to avoid)")
	flags.IntP("timeout", "t", int(DefaultTimeout/time.Second), "Request timeout in seconds")
	flags.StringP("output-dir", "o", DefaultOutputDir, "Output directory")
	flags.Bool("no-save", false, "Don't save image locally")
	flags.Bool("open", false, "Open the saved image in the system viewer")
	flags.Int("words", DefaultRandomWords, "Number of words used by the random command")
	flags.String("config", "", "Config file (default ./sdgen.{json,yaml,toml})")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	return flags
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("api-url", "")
	v.SetDefault("width", DefaultWidth)
	v.SetDefault("height", DefaultHeight)
	v.SetDefault("steps", DefaultSteps)
	v.SetDefault("guidance", DefaultGuidanceScale)
	v.SetDefault("negative", "")
	v.SetDefault("timeout", int(DefaultTimeout/time.Second))
	v.SetDefault("output-dir", DefaultOutputDir)
	v.SetDefault("no-save", false)
	v.SetDefault("open", false)
	v.SetDefault("words", DefaultRandomWords)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load merges, highest priority first: flags, environment (SD_*), a .env
// file in the working directory, the config file and the defaults.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("unable to read .env file: %w", err)
	}

	v := newViper()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("unable to bind flags: %w", err)
		}
	}

	if err := readConfigFile(v, flags); err != nil {
		return nil, err
	}

	cfg := &Config{Limits: DefaultLimits()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if v.IsSet("seed") {
		seed := v.GetInt64("seed")
		cfg.Seed = &seed
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	explicit := ""
	if flags != nil {
		explicit, _ = flags.GetString("config")
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, ConfigName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("unable to open config file: %w", err)
	}

	return nil
}
