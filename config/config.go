package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/UrikGon/gen-ai-workshop/llm/bedrock"
)

// DefaultEnvPrefix is the prefix for environment variable overrides.
const DefaultEnvPrefix = "GENAI"

// Config is the full module configuration.
type Config struct {
	// Bedrock configures the adapter client.
	Bedrock bedrock.Config `yaml:"bedrock"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`

	// MetricsNamespace prefixes the exported metric names.
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Development switches to the human-readable console encoder.
	Development bool `yaml:"development"`
}

// Default returns the configuration with all defaults applied.
func Default() Config {
	return Config{
		Bedrock:          bedrock.DefaultConfig(),
		Log:              LogConfig{Level: "info"},
		MetricsNamespace: "genai",
	}
}

// Loader loads configuration with the precedence
// defaults → YAML file → environment.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a loader with the default env prefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: DefaultEnvPrefix}
}

// WithConfigPath sets the YAML file to load. A missing file is not an
// error; the file is simply skipped.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix overrides the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load resolves the configuration.
func (l *Loader) Load() (Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		switch {
		case os.IsNotExist(err):
			// optional file
		case err != nil:
			return cfg, fmt.Errorf("read config file %s: %w", l.configPath, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config file %s: %w", l.configPath, err)
			}
		}
	}

	l.applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides individual fields from the environment.
func (l *Loader) applyEnv(cfg *Config) {
	if v := l.env("REGION"); v != "" {
		cfg.Bedrock.Region = v
	}
	if v := l.env("BASE_URL"); v != "" {
		cfg.Bedrock.BaseURL = v
	}
	if v := l.env("IMAGE_MODEL"); v != "" {
		cfg.Bedrock.ImageModel = v
	}
	if v := l.env("VISION_MODEL"); v != "" {
		cfg.Bedrock.VisionModel = v
	}
	if v := l.env("EMBED_MODEL"); v != "" {
		cfg.Bedrock.EmbedModel = v
	}
	if v := l.env("TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Bedrock.Timeout = d
		}
	}
	if v := l.env("MAX_IMAGE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Bedrock.ImageLimits.MaxBytes = n
		}
	}
	if v := l.env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (l *Loader) env(key string) string {
	return os.Getenv(l.envPrefix + "_" + key)
}

// Validate checks the loaded configuration.
func (c Config) Validate() error {
	if c.Bedrock.Region == "" && c.Bedrock.BaseURL == "" {
		return fmt.Errorf("config: either region or base_url must be set")
	}
	if c.Bedrock.ImageLimits.MaxBytes < 0 {
		return fmt.Errorf("config: max image bytes must not be negative")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}

// NewLogger builds a zap logger from the log configuration.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(valueOr(c.Log.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if c.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	return zcfg.Build()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
