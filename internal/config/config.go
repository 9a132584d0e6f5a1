package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"

	"github.com/DanielPopoola/affirm-go/pkg/affirm"
)

const envPrefix = "AFFIRM_"

type Config struct {
	PublicAPIKey  string        `koanf:"public_api_key" validate:"required"`
	PrivateAPIKey string        `koanf:"private_api_key" validate:"required"`
	IsSandbox     bool          `koanf:"is_sandbox"`
	BaseURL       string        `koanf:"base_url" validate:"omitempty,url"`
	HTTP          HTTPConfig    `koanf:"http"`
	Retry         RetryConfig   `koanf:"retry"`
	Logger        LoggerConfig  `koanf:"logger"`
	Metrics       MetricsConfig `koanf:"metrics"`
}

type HTTPConfig struct {
	Timeout time.Duration `koanf:"timeout" validate:"required"`
}

type RetryConfig struct {
	BaseDelay   time.Duration `koanf:"base_delay"`
	MaxAttempts int           `koanf:"max_attempts" validate:"min=1"`
}

// MetricsConfig controls pushing request metrics after a CLI run. Nothing is
// pushed when PushgatewayURL is empty.
type MetricsConfig struct {
	PushgatewayURL string `koanf:"pushgateway_url" validate:"omitempty,url"`
	Job            string `koanf:"job" validate:"required"`
}

type LoggerConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
}

var defaults = map[string]interface{}{
	"is_sandbox":         false,
	"http.timeout":       "30s",
	"retry.base_delay":   "1s",
	"retry.max_attempts": 1,
	"logger.level":       "info",
	"logger.format":      "text",
	"metrics.job":        "affirm_cli",
}

// LoadConfig reads AFFIRM_* environment variables (and a .env file if one
// exists) on top of the defaults. Nested keys use a double underscore, e.g.
// AFFIRM_RETRY__MAX_ATTEMPTS.
func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// ClientConfig returns the credentials in the form affirm.New expects.
func (c *Config) ClientConfig() affirm.Config {
	return affirm.Config{
		PublicAPIKey:  c.PublicAPIKey,
		PrivateAPIKey: c.PrivateAPIKey,
		IsSandbox:     c.IsSandbox,
	}
}

// ClientOptions returns the affirm.Options implied by the config.
func (c *Config) ClientOptions(logger *slog.Logger) []affirm.Option {
	opts := []affirm.Option{affirm.WithLogger(logger)}
	if c.BaseURL != "" {
		opts = append(opts, affirm.WithBaseURL(c.BaseURL))
	}
	return opts
}

func (c LoggerConfig) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
