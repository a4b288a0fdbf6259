package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load,
// e.g. CANDY_SERVER_PORT or CANDY_LLM_TEXT_MODEL.
const EnvPrefix = "CANDY"

// Default values applied before any file or environment source.
const (
	DefaultPort                   = 8080
	DefaultLogLevel               = "info"
	DefaultRequestTimeoutSeconds  = 120
	DefaultShutdownTimeoutSeconds = 10
	DefaultTextModel              = "gemini-2.5-flash"
	DefaultImageModel             = "gemini-2.5-flash-image"
	DefaultMaxRetries             = 3
	DefaultBaseDelayMS            = 1000
	DefaultMaxJitterMS            = 1000
)

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file. The Gemini key is also read from GEMINI_API_KEY and
// API_KEY. Returns a populated Config or an error if loading or validation
// fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("llm.gemini_api_key", EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind gemini api key: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.request_timeout_seconds", DefaultRequestTimeoutSeconds)
	v.SetDefault("server.shutdown_timeout_seconds", DefaultShutdownTimeoutSeconds)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.text_model", DefaultTextModel)
	v.SetDefault("llm.image_model", DefaultImageModel)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_retries", DefaultMaxRetries)
	v.SetDefault("llm.base_delay_ms", DefaultBaseDelayMS)
	v.SetDefault("llm.max_jitter_ms", DefaultMaxJitterMS)
}
