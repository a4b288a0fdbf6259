package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// RequestTimeoutSeconds bounds a whole generation request, retries included.
	RequestTimeoutSeconds  int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
}

// RequestTimeout returns RequestTimeoutSeconds as a duration.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns ShutdownTimeoutSeconds as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	TextModel    string `mapstructure:"text_model" validate:"required"`
	ImageModel   string `mapstructure:"image_model" validate:"required"`

	// BaseURL overrides the Gemini endpoint. Empty means the SDK default.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// MaxRetries is the total number of attempts per backend call.
	MaxRetries  int `mapstructure:"max_retries" validate:"required,min=1,max=10"`
	BaseDelayMS int `mapstructure:"base_delay_ms" validate:"gte=0"`
	MaxJitterMS int `mapstructure:"max_jitter_ms" validate:"gte=0"`
}

// BaseDelay returns BaseDelayMS as a duration.
func (c LLMConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMS) * time.Millisecond
}

// MaxJitter returns MaxJitterMS as a duration.
func (c LLMConfig) MaxJitter() time.Duration {
	return time.Duration(c.MaxJitterMS) * time.Millisecond
}
