package openai

import (
	"time"

	"github.com/audioscribe/audioscribe/errors"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "whisper-1"
	defaultTimeout = 5 * time.Minute
)

// Config configures the OpenAI transcription backend.
type Config struct {
	// APIKey is the OpenAI API key. Required.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// BaseURL overrides the API endpoint, mainly for testing.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Model is the transcription model. Defaults to whisper-1.
	Model string `mapstructure:"model" yaml:"model"`

	// Language hints the audio language (e.g. "en"). Optional.
	Language string `mapstructure:"language" yaml:"language"`

	// Timeout bounds a single transcription request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate reports whether the backend is usable. A missing key is not a
// construction error so the server can start unconfigured; Transcribe
// surfaces it on the first call instead.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.MissingConfig("OPENAI_API_KEY")
	}
	return nil
}
