package media

import (
	"fmt"
	"time"
)

// Config configures the media engine.
type Config struct {
	// FFmpegPath is the ffmpeg binary. Resolved via PATH when bare.
	FFmpegPath string `mapstructure:"ffmpeg_path" yaml:"ffmpeg_path"`

	// FFprobePath is the ffprobe binary. Resolved via PATH when bare.
	FFprobePath string `mapstructure:"ffprobe_path" yaml:"ffprobe_path"`

	// GracePeriod is how long a canceled command gets between SIGTERM
	// and SIGKILL.
	GracePeriod time.Duration `mapstructure:"grace_period" yaml:"grace_period"`
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.FFprobePath == "" {
		c.FFprobePath = "ffprobe"
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = 5 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.FFmpegPath == "" {
		return fmt.Errorf("media: ffmpeg path is required")
	}
	if c.FFprobePath == "" {
		return fmt.Errorf("media: ffprobe path is required")
	}
	return nil
}
