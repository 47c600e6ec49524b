package pipeline

import (
	"fmt"
	"time"
)

// Config holds the sizing thresholds and pool widths for the pipeline.
type Config struct {
	// SmallThresholdMB is the largest source sent directly without
	// segmentation. Defaults to 25.
	SmallThresholdMB int64 `mapstructure:"small_threshold_mb" yaml:"small_threshold_mb"`

	// MediumThresholdMB separates standard from aggressive segmentation.
	// Defaults to 100.
	MediumThresholdMB int64 `mapstructure:"medium_threshold_mb" yaml:"medium_threshold_mb"`

	// SegmentDuration is the window length for medium sources. Defaults to 10m.
	SegmentDuration time.Duration `mapstructure:"segment_duration" yaml:"segment_duration"`

	// AggressiveSegmentDuration is the window length for large sources.
	// Defaults to 5m.
	AggressiveSegmentDuration time.Duration `mapstructure:"aggressive_segment_duration" yaml:"aggressive_segment_duration"`

	// MediumWidth is the transcription pool width for medium sources.
	// Defaults to 15.
	MediumWidth int `mapstructure:"medium_width" yaml:"medium_width"`

	// LargeWidth is the transcription pool width for large sources.
	// Defaults to 20.
	LargeWidth int `mapstructure:"large_width" yaml:"large_width"`

	// ExtractPool bounds concurrent ffmpeg extractions. Defaults to 10.
	ExtractPool int `mapstructure:"extract_pool" yaml:"extract_pool"`

	// SegmentTimeout bounds a single segment transcription call.
	// Defaults to 5m.
	SegmentTimeout time.Duration `mapstructure:"segment_timeout" yaml:"segment_timeout"`

	// WorkDir holds per-job intermediate files.
	WorkDir string `mapstructure:"work_dir" yaml:"work_dir"`

	// OutputDir holds finished transcript artifacts.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// ApplyDefaults fills zero-valued fields with the standard pipeline shape.
func (c *Config) ApplyDefaults() {
	if c.SmallThresholdMB <= 0 {
		c.SmallThresholdMB = 25
	}
	if c.MediumThresholdMB <= 0 {
		c.MediumThresholdMB = 100
	}
	if c.SegmentDuration <= 0 {
		c.SegmentDuration = 10 * time.Minute
	}
	if c.AggressiveSegmentDuration <= 0 {
		c.AggressiveSegmentDuration = 5 * time.Minute
	}
	if c.MediumWidth <= 0 {
		c.MediumWidth = 15
	}
	if c.LargeWidth <= 0 {
		c.LargeWidth = 20
	}
	if c.ExtractPool <= 0 {
		c.ExtractPool = 10
	}
	if c.SegmentTimeout <= 0 {
		c.SegmentTimeout = 5 * time.Minute
	}
	if c.WorkDir == "" {
		c.WorkDir = "work"
	}
	if c.OutputDir == "" {
		c.OutputDir = "outputs"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.SmallThresholdMB >= c.MediumThresholdMB {
		return fmt.Errorf("pipeline: small threshold %dMB must be below medium threshold %dMB",
			c.SmallThresholdMB, c.MediumThresholdMB)
	}
	if c.SegmentDuration < time.Second || c.AggressiveSegmentDuration < time.Second {
		return fmt.Errorf("pipeline: segment durations must be at least one second")
	}
	return nil
}
