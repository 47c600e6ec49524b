package pipeline

import (
	"testing"
	"time"
)

func defaultConfig() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

func TestSelectDirectForSmallSources(t *testing.T) {
	cfg := defaultConfig()

	s := cfg.Select(10 * megabyte)
	if s.Mode != ModeDirect {
		t.Errorf("10MB: mode = %s, want direct", s.Mode)
	}
	if s.Width != 1 {
		t.Errorf("10MB: width = %d, want 1", s.Width)
	}
	if s.Aggressive {
		t.Error("direct mode never re-encodes")
	}
}

func TestSelectSegmentedForMediumSources(t *testing.T) {
	cfg := defaultConfig()

	s := cfg.Select(60 * megabyte)
	if s.Mode != ModeSegmented {
		t.Fatalf("60MB: mode = %s, want segmented", s.Mode)
	}
	if s.SegmentDuration != 10*time.Minute {
		t.Errorf("60MB: segment duration = %v, want 10m", s.SegmentDuration)
	}
	if s.Width != 15 {
		t.Errorf("60MB: width = %d, want 15", s.Width)
	}
	if s.Aggressive {
		t.Error("60MB should use the standard bitrate")
	}
}

func TestSelectAggressiveForLargeSources(t *testing.T) {
	cfg := defaultConfig()

	s := cfg.Select(150 * megabyte)
	if s.Mode != ModeSegmented {
		t.Fatalf("150MB: mode = %s, want segmented", s.Mode)
	}
	if s.SegmentDuration != 5*time.Minute {
		t.Errorf("150MB: segment duration = %v, want 5m", s.SegmentDuration)
	}
	if s.Width != 20 {
		t.Errorf("150MB: width = %d, want 20", s.Width)
	}
	if !s.Aggressive {
		t.Error("150MB should use the aggressive bitrate")
	}
}

func TestSelectBoundaries(t *testing.T) {
	cfg := defaultConfig()

	if s := cfg.Select(25 * megabyte); s.Mode != ModeDirect {
		t.Errorf("exactly 25MB should be direct, got %s", s.Mode)
	}
	if s := cfg.Select(25*megabyte + 1); s.Mode != ModeSegmented {
		t.Error("just over 25MB should be segmented")
	}
	if s := cfg.Select(100 * megabyte); s.Aggressive {
		t.Error("exactly 100MB should not be aggressive")
	}
	if s := cfg.Select(100*megabyte + 1); !s.Aggressive {
		t.Error("just over 100MB should be aggressive")
	}
}

func TestSelectIsIdempotent(t *testing.T) {
	cfg := defaultConfig()
	for _, size := range []int64{0, 10 * megabyte, 60 * megabyte, 500 * megabyte} {
		first := cfg.Select(size)
		second := cfg.Select(size)
		if first != second {
			t.Errorf("size %d: %+v != %+v", size, first, second)
		}
	}
}

func TestStrategyString(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.Select(megabyte).String(); got != "direct" {
		t.Errorf("String = %q", got)
	}
	if got := cfg.Select(60 * megabyte).String(); got != "segmented" {
		t.Errorf("String = %q", got)
	}
	if got := cfg.Select(200 * megabyte).String(); got != "segmented-aggressive" {
		t.Errorf("String = %q", got)
	}
}

func TestConfigValidateOrdering(t *testing.T) {
	cfg := Config{SmallThresholdMB: 100, MediumThresholdMB: 25}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted thresholds")
	}
}
