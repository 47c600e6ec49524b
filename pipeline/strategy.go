package pipeline

import "time"

// Mode distinguishes direct upload from chunked processing.
type Mode string

const (
	// ModeDirect sends the source file to the backend in one call.
	ModeDirect Mode = "direct"
	// ModeSegmented re-encodes and splits the source before dispatch.
	ModeSegmented Mode = "segmented"
)

// Strategy is the processing plan selected for one source file.
type Strategy struct {
	// Mode is direct or segmented.
	Mode Mode
	// SegmentDuration is the extraction window (segmented mode only).
	SegmentDuration time.Duration
	// Width is the transcription pool width.
	Width int
	// Aggressive selects the reduced re-encode bitrate.
	Aggressive bool
}

// String names the strategy for logs and the ledger.
func (s Strategy) String() string {
	if s.Mode == ModeDirect {
		return "direct"
	}
	if s.Aggressive {
		return "segmented-aggressive"
	}
	return "segmented"
}

const megabyte = 1 << 20

// Select picks the processing strategy from the source byte size. The
// selection is pure: the same size always yields the same strategy.
func (c *Config) Select(sizeBytes int64) Strategy {
	switch {
	case sizeBytes <= c.SmallThresholdMB*megabyte:
		return Strategy{Mode: ModeDirect, Width: 1}
	case sizeBytes <= c.MediumThresholdMB*megabyte:
		return Strategy{
			Mode:            ModeSegmented,
			SegmentDuration: c.SegmentDuration,
			Width:           c.MediumWidth,
		}
	default:
		return Strategy{
			Mode:            ModeSegmented,
			SegmentDuration: c.AggressiveSegmentDuration,
			Width:           c.LargeWidth,
			Aggressive:      true,
		}
	}
}
