package media

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/audioscribe/audioscribe/errors"
	"github.com/audioscribe/audioscribe/logger"
	"github.com/audioscribe/audioscribe/process"
)

const (
	// BitrateStandard is the speech bitrate used for normal re-encoding.
	BitrateStandard = "32k"
	// BitrateAggressive is the reduced bitrate for very large sources.
	BitrateAggressive = "24k"
)

// Engine runs ffmpeg and ffprobe for probing, re-encoding, and segment
// extraction.
type Engine struct {
	config Config
	log    *logger.Logger
}

// NewEngine creates a media engine with the given configuration.
func NewEngine(cfg Config, log *logger.Logger) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Engine{config: cfg, log: log.WithComponent("media")}, nil
}

// Probe returns the duration of the audio source.
func (e *Engine) Probe(ctx context.Context, path string) (time.Duration, error) {
	result, err := process.Run(ctx, process.Command{
		Binary: e.config.FFprobePath,
		Args: []string{
			"-v", "quiet",
			"-show_entries", "format=duration",
			"-of", "csv=p=0",
			path,
		},
		GracePeriod: e.config.GracePeriod,
	})
	if err != nil {
		return 0, errors.ProbeFailed(path, err)
	}

	raw := strings.TrimSpace(string(result.Stdout))
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds <= 0 {
		return 0, errors.ProbeFailed(path, fmt.Errorf("unparseable duration %q", raw))
	}

	d := time.Duration(seconds * float64(time.Second))
	e.log.Debug("probed audio source", logger.Fields("source", path, "duration", d.String()))
	return d, nil
}

// Reencode compresses the source into a mono AAC file at dst. Aggressive
// mode drops the bitrate for very large sources.
func (e *Engine) Reencode(ctx context.Context, src, dst string, aggressive bool) error {
	bitrate := BitrateStandard
	if aggressive {
		bitrate = BitrateAggressive
	}

	start := time.Now()
	args := []string{"-i", src}
	args = append(args, codecArgs(bitrate, true)...)
	args = append(args, "-y", dst)

	result, err := process.Run(ctx, process.Command{
		Binary:      e.config.FFmpegPath,
		Args:        args,
		GracePeriod: e.config.GracePeriod,
	})
	if err != nil {
		return errors.ReencodeFailed(src, fmt.Errorf("%w: %s", err, result.Tail()))
	}
	if !usableOutput(dst) {
		return errors.ReencodeFailed(src, fmt.Errorf("output %s is missing or empty", dst))
	}

	e.log.Info("re-encoded audio source", logger.Fields(
		"source", src,
		"bitrate", bitrate,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return nil
}

// Extract cuts one time-bounded segment out of the source. A segment whose
// window lies past the end of the audio produces an empty file, which is
// reported as an extraction failure.
func (e *Engine) Extract(ctx context.Context, src, dst string, index int, offset, window time.Duration) error {
	args := []string{
		"-i", src,
		"-ss", formatSeconds(offset),
		"-t", formatSeconds(window),
	}
	args = append(args, codecArgs(BitrateStandard, false)...)
	args = append(args, "-y", dst)

	result, err := process.Run(ctx, process.Command{
		Binary:      e.config.FFmpegPath,
		Args:        args,
		GracePeriod: e.config.GracePeriod,
	})
	if err != nil {
		return errors.ExtractionFailed(index, fmt.Errorf("%w: %s", err, result.Tail()))
	}
	if !usableOutput(dst) {
		_ = os.Remove(dst)
		return errors.ExtractionFailed(index, fmt.Errorf("output %s is missing or empty", dst))
	}

	e.log.Debug("extracted segment", logger.Fields(
		logger.FieldSegment, index,
		"offset", offset.String(),
		"window", window.String(),
	))
	return nil
}

// codecArgs returns the shared speech encoding arguments. Container flags
// only apply to full-file re-encodes.
func codecArgs(bitrate string, container bool) []string {
	args := []string{"-vn"}
	if container {
		args = append(args, "-map_metadata", "-1")
	}
	args = append(args,
		"-ac", "1",
		"-c:a", "aac",
		"-b:a", bitrate,
		"-profile:a", "aac_low",
	)
	if container {
		args = append(args, "-movflags", "+faststart")
	}
	args = append(args,
		"-threads", "0",
		"-preset", "ultrafast",
		"-compression_level", "1",
	)
	return args
}

// usableOutput reports whether the file exists and is non-empty.
func usableOutput(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// formatSeconds renders a duration as fractional seconds for ffmpeg.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
