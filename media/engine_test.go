package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/audioscribe/audioscribe/errors"
)

// fakeBinary writes an executable shell script that stands in for
// ffmpeg or ffprobe.
func fakeBinary(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func newTestEngine(t *testing.T, ffmpegScript, ffprobeScript string) *Engine {
	t.Helper()
	dir := t.TempDir()
	engine, err := NewEngine(Config{
		FFmpegPath:  fakeBinary(t, dir, "ffmpeg", ffmpegScript),
		FFprobePath: fakeBinary(t, dir, "ffprobe", ffprobeScript),
	}, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func TestProbeParsesDuration(t *testing.T) {
	engine := newTestEngine(t, "", `echo "2520.5"`)

	d, err := engine.Probe(context.Background(), "/tmp/input.mp3")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	want := time.Duration(2520.5 * float64(time.Second))
	if d != want {
		t.Errorf("duration = %v, want %v", d, want)
	}
}

func TestProbeFailsOnGarbage(t *testing.T) {
	engine := newTestEngine(t, "", `echo "N/A"`)

	_, err := engine.Probe(context.Background(), "/tmp/input.mp3")
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeProbeFailed {
		t.Errorf("expected PROBE_FAILED, got %v", err)
	}
}

func TestProbeFailsOnNonZeroExit(t *testing.T) {
	engine := newTestEngine(t, "", `exit 1`)

	_, err := engine.Probe(context.Background(), "/tmp/input.mp3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsFatal(err) {
		t.Error("probe failure should be fatal")
	}
}

func TestReencodeWritesOutput(t *testing.T) {
	// The fake ffmpeg writes its last argument.
	engine := newTestEngine(t, `for last; do :; done; echo data > "$last"`, "")

	dst := filepath.Join(t.TempDir(), "compressed.m4a")
	if err := engine.Reencode(context.Background(), "/tmp/in.mp3", dst, false); err != nil {
		t.Fatalf("Reencode failed: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestReencodeFailsOnEmptyOutput(t *testing.T) {
	engine := newTestEngine(t, `for last; do :; done; : > "$last"`, "")

	dst := filepath.Join(t.TempDir(), "compressed.m4a")
	err := engine.Reencode(context.Background(), "/tmp/in.mp3", dst, false)
	if err == nil {
		t.Fatal("expected error for empty output")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeReencodeFailed {
		t.Errorf("expected REENCODE_FAILED, got %v", err)
	}
}

func TestReencodeAggressiveBitrate(t *testing.T) {
	// Record arguments, then write the output file.
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := `echo "$@" > ` + argsFile + `; for last; do :; done; echo data > "$last"`
	engine := newTestEngine(t, script, "")

	dst := filepath.Join(dir, "out.m4a")
	if err := engine.Reencode(context.Background(), "/tmp/in.mp3", dst, true); err != nil {
		t.Fatalf("Reencode failed: %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if !containsArg(string(args), "24k") {
		t.Errorf("aggressive re-encode should use 24k, got args: %s", args)
	}
}

func TestExtractSegment(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := `echo "$@" > ` + argsFile + `; for last; do :; done; echo data > "$last"`
	engine := newTestEngine(t, script, "")

	dst := filepath.Join(dir, "segment_003.m4a")
	err := engine.Extract(context.Background(), "/tmp/in.m4a", dst, 3, 30*time.Minute, 10*time.Minute)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if !containsArg(string(args), "1800") {
		t.Errorf("expected -ss 1800 in args: %s", args)
	}
	if !containsArg(string(args), "600") {
		t.Errorf("expected -t 600 in args: %s", args)
	}
}

func TestExtractZeroByteOutputIsFailure(t *testing.T) {
	engine := newTestEngine(t, `for last; do :; done; : > "$last"`, "")

	dst := filepath.Join(t.TempDir(), "segment_009.m4a")
	err := engine.Extract(context.Background(), "/tmp/in.m4a", dst, 9, time.Hour, 10*time.Minute)
	if err == nil {
		t.Fatal("expected error for zero-byte segment")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeExtractionFailed {
		t.Errorf("expected EXTRACTION_FAILED, got %v", err)
	}
	if errors.IsFatal(err) {
		t.Error("extraction failure must be contained, not fatal")
	}
	if _, statErr := os.Stat(dst); statErr == nil {
		t.Error("zero-byte segment file should be removed")
	}
}

func containsArg(args, want string) bool {
	for _, a := range strings.Fields(args) {
		if a == want {
			return true
		}
	}
	return false
}
