package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// Tail returns the last non-empty stderr line. ffmpeg and ffprobe put their
// failure reason there under piles of banner output.
func (r *Result) Tail() string {
	if r == nil || len(r.Stderr) == 0 {
		return "no stderr"
	}
	lines := strings.Split(strings.TrimSpace(string(r.Stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "no stderr"
}
