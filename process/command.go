package process

import "time"

// Command describes one external tool invocation. The media engine builds
// these for ffmpeg and ffprobe; output always goes to files named in Args,
// so there is no stdin or working-directory plumbing.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// GracePeriod is how long the process gets between SIGTERM and SIGKILL
	// on cancellation. Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}
