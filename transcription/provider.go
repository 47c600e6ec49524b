package transcription

import "context"

// Provider is the interface that transcription backends must implement.
type Provider interface {
	// Name returns the backend identifier (e.g. "openai").
	Name() string

	// Available reports whether the backend is configured and usable.
	Available() bool

	// Transcribe sends audio for transcription and returns the result.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
