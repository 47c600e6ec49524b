// Package transcription defines the provider interface and common types
// for interacting with speech-to-text backends.
//
// Backends register themselves in a Registry and are selected by name,
// or by availability via Default.
//
// # Backends
//
//   - transcription/openai: OpenAI audio transcription (Whisper family)
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.Register(openaiProvider)
//	p, err := reg.Get("openai")
//	resp, err := p.Transcribe(ctx, transcription.Request{AudioPath: path})
package transcription
