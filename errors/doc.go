// Package errors defines the application error taxonomy: fatal pipeline
// errors (probe, re-encode, missing configuration), contained per-segment
// errors (extraction, transcription), and the generic HTTP-facing families.
package errors
