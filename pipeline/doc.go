// Package pipeline implements the chunked-parallel transcription core:
// strategy selection from source size, concurrent segment extraction,
// bounded fan-out to transcription workers, ordered reassembly with
// contained per-segment failures, and the end-to-end job runner.
//
// The runner owns all ledger writes for its job. Worker failures never
// propagate; they surface as inline markers in the final transcript.
package pipeline
