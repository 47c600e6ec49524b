// Package jobs is the in-memory ledger for transcription jobs: lifecycle
// status, coarse progress, and the final artifact path or error message.
// Reads return copies, so HTTP pollers never observe partial writes.
package jobs
