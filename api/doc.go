// Package api implements the HTTP surface of the transcription service:
// POST /upload accepts an audio file and returns a job identifier,
// GET /status/:job_id polls the job ledger, and GET /download/:job_id
// serves the finished transcript.
package api
