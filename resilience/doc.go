// Package resilience provides retry with exponential backoff and a bulkhead
// concurrency limiter. The HTTP client retries retryable transcription
// failures; the pipeline uses pool-mode bulkheads to bound extraction and
// transcription fan-out.
package resilience
