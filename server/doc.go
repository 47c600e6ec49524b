// Package server provides the HTTP server for the transcription service,
// using Gin with HTTP/2 h2c support and a standard middleware stack:
// recovery, request-ID propagation, CORS, a body-size limit sized for audio
// uploads, and request logging.
package server
