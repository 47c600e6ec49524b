// Package logger provides structured logging built on zerolog.
//
// It supports console and JSON output and component-tagged child loggers.
// Pipeline code tags loggers with job and segment fields so a single job's
// log lines can be correlated across workers.
package logger
