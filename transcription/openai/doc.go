// Package openai implements the transcription.Provider interface against
// the OpenAI audio transcription API. Audio files are uploaded as
// multipart/form-data and retried on transient failures.
package openai
