// Package config loads service configuration from YAML files, .env files,
// and the process environment, in that order of precedence. Environment
// variables are auto-bound to nested struct fields, so TRANSCRIPTION_API_KEY
// populates a transcription.api_key mapstructure field without explicit
// binding.
package config
