package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/audioscribe/audioscribe/httpclient"
	"github.com/audioscribe/audioscribe/transcription"
)

// ProviderName is the registry name of this backend.
const ProviderName = "openai"

// Provider calls the OpenAI audio transcription endpoint.
type Provider struct {
	config Config
	client *httpclient.Client
}

// New creates an OpenAI transcription provider. A missing API key does not
// fail construction; the provider reports itself unavailable and the first
// Transcribe call returns the configuration error so it lands on the job.
func New(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()

	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.BearerAuth(cfg.APIKey),
		Retry:   httpclient.DefaultRetryConfig(),
	})
	if err != nil {
		return nil, err
	}

	return &Provider{config: cfg, client: client}, nil
}

// Name returns the backend identifier.
func (p *Provider) Name() string {
	return ProviderName
}

// Available reports whether the backend is configured.
func (p *Provider) Available() bool {
	return p.config.APIKey != ""
}

// transcriptionResult mirrors the JSON response of /audio/transcriptions.
type transcriptionResult struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Transcribe uploads the audio file and returns the transcript text.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	fields := map[string]string{
		"model":           model,
		"response_format": "json",
	}
	language := req.Language
	if language == "" {
		language = p.config.Language
	}
	if language != "" {
		fields["language"] = language
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/audio/transcriptions",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "file",
				FileName:    filepath.Base(req.AudioPath),
				ContentType: contentTypeFor(req.AudioPath),
				Data:        data,
			}},
		},
	})
	if err != nil {
		return nil, err
	}

	var result transcriptionResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("decode transcription response: %w", err)
	}

	return &transcription.Response{
		Text:     result.Text,
		Duration: result.Duration,
		Language: result.Language,
	}, nil
}

// contentTypeFor maps the common audio extensions to MIME types.
func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".webm":
		return "audio/webm"
	default:
		return ""
	}
}
