package openai

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/audioscribe/audioscribe/errors"
	"github.com/audioscribe/audioscribe/httpclient"
	"github.com/audioscribe/audioscribe/transcription"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "segment_0.m4a")
	if err := os.WriteFile(path, []byte("fake-aac-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestTranscribeWithoutAPIKey(t *testing.T) {
	p, err := New(Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Available() {
		t.Error("provider without key should not be available")
	}

	_, err = p.Transcribe(context.Background(), transcription.Request{AudioPath: writeAudioFixture(t)})
	if err == nil {
		t.Fatal("expected error without API key")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeMissingConfig {
		t.Errorf("expected MISSING_CONFIG, got %v", err)
	}
}

func TestTranscribeSendsMultipart(t *testing.T) {
	var gotModel, gotLanguage, gotFilename, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		_, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		gotFilename = hdr.Filename
		_ = json.NewEncoder(w).Encode(map[string]any{"text": "hello world", "language": "en"})
	}))
	defer srv.Close()

	p, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL, Language: "en"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	resp, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: writeAudioFixture(t)})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if resp.Text != "hello world" {
		t.Errorf("Text = %q", resp.Text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header: %q", gotAuth)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model: %q", gotModel)
	}
	if gotLanguage != "en" {
		t.Errorf("language: %q", gotLanguage)
	}
	if gotFilename != "segment_0.m4a" {
		t.Errorf("filename: %q", gotFilename)
	}
}

func TestTranscribeRequestOverridesModel(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		gotModel = r.FormValue("model")
		_ = json.NewEncoder(w).Encode(map[string]any{"text": "ok"})
	}))
	defer srv.Close()

	p, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = p.Transcribe(context.Background(), transcription.Request{
		AudioPath: writeAudioFixture(t),
		Model:     "gpt-4o-transcribe",
	})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if gotModel != "gpt-4o-transcribe" {
		t.Errorf("model: %q", gotModel)
	}
}

func TestTranscribeServerErrorSurfacesTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	p, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = p.Transcribe(context.Background(), transcription.Request{AudioPath: writeAudioFixture(t)})
	if err == nil {
		t.Fatal("expected error")
	}
	var httpErr *httpclient.Error
	if !stderrors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected typed 400 error, got %v", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	p, err := New(Config{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = p.Transcribe(context.Background(), transcription.Request{AudioPath: "/nonexistent/file.m4a"})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAvailable(t *testing.T) {
	p, err := New(Config{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !p.Available() {
		t.Error("configured provider should be available")
	}
	if p.Name() != ProviderName {
		t.Errorf("Name = %q", p.Name())
	}
}
