package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/audioscribe/audioscribe/resilience"
)

func TestClientDoGET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/ping" {
			t.Errorf("expected /ping, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	resp, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/ping"})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "pong" {
		t.Errorf("unexpected body: %q", resp.Body)
	}
}

func TestClientAppliesBearerAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL, Auth: BearerAuth("secret-token")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
}

func TestClientQueryParameters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("model")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/",
		Query:  map[string]string{"model": "whisper-1"},
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotQuery != "whisper-1" {
		t.Errorf("unexpected query: %q", gotQuery)
	}
}

func TestClientClassifiesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !IsServerError(err) {
		t.Errorf("expected server error classification, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("server errors should be retryable")
	}
}

func TestClientRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	retryCfg := resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		RetryIf:        IsRetryable,
	}
	client, err := New(Config{BaseURL: srv.URL, Retry: &retryCfg})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	resp, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("Do failed after retries: %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("unexpected body: %q", resp.Body)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestClientDoesNotRetryValidationError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL, Retry: DefaultRetryConfig()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected single call for non-retryable error, got %d", calls.Load())
	}
}

func TestClientJSONBody(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/",
		Body:   map[string]string{"language": "en"},
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected json content-type, got %q", gotContentType)
	}
	if string(gotBody) != `{"language":"en"}` {
		t.Errorf("unexpected body: %q", gotBody)
	}
}

func TestClientConnectionError(t *testing.T) {
	client, err := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !IsConnection(err) {
		t.Errorf("expected connection classification, got %v", err)
	}
}
