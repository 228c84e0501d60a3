package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const completionBody = `{
	"id": "gen-1",
	"object": "chat.completion",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "generated text"}, "finish_reason": "stop"}
	]
}`

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "test/model",
		RetryBaseDelay: time.Millisecond,
		RetryMaxDelay:  5 * time.Millisecond,
		RatePerSecond:  1000,
		RateBurst:      1000,
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	c := mustTestClient(t, testConfig(srv.URL))

	got, err := c.Generate(context.Background(), Request{
		Prompt:       "write something",
		SystemPrompt: "you are a writer",
		Temperature:  0.3,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "generated text" {
		t.Fatalf("unexpected text: %q", got)
	}

	if gotReq["model"] != "test/model" {
		t.Fatalf("unexpected model: %v", gotReq["model"])
	}
	messages := gotReq["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(messages))
	}
	first := messages[0].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("unexpected first role: %v", first["role"])
	}
}

func TestGenerateEmptyPrompt(t *testing.T) {
	t.Parallel()

	c := mustTestClient(t, testConfig("http://localhost:1"))

	_, err := c.Generate(context.Background(), Request{Prompt: "   "})
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestGenerateRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"message": "upstream overloaded"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	c := mustTestClient(t, testConfig(srv.URL))

	got, err := c.Generate(context.Background(), Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "generated text" {
		t.Fatalf("unexpected text: %q", got)
	}
	if requests != 3 {
		t.Fatalf("expected 3 requests, got %d", requests)
	}
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	t.Parallel()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	c := mustTestClient(t, testConfig(srv.URL))

	_, err := c.Generate(context.Background(), Request{Prompt: "p"})
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("expected exhaustion error, got %v", err)
	}
	if requests != 3 {
		t.Fatalf("expected 3 requests, got %d", requests)
	}
}

func TestGenerateDoesNotRetryApplicationErrors(t *testing.T) {
	t.Parallel()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid key"}}`))
	}))
	defer srv.Close()

	c := mustTestClient(t, testConfig(srv.URL))

	if _, err := c.Generate(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Fatal("expected error")
	}
	if requests != 1 {
		t.Fatalf("auth errors must not be retried, got %d requests", requests)
	}
}

func TestGenerateNoChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "gen-1", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	c := mustTestClient(t, testConfig(srv.URL))

	_, err := c.Generate(context.Background(), Request{Prompt: "p"})
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected no-choices error, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{Model: "m"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func mustTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}
