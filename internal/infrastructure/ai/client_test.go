package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, APIKey: "test-key", Model: "test-model"})
}

func completionBody(content string) string {
	return `{"id":"cmpl-1","model":"test-model","choices":[{"index":0,"message":{"role":"assistant","content":"` + content + `"},"finish_reason":"stop"}]}`
}

func TestClient_Generate_Success(t *testing.T) {
	var gotReq chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Fatalf("unexpected auth header: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("hello there")))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	temp := 0.3
	stop := []string{"#END"}

	text, err := client.Generate(context.Background(), []ports.ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	}, ports.GenerateOptions{Temperature: &temp, Stop: stop})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("unexpected model: %q", gotReq.Model)
	}
	if gotReq.Temperature == nil || *gotReq.Temperature != 0.3 {
		t.Fatalf("temperature not forwarded")
	}
	if len(gotReq.Stop) != 1 || gotReq.Stop[0] != "#END" {
		t.Fatalf("stop sequence not forwarded: %v", gotReq.Stop)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[1].Content != "hi" {
		t.Fatalf("messages not forwarded: %+v", gotReq.Messages)
	}
}

func TestClient_Generate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cmpl-2","choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(context.Background(), nil, ports.GenerateOptions{})
	if err == nil {
		t.Fatalf("expected error for empty choices")
	}
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Kind != KindBadResponse {
		t.Fatalf("expected KindBadResponse, got %v", err)
	}
	if pe.Retryable() {
		t.Fatalf("empty completion must not be retryable")
	}
}

func TestClient_Generate_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(context.Background(), nil, ports.GenerateOptions{})
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Kind != KindAuth {
		t.Fatalf("expected KindAuth, got %v", err)
	}
	if pe.Retryable() {
		t.Fatalf("auth failure must not be retryable")
	}
	if pe.Status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", pe.Status)
	}
}

func TestClient_Generate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(context.Background(), nil, ports.GenerateOptions{})
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Kind != KindServer {
		t.Fatalf("expected KindServer, got %v", err)
	}
	if !pe.Retryable() {
		t.Fatalf("5xx must be retryable")
	}
}

func TestClient_Generate_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // shut down before calling

	_, err := newTestClient(srv.URL).Generate(context.Background(), nil, ports.GenerateOptions{})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Kind != KindConnection && pe.Kind != KindTimeout {
		t.Fatalf("expected transient kind, got %d", pe.Kind)
	}
	if !pe.Retryable() {
		t.Fatalf("connection failure must be retryable")
	}
}
