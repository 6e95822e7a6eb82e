// Package ai implements the completion client adapter over Groq's
// OpenAI-compatible chat completions API, plus the retry/backoff wrapper the
// consultation flow depends on.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "meta-llama/llama-4-maverick-17b-128e-instruct"
	defaultTimeout = 30 * time.Second
)

// Config captures everything needed to construct a Client. The client is
// explicitly constructed and injected; there is no process-wide instance.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is the raw chat-completions client. It implements
// ports.CompletionClient and propagates classified errors; resilience lives
// in ResilientGenerator.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds a Client, applying defaults for any zero-valued setting.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// --- Wire types (OpenAI chat completions contract) ---

type chatCompletionRequest struct {
	Model            string              `json:"model"`
	Messages         []ports.ChatMessage `json:"messages"`
	Temperature      *float64            `json:"temperature,omitempty"`
	MaxTokens        *int                `json:"max_tokens,omitempty"`
	TopP             *float64            `json:"top_p,omitempty"`
	PresencePenalty  *float64            `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64            `json:"frequency_penalty,omitempty"`
	Stop             []string            `json:"stop,omitempty"`
	Stream           bool                `json:"stream"`
}

type chatCompletionChoice struct {
	Index        int               `json:"index"`
	Message      ports.ChatMessage `json:"message"`
	FinishReason string            `json:"finish_reason,omitempty"`
}

type chatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
}

// Generate performs a single synchronous completion call and returns the
// first choice's content. Failures come back as *ProviderError so callers
// can distinguish transient classes from fatal ones.
func (c *Client) Generate(ctx context.Context, messages []ports.ChatMessage, opts ports.GenerateOptions) (string, error) {
	req := chatCompletionRequest{
		Model:            c.model,
		Messages:         messages,
		Temperature:      opts.Temperature,
		MaxTokens:        opts.MaxTokens,
		TopP:             opts.TopP,
		PresencePenalty:  opts.PresencePenalty,
		FrequencyPenalty: opts.FrequencyPenalty,
		Stop:             opts.Stop,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", &ProviderError{Kind: KindBadResponse, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Kind: KindBadResponse, Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatusError(resp)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", &ProviderError{Kind: KindBadResponse, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(completion.Choices) == 0 {
		return "", &ProviderError{Kind: KindBadResponse, Err: ErrEmptyCompletion}
	}

	return completion.Choices[0].Message.Content, nil
}

// classifyTransportError maps client-side transport failures: deadline
// overruns become KindTimeout, everything else (refused connections, DNS
// failures) becomes KindConnection.
func classifyTransportError(err error) *ProviderError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &ProviderError{Kind: KindTimeout, Err: err}
	}
	return &ProviderError{Kind: KindConnection, Err: err}
}

// classifyStatusError maps non-200 responses: 401/403 are auth failures,
// 408/429/5xx are transient server conditions, anything else is a malformed
// or rejected request.
func classifyStatusError(resp *http.Response) *ProviderError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	msg := strings.TrimSpace(string(raw))
	var apiErr apiErrorResponse
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}

	kind := KindBadResponse
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = KindAuth
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		kind = KindServer
	}

	return &ProviderError{
		Kind:   kind,
		Status: resp.StatusCode,
		Err:    fmt.Errorf("completion API returned %d: %s", resp.StatusCode, msg),
	}
}
