package ai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthywell/telemedicine-api/internal/api/metrics"
	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

// Class-differentiated fallback texts. The consultation flow persists these
// as regular assistant messages, so the end user never sees a hard failure.
const (
	FallbackConnection = "Unable to connect to the health support service. Please check your internet connection and try again later."
	FallbackTimeout    = "The health support service is taking too long to respond. Please try again later."
	FallbackAuth       = "Authentication with the health support service failed. Please contact support."
	FallbackGeneric    = "I apologize, but I am unable to respond at the moment. Please try again later."
)

// RetryPolicy bounds the retry loop: up to MaxAttempts calls with delays of
// BaseDelay, doubling after each failed attempt.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy mirrors the provider contract: three attempts, 2s base.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// ResilientGenerator wraps a CompletionClient with bounded exponential
// backoff for transient failures and a safe fallback message for everything
// else. Generate never fails.
type ResilientGenerator struct {
	client ports.CompletionClient
	policy RetryPolicy
	log    zerolog.Logger

	// sleep waits for d or until ctx is done; returns false when ctx won.
	// Injectable for tests.
	sleep func(ctx context.Context, d time.Duration) bool
}

// NewResilientGenerator builds a ResilientGenerator around client.
func NewResilientGenerator(client ports.CompletionClient, policy RetryPolicy, log zerolog.Logger) *ResilientGenerator {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 2 * time.Second
	}
	return &ResilientGenerator{
		client: client,
		policy: policy,
		log:    log,
		sleep:  sleepCtx,
	}
}

// Generate calls the provider, retrying transient failures with doubling
// delays up to the attempt cap, then returns a fallback message matched to
// the last failure class. Fatal failures skip straight to the fallback.
func (g *ResilientGenerator) Generate(ctx context.Context, messages []ports.ChatMessage, opts ports.GenerateOptions) string {
	delay := g.policy.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		text, err := g.client.Generate(ctx, messages, opts)
		if err == nil {
			metrics.CompletionRequestsTotal.WithLabelValues("ok").Inc()
			return text
		}
		lastErr = err

		var pe *ProviderError
		retryable := errors.As(err, &pe) && pe.Retryable()
		g.log.Warn().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", g.policy.MaxAttempts).
			Bool("retryable", retryable).
			Msg("completion call failed")

		if !retryable || attempt == g.policy.MaxAttempts {
			break
		}

		metrics.CompletionRetriesTotal.WithLabelValues(kindLabel(Classify(err))).Inc()
		if !g.sleep(ctx, delay) {
			break
		}
		delay *= 2
	}

	reason := kindLabel(Classify(lastErr))
	metrics.CompletionRequestsTotal.WithLabelValues("error").Inc()
	metrics.CompletionFallbacksTotal.WithLabelValues(reason).Inc()
	g.log.Error().Err(lastErr).Str("reason", reason).Msg("completion exhausted, returning fallback")

	return fallbackFor(Classify(lastErr))
}

func fallbackFor(kind ErrorKind) string {
	switch kind {
	case KindConnection:
		return FallbackConnection
	case KindTimeout:
		return FallbackTimeout
	case KindAuth:
		return FallbackAuth
	default:
		return FallbackGeneric
	}
}

func kindLabel(kind ErrorKind) string {
	switch kind {
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	case KindAuth:
		return "auth"
	default:
		return "bad_response"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
