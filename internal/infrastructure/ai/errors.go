package ai

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the provider answers 200 with an empty
// choice list.
var ErrEmptyCompletion = errors.New("completion returned no choices")

// ErrorKind classifies a provider failure for retry and messaging decisions.
type ErrorKind int

const (
	// KindConnection covers refused connections and DNS failures. Transient.
	KindConnection ErrorKind = iota
	// KindTimeout covers client-side deadline overruns. Transient.
	KindTimeout
	// KindServer covers 408/429/5xx responses. Transient.
	KindServer
	// KindAuth covers 401/403 responses. Fatal: retrying cannot help.
	KindAuth
	// KindBadResponse covers malformed requests/responses and empty choice
	// lists. Fatal.
	KindBadResponse
)

// ProviderError wraps a completion provider failure with its class and, when
// available, the HTTP status.
type ProviderError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure class is transient and eligible for
// backoff-and-retry.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case KindConnection, KindTimeout, KindServer:
		return true
	default:
		return false
	}
}

// Classify extracts the error kind from any error returned by a
// CompletionClient. Unrecognized errors are treated as connection failures,
// the broadest transient class.
func Classify(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindConnection
}
