package ports

import "context"

// ChatMessage is a single role-tagged turn sent to the completion provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateOptions tunes a single completion call. Nil fields use provider
// defaults. Stop sequences end generation when emitted by the model.
type GenerateOptions struct {
	Temperature      *float64
	MaxTokens        *int
	TopP             *float64
	PresencePenalty  *float64
	FrequencyPenalty *float64
	Stop             []string
}

// CompletionClient is the raw adapter over the hosted language model.
// Generate returns the generated text or a classified error.
type CompletionClient interface {
	Generate(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (string, error)
}

// TextGenerator is the resilient variant used by the consultation flow: it
// always produces some assistant text, substituting a safe fallback message
// when the provider fails. A clinical-context chat must not dead-end.
type TextGenerator interface {
	Generate(ctx context.Context, messages []ChatMessage, opts GenerateOptions) string
}
