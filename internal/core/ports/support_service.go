package ports

import "context"

// SupportChatInput is a stateless health-support turn: the latest user
// message plus the client-held conversation history.
type SupportChatInput struct {
	Message string
	History []ChatMessage
}

// SupportChatResult carries the assistant reply and a short topic label.
type SupportChatResult struct {
	Message string `json:"message"`
	Topic   string `json:"topic"`
}

// SupportService answers general health questions without a persisted
// consultation.
type SupportService interface {
	Chat(ctx context.Context, in SupportChatInput) (*SupportChatResult, error)
}

// TopicCache stores previously extracted topic labels keyed by a
// conversation hash, so the secondary topic completion call can be skipped.
type TopicCache interface {
	// Get returns "" with no error on a cache miss.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, topic string) error
}
