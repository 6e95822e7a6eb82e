package domain

import "time"

// MessageRole tags who produced a transcript entry.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single transcript entry of a consultation. Messages are
// append-only, ordered by timestamp ascending, and never mutated after
// creation; the full transcript is replayed to the completion provider on
// every turn.
type Message struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	ConsultationID string      `json:"consultation_id" bson:"consultation_id"`
	Role           MessageRole `json:"role" bson:"role"`
	Content        string      `json:"content" bson:"content"`
	Timestamp      time.Time   `json:"timestamp" bson:"timestamp"`
}
