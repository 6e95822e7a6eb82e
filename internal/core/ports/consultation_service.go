package ports

import (
	"context"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

// ConsultationWithDoctor is a consultation with its doctor profile attached.
type ConsultationWithDoctor struct {
	domain.Consultation
	Doctor *domain.Doctor `json:"doctor,omitempty"`
}

// ConsultationDetail is the full owner-only view: consultation, doctor,
// patient summary, and the complete ordered transcript.
type ConsultationDetail struct {
	domain.Consultation
	Doctor     *domain.Doctor   `json:"doctor,omitempty"`
	Patient    UserSummary      `json:"patient"`
	Transcript []domain.Message `json:"messages"`
}

// ConsultationService owns the consultation lifecycle and the ordered
// message log.
type ConsultationService interface {
	Create(ctx context.Context, userID, doctorID string) (*ConsultationWithDoctor, error)
	ListForUser(ctx context.Context, userID string) ([]ConsultationWithDoctor, error)
	GetDetail(ctx context.Context, consultationID, requestingUserID string) (*ConsultationDetail, error)
	Start(ctx context.Context, consultationID string) (*domain.Consultation, error)
	End(ctx context.Context, consultationID string) (*domain.Consultation, error)
	// AppendUserTurn persists the user message, calls the completion provider
	// with the reloaded transcript, persists the generated reply, and returns
	// the assistant message. Turns for the same consultation are serialized.
	AppendUserTurn(ctx context.Context, consultationID, text string) (*domain.Message, error)
	UpdateNotes(ctx context.Context, consultationID, notes, requestingUserID string) (*domain.Consultation, error)
}

// TurnSerializer executes fn with all invocations sharing the same key
// running strictly one at a time, in submission order.
type TurnSerializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
