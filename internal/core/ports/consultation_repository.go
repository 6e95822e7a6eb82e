package ports

import (
	"context"
	"time"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

// ConsultationRepository defines persistence operations for consultations.
type ConsultationRepository interface {
	Create(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error)
	FindByID(ctx context.Context, id string) (*domain.Consultation, error)
	// ListByUser returns all consultations owned by the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Consultation, error)
	// SetStatus writes the new status and the matching lifecycle timestamp
	// (started_at for active, ended_at for completed) and returns the updated
	// record, or domain.ErrConsultationNotFound.
	SetStatus(ctx context.Context, id string, status domain.ConsultationStatus, at time.Time) (*domain.Consultation, error)
	UpdateNotes(ctx context.Context, id, notes string) (*domain.Consultation, error)
}

// MessageRepository is the append-only transcript store.
type MessageRepository interface {
	Append(ctx context.Context, m *domain.Message) (*domain.Message, error)
	// ListByConsultation returns the full transcript, timestamp ascending.
	ListByConsultation(ctx context.Context, consultationID string) ([]domain.Message, error)
}
