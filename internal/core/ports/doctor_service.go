package ports

import (
	"context"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

// CreateDoctorInput carries all data needed to create a doctor profile.
type CreateDoctorInput struct {
	Name           string
	Specialization string
	Experience     int
	Rating         float64
	Bio            string
	PhotoURL       string
}

// DoctorService is plain CRUD over the doctor directory.
type DoctorService interface {
	List(ctx context.Context) ([]*domain.Doctor, error)
	// Get returns nil, nil when no doctor matches.
	Get(ctx context.Context, id string) (*domain.Doctor, error)
	Create(ctx context.Context, in CreateDoctorInput) (*domain.Doctor, error)
	Update(ctx context.Context, id string, update DoctorUpdate) (*domain.Doctor, error)
	Delete(ctx context.Context, id string) (*domain.Doctor, error)
}
