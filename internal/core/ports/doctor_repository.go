package ports

import (
	"context"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

// DoctorUpdate carries a partial profile update. Nil fields are left untouched.
type DoctorUpdate struct {
	Name           *string
	Specialization *string
	Experience     *int
	Rating         *float64
	Bio            *string
	PhotoURL       *string
	IsAvailable    *bool
}

// DoctorRepository defines persistence operations for doctor profiles.
type DoctorRepository interface {
	List(ctx context.Context) ([]*domain.Doctor, error)
	FindByID(ctx context.Context, id string) (*domain.Doctor, error)
	Create(ctx context.Context, doctor *domain.Doctor) (*domain.Doctor, error)
	Update(ctx context.Context, id string, update DoctorUpdate) (*domain.Doctor, error)
	// Delete removes and returns the deleted record, or
	// domain.ErrDoctorNotFound when it is absent.
	Delete(ctx context.Context, id string) (*domain.Doctor, error)
}
