package ports

import (
	"context"
	"time"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

// UserUpdate carries a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
}

// UserRepository defines persistence operations for user accounts.
// The store enforces unique indexes on email and username and surfaces
// duplicate-key violations as domain.ErrEmailExists / domain.ErrUsernameExists,
// closing the check-then-create race window.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update applies a partial update and returns the stored record, or
	// domain.ErrUserNotFound when the target no longer exists.
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
}
