package ports

import (
	"context"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

// RegisterInput carries all data needed to create an account.
// DateOfBirth is an ISO date string; the service converts it to a date value.
type RegisterInput struct {
	Username    string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth string
	Email       string
}

// UpdateProfileInput is a partial profile update. Nil fields are untouched.
type UpdateProfileInput struct {
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	DateOfBirth *string
}

// UserSummary is the public-safe projection of a user returned alongside a
// session token.
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SessionResult is returned by IssueSession.
type SessionResult struct {
	AccessToken string      `json:"access_token"`
	User        UserSummary `json:"user"`
}

// AuthService defines identity use cases: registration, credential
// validation, session issuance, and profile reads/updates.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	IssueSession(user *domain.User) (*SessionResult, error)
	// GetProfile returns nil, nil when no user matches.
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error)
}
