package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

// DoctorService is plain CRUD over the doctor directory. No state machine.
type DoctorService struct {
	repo   ports.DoctorRepository
	logger zerolog.Logger
}

func NewDoctorService(repo ports.DoctorRepository, logger zerolog.Logger) *DoctorService {
	return &DoctorService{repo: repo, logger: logger}
}

func (s *DoctorService) List(ctx context.Context) ([]*domain.Doctor, error) {
	return s.repo.List(ctx)
}

// Get returns nil, nil when no doctor matches.
func (s *DoctorService) Get(ctx context.Context, id string) (*domain.Doctor, error) {
	doctor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorService) Create(ctx context.Context, in ports.CreateDoctorInput) (*domain.Doctor, error) {
	doctor := &domain.Doctor{
		Name:           in.Name,
		Specialization: in.Specialization,
		Experience:     in.Experience,
		Rating:         in.Rating,
		Bio:            in.Bio,
		PhotoURL:       in.PhotoURL,
		IsAvailable:    true,
	}

	created, err := s.repo.Create(ctx, doctor)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create doctor")
		return nil, err
	}

	s.logger.Info().Str("doctor_id", created.ID).Str("specialization", created.Specialization).Msg("doctor created")
	return created, nil
}

func (s *DoctorService) Update(ctx context.Context, id string, update ports.DoctorUpdate) (*domain.Doctor, error) {
	return s.repo.Update(ctx, id, update)
}

// Delete removes the profile and returns the deleted record.
func (s *DoctorService) Delete(ctx context.Context, id string) (*domain.Doctor, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("doctor_id", id).Msg("doctor deleted")
	return deleted, nil
}
