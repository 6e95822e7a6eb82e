package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthywell/telemedicine-api/internal/api/metrics"
	"github.com/healthywell/telemedicine-api/internal/core/domain"
	"github.com/healthywell/telemedicine-api/internal/core/ports"
	"github.com/healthywell/telemedicine-api/internal/core/prompt"
)

// ConsultationService owns the consultation lifecycle and the ordered
// message log. Turns for the same consultation are serialized through the
// injected TurnSerializer so racing requests cannot interleave transcript
// reads and writes.
type ConsultationService struct {
	consultations ports.ConsultationRepository
	messages      ports.MessageRepository
	doctors       ports.DoctorRepository
	users         ports.UserRepository
	generator     ports.TextGenerator
	turns         ports.TurnSerializer
	log           zerolog.Logger
	now           func() time.Time
}

func NewConsultationService(
	consultations ports.ConsultationRepository,
	messages ports.MessageRepository,
	doctors ports.DoctorRepository,
	users ports.UserRepository,
	generator ports.TextGenerator,
	turns ports.TurnSerializer,
	log zerolog.Logger,
) *ConsultationService {
	return &ConsultationService{
		consultations: consultations,
		messages:      messages,
		doctors:       doctors,
		users:         users,
		generator:     generator,
		turns:         turns,
		log:           log,
		now:           time.Now,
	}
}

// Create inserts a pending consultation and returns it with the doctor
// profile attached.
func (s *ConsultationService) Create(ctx context.Context, userID, doctorID string) (*ports.ConsultationWithDoctor, error) {
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	created, err := s.consultations.Create(ctx, &domain.Consultation{
		UserID:    userID,
		DoctorID:  doctorID,
		Status:    domain.StatusPending,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create consultation")
		return nil, err
	}

	s.log.Info().Str("consultation_id", created.ID).Str("user_id", userID).Str("doctor_id", doctorID).Msg("consultation created")
	return &ports.ConsultationWithDoctor{Consultation: *created, Doctor: doctor}, nil
}

// ListForUser returns the caller's consultations, newest first, each with
// the doctor profile attached.
func (s *ConsultationService) ListForUser(ctx context.Context, userID string) ([]ports.ConsultationWithDoctor, error) {
	consultations, err := s.consultations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	doctorCache := make(map[string]*domain.Doctor)
	out := make([]ports.ConsultationWithDoctor, 0, len(consultations))
	for _, c := range consultations {
		doctor, ok := doctorCache[c.DoctorID]
		if !ok {
			doctor, err = s.doctors.FindByID(ctx, c.DoctorID)
			if err != nil && !errors.Is(err, domain.ErrDoctorNotFound) {
				return nil, err
			}
			doctorCache[c.DoctorID] = doctor
		}
		out = append(out, ports.ConsultationWithDoctor{Consultation: *c, Doctor: doctor})
	}
	return out, nil
}

// GetDetail loads the consultation with doctor, patient, and the full
// ordered transcript. Only the owner may read it.
func (s *ConsultationService) GetDetail(ctx context.Context, consultationID, requestingUserID string) (*ports.ConsultationDetail, error) {
	c, err := s.consultations.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if c.UserID != requestingUserID {
		return nil, domain.ErrForbidden
	}

	doctor, err := s.doctors.FindByID(ctx, c.DoctorID)
	if err != nil && !errors.Is(err, domain.ErrDoctorNotFound) {
		return nil, err
	}

	patient, err := s.users.FindByID(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	transcript, err := s.messages.ListByConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	return &ports.ConsultationDetail{
		Consultation: *c,
		Doctor:       doctor,
		Patient: ports.UserSummary{
			ID:        patient.ID,
			Username:  patient.Username,
			Email:     patient.Email,
			FirstName: patient.FirstName,
			LastName:  patient.LastName,
		},
		Transcript: transcript,
	}, nil
}

// Start moves the consultation to active. Starting an already-active
// consultation is a no-op; the status is re-validated before any write.
func (s *ConsultationService) Start(ctx context.Context, consultationID string) (*domain.Consultation, error) {
	return s.transition(ctx, consultationID, domain.StatusActive)
}

// End moves the consultation to completed, its terminal state. Ending an
// already-completed consultation is a no-op.
func (s *ConsultationService) End(ctx context.Context, consultationID string) (*domain.Consultation, error) {
	return s.transition(ctx, consultationID, domain.StatusCompleted)
}

func (s *ConsultationService) transition(ctx context.Context, consultationID string, target domain.ConsultationStatus) (*domain.Consultation, error) {
	c, err := s.consultations.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if c.Status == target {
		return c, nil
	}
	if !c.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, c.Status, target)
	}

	updated, err := s.consultations.SetStatus(ctx, consultationID, target, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("consultation_id", consultationID).Str("status", string(target)).Msg("consultation transitioned")
	return updated, nil
}

// AppendUserTurn persists the user message, asks the completion provider for
// a reply with the full transcript as context, persists that reply, and
// returns it. The whole sequence runs serialized per consultation.
func (s *ConsultationService) AppendUserTurn(ctx context.Context, consultationID, text string) (*domain.Message, error) {
	var assistant *domain.Message
	err := s.turns.Do(ctx, consultationID, func(ctx context.Context) error {
		m, err := s.runTurn(ctx, consultationID, text)
		if err != nil {
			return err
		}
		assistant = m
		return nil
	})
	if err != nil {
		metrics.ConsultationTurnsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	metrics.ConsultationTurnsTotal.WithLabelValues("ok").Inc()
	return assistant, nil
}

// runTurn executes one serialized turn.
func (s *ConsultationService) runTurn(ctx context.Context, consultationID, text string) (*domain.Message, error) {
	started := s.now()

	// 1. Load the consultation and re-validate its status before any write.
	c, err := s.consultations.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.StatusActive {
		return nil, domain.ErrConsultationNotActive
	}

	doctor, err := s.doctors.FindByID(ctx, c.DoctorID)
	if err != nil {
		return nil, err
	}
	patient, err := s.users.FindByID(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	// 2. Persist the user turn.
	if _, err := s.messages.Append(ctx, &domain.Message{
		ConsultationID: consultationID,
		Role:           domain.RoleUser,
		Content:        text,
		Timestamp:      s.now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	// 3. Reload the transcript so the completion call sees its own input:
	//    the last entry must be the user turn just written.
	transcript, err := s.messages.ListByConsultation(ctx, consultationID)
	if err != nil {
		return nil, fmt.Errorf("reload transcript: %w", err)
	}

	// 4. Build the prompt and generate. The generator never fails; provider
	//    errors come back as a safe fallback message.
	_, messages := prompt.Build(doctor, patient, transcript, s.now())
	reply := s.generator.Generate(ctx, messages, ports.GenerateOptions{Stop: prompt.StopSequences()})

	// 5. Persist the assistant turn.
	assistant, err := s.messages.Append(ctx, &domain.Message{
		ConsultationID: consultationID,
		Role:           domain.RoleAssistant,
		Content:        reply,
		Timestamp:      s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}

	metrics.TurnDuration.Observe(s.now().Sub(started).Seconds())
	s.log.Info().
		Str("consultation_id", consultationID).
		Int("transcript_len", len(transcript)+1).
		Msg("turn completed")

	return assistant, nil
}

// UpdateNotes overwrites the notes field. A non-owner gets ErrForbidden
// whether or not the consultation exists, so the check leaks nothing.
func (s *ConsultationService) UpdateNotes(ctx context.Context, consultationID, notes, requestingUserID string) (*domain.Consultation, error) {
	c, err := s.consultations.FindByID(ctx, consultationID)
	if err != nil {
		if errors.Is(err, domain.ErrConsultationNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if c.UserID != requestingUserID {
		return nil, domain.ErrForbidden
	}

	return s.consultations.UpdateNotes(ctx, consultationID, notes)
}
