package domain

import (
	"errors"
	"time"
)

// ConsultationStatus represents the lifecycle state of a consultation.
type ConsultationStatus string

const (
	StatusPending   ConsultationStatus = "pending"
	StatusActive    ConsultationStatus = "active"
	StatusCompleted ConsultationStatus = "completed"
)

// validTransitions defines the allowed state machine transitions.
// completed is terminal.
var validTransitions = map[ConsultationStatus][]ConsultationStatus{
	StatusPending: {StatusActive},
	StatusActive:  {StatusCompleted},
}

var ErrConsultationNotFound = errors.New("consultation not found")
var ErrConsultationNotActive = errors.New("consultation is not active")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s ConsultationStatus) CanTransitionTo(next ConsultationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Consultation is the core aggregate root. A consultation is created in
// pending by a patient selecting a doctor, explicitly started, and explicitly
// ended. Messages may only be appended while it is active.
type Consultation struct {
	ID        string             `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	DoctorID  string             `json:"doctor_id" bson:"doctor_id"`
	Status    ConsultationStatus `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	StartedAt *time.Time         `json:"started_at,omitempty" bson:"started_at,omitempty"`
	EndedAt   *time.Time         `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
}
