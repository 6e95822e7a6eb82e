package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

type stubConsultationService struct {
	createFn  func(ctx context.Context, userID, doctorID string) (*ports.ConsultationWithDoctor, error)
	listFn    func(ctx context.Context, userID string) ([]ports.ConsultationWithDoctor, error)
	detailFn  func(ctx context.Context, consultationID, requestingUserID string) (*ports.ConsultationDetail, error)
	startFn   func(ctx context.Context, consultationID string) (*domain.Consultation, error)
	endFn     func(ctx context.Context, consultationID string) (*domain.Consultation, error)
	messageFn func(ctx context.Context, consultationID, text string) (*domain.Message, error)
	notesFn   func(ctx context.Context, consultationID, notes, requestingUserID string) (*domain.Consultation, error)
}

func (s *stubConsultationService) Create(ctx context.Context, userID, doctorID string) (*ports.ConsultationWithDoctor, error) {
	return s.createFn(ctx, userID, doctorID)
}

func (s *stubConsultationService) ListForUser(ctx context.Context, userID string) ([]ports.ConsultationWithDoctor, error) {
	return s.listFn(ctx, userID)
}

func (s *stubConsultationService) GetDetail(ctx context.Context, consultationID, requestingUserID string) (*ports.ConsultationDetail, error) {
	return s.detailFn(ctx, consultationID, requestingUserID)
}

func (s *stubConsultationService) Start(ctx context.Context, consultationID string) (*domain.Consultation, error) {
	return s.startFn(ctx, consultationID)
}

func (s *stubConsultationService) End(ctx context.Context, consultationID string) (*domain.Consultation, error) {
	return s.endFn(ctx, consultationID)
}

func (s *stubConsultationService) AppendUserTurn(ctx context.Context, consultationID, text string) (*domain.Message, error) {
	return s.messageFn(ctx, consultationID, text)
}

func (s *stubConsultationService) UpdateNotes(ctx context.Context, consultationID, notes, requestingUserID string) (*domain.Consultation, error) {
	return s.notesFn(ctx, consultationID, notes, requestingUserID)
}

func TestConsultationHandler_Create(t *testing.T) {
	stub := &stubConsultationService{
		createFn: func(_ context.Context, userID, doctorID string) (*ports.ConsultationWithDoctor, error) {
			if userID != "u1" || doctorID != "doc1" {
				t.Fatalf("unexpected args: %s %s", userID, doctorID)
			}
			return &ports.ConsultationWithDoctor{
				Consultation: domain.Consultation{ID: "c1", UserID: userID, DoctorID: doctorID, Status: domain.StatusPending},
				Doctor:       &domain.Doctor{ID: doctorID, Name: "Dr. Sari"},
			}, nil
		},
	}
	h := NewConsultationHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/consultations", `{"doctorId":"doc1"}`)
	c.Set("user_id", "u1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "pending" {
		t.Fatalf("expected pending status, got %v", resp["status"])
	}
	doctor, ok := resp["doctor"].(map[string]any)
	if !ok || doctor["name"] != "Dr. Sari" {
		t.Fatalf("doctor not embedded: %+v", resp)
	}
}

func TestConsultationHandler_Create_MissingDoctorID(t *testing.T) {
	h := NewConsultationHandler(&stubConsultationService{})

	c, _ := newTestContext(t, http.MethodPost, "/consultations", `{}`)
	c.Set("user_id", "u1")

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 validation error, got %v", err)
	}
}

func TestConsultationHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubConsultationService{
		listFn: func(context.Context, string) ([]ports.ConsultationWithDoctor, error) {
			return nil, nil
		},
	}
	h := NewConsultationHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/consultations", "")
	c.Set("user_id", "u1")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	if body == "null\n" {
		t.Fatalf("empty list must serialize as [], got %q", body)
	}
}

func TestConsultationHandler_SendMessage(t *testing.T) {
	stub := &stubConsultationService{
		messageFn: func(_ context.Context, consultationID, text string) (*domain.Message, error) {
			if consultationID != "c1" || text != "I feel dizzy" {
				t.Fatalf("unexpected args: %s %q", consultationID, text)
			}
			return &domain.Message{ID: "m2", ConsultationID: consultationID, Role: domain.RoleAssistant, Content: "Since when?"}, nil
		},
	}
	h := NewConsultationHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/consultations/c1/messages", `{"message":"I feel dizzy"}`)
	c.Set("user_id", "u1")
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["role"] != "assistant" {
		t.Fatalf("expected assistant message, got %+v", resp)
	}
}

func TestConsultationHandler_SendMessage_InactivePropagates(t *testing.T) {
	stub := &stubConsultationService{
		messageFn: func(context.Context, string, string) (*domain.Message, error) {
			return nil, domain.ErrConsultationNotActive
		},
	}
	h := NewConsultationHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/consultations/c1/messages", `{"message":"hi"}`)
	c.Set("user_id", "u1")
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := h.SendMessage(c); !errors.Is(err, domain.ErrConsultationNotActive) {
		t.Fatalf("expected ErrConsultationNotActive, got %v", err)
	}
}

func TestConsultationHandler_UpdateNotes_ForwardsOwner(t *testing.T) {
	stub := &stubConsultationService{
		notesFn: func(_ context.Context, consultationID, notes, requestingUserID string) (*domain.Consultation, error) {
			if consultationID != "c1" || notes != "improving" || requestingUserID != "u1" {
				t.Fatalf("unexpected args: %s %q %s", consultationID, notes, requestingUserID)
			}
			return &domain.Consultation{ID: consultationID, Notes: notes}, nil
		},
	}
	h := NewConsultationHandler(stub)

	c, rec := newTestContext(t, http.MethodPatch, "/consultations/c1/notes", `{"notes":"improving"}`)
	c.Set("user_id", "u1")
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := h.UpdateNotes(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
