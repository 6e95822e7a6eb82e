package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
	"github.com/healthywell/telemedicine-api/internal/core/ports"
	"github.com/healthywell/telemedicine-api/internal/infrastructure/ai"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubConsultationRepo struct {
	items  map[string]*domain.Consultation
	nextID int
}

func newStubConsultationRepo() *stubConsultationRepo {
	return &stubConsultationRepo{items: make(map[string]*domain.Consultation)}
}

func (r *stubConsultationRepo) Create(_ context.Context, c *domain.Consultation) (*domain.Consultation, error) {
	r.nextID++
	clone := *c
	clone.ID = fmt.Sprintf("c%d", r.nextID)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubConsultationRepo) FindByID(_ context.Context, id string) (*domain.Consultation, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrConsultationNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubConsultationRepo) ListByUser(_ context.Context, userID string) ([]*domain.Consultation, error) {
	var out []*domain.Consultation
	for _, c := range r.items {
		if c.UserID == userID {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubConsultationRepo) SetStatus(_ context.Context, id string, status domain.ConsultationStatus, at time.Time) (*domain.Consultation, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrConsultationNotFound
	}
	c.Status = status
	switch status {
	case domain.StatusActive:
		c.StartedAt = &at
	case domain.StatusCompleted:
		c.EndedAt = &at
	}
	out := *c
	return &out, nil
}

func (r *stubConsultationRepo) UpdateNotes(_ context.Context, id, notes string) (*domain.Consultation, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrConsultationNotFound
	}
	c.Notes = notes
	out := *c
	return &out, nil
}

type stubMessageRepo struct {
	messages []domain.Message
	nextID   int
}

func (r *stubMessageRepo) Append(_ context.Context, m *domain.Message) (*domain.Message, error) {
	r.nextID++
	clone := *m
	clone.ID = fmt.Sprintf("m%d", r.nextID)
	r.messages = append(r.messages, clone)
	return &clone, nil
}

func (r *stubMessageRepo) ListByConsultation(_ context.Context, consultationID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.messages {
		if m.ConsultationID == consultationID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type stubDoctorRepo struct {
	doctors map[string]*domain.Doctor
}

func (r *stubDoctorRepo) List(_ context.Context) ([]*domain.Doctor, error) {
	var out []*domain.Doctor
	for _, d := range r.doctors {
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubDoctorRepo) FindByID(_ context.Context, id string) (*domain.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	out := *d
	return &out, nil
}

func (r *stubDoctorRepo) Create(_ context.Context, doctor *domain.Doctor) (*domain.Doctor, error) {
	clone := *doctor
	clone.ID = fmt.Sprintf("d%d", len(r.doctors)+1)
	r.doctors[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubDoctorRepo) Update(_ context.Context, id string, update ports.DoctorUpdate) (*domain.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	if update.Name != nil {
		d.Name = *update.Name
	}
	if update.IsAvailable != nil {
		d.IsAvailable = *update.IsAvailable
	}
	out := *d
	return &out, nil
}

func (r *stubDoctorRepo) Delete(_ context.Context, id string) (*domain.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	delete(r.doctors, id)
	return d, nil
}

// recordingGenerator returns a canned reply and remembers the messages it was
// given.
type recordingGenerator struct {
	reply string
	calls int
	last  []ports.ChatMessage
}

func (g *recordingGenerator) Generate(_ context.Context, messages []ports.ChatMessage, _ ports.GenerateOptions) string {
	g.calls++
	g.last = messages
	return g.reply
}

// inlineSerializer runs the turn on the calling goroutine, no queueing.
type inlineSerializer struct{}

func (inlineSerializer) Do(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}

// failingClient always fails with a fatal provider error.
type failingClient struct{ calls int }

func (c *failingClient) Generate(context.Context, []ports.ChatMessage, ports.GenerateOptions) (string, error) {
	c.calls++
	return "", &ai.ProviderError{Kind: ai.KindAuth, Status: 401, Err: errors.New("invalid api key")}
}

// ---------------------------------------------------------------------------

type consultationFixture struct {
	svc           *ConsultationService
	consultations *stubConsultationRepo
	messages      *stubMessageRepo
	generator     *recordingGenerator
}

func newConsultationFixture(t *testing.T) *consultationFixture {
	t.Helper()

	consultations := newStubConsultationRepo()
	messages := &stubMessageRepo{}
	doctors := &stubDoctorRepo{doctors: map[string]*domain.Doctor{
		"doc1": {ID: "doc1", Name: "Dr. Sari Wijaya", Specialization: "General Practitioner", Experience: 8, Bio: "Community medicine"},
	}}
	users := newStubUserRepo()
	users.users["u1"] = &domain.User{ID: "u1", Username: "budi", FirstName: "Budi", LastName: "Santoso", DateOfBirth: time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)}

	generator := &recordingGenerator{reply: "How long have you had the fever?"}
	svc := NewConsultationService(consultations, messages, doctors, users, generator, inlineSerializer{}, zerolog.Nop())

	// Deterministic, strictly increasing clock.
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	return &consultationFixture{svc: svc, consultations: consultations, messages: messages, generator: generator}
}

func TestConsultationService_Create_StartsPending(t *testing.T) {
	f := newConsultationFixture(t)

	created, err := f.svc.Create(context.Background(), "u1", "doc1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if created.StartedAt != nil || created.EndedAt != nil {
		t.Fatalf("lifecycle timestamps must be unset on creation")
	}
	if created.Doctor == nil || created.Doctor.ID != "doc1" {
		t.Fatalf("doctor not attached: %+v", created.Doctor)
	}
}

func TestConsultationService_Create_UnknownDoctor(t *testing.T) {
	f := newConsultationFixture(t)

	if _, err := f.svc.Create(context.Background(), "u1", "ghost"); !errors.Is(err, domain.ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
	if len(f.consultations.items) != 0 {
		t.Fatalf("no consultation must be created for an unknown doctor")
	}
}

func TestConsultationService_Lifecycle(t *testing.T) {
	f := newConsultationFixture(t)
	created, _ := f.svc.Create(context.Background(), "u1", "doc1")

	started, err := f.svc.Start(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.Status != domain.StatusActive || started.StartedAt == nil {
		t.Fatalf("start must set active + started_at: %+v", started)
	}

	// Starting again is a no-op, not an error, and keeps the timestamp.
	again, err := f.svc.Start(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("repeated start failed: %v", err)
	}
	if !again.StartedAt.Equal(*started.StartedAt) {
		t.Fatalf("repeated start must not rewrite started_at")
	}

	ended, err := f.svc.End(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if ended.Status != domain.StatusCompleted || ended.EndedAt == nil {
		t.Fatalf("end must set completed + ended_at: %+v", ended)
	}

	// Completed is terminal: re-ending is a no-op, restarting is invalid.
	if _, err := f.svc.End(context.Background(), created.ID); err != nil {
		t.Fatalf("repeated end failed: %v", err)
	}
	if _, err := f.svc.Start(context.Background(), created.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestConsultationService_End_SkipsPending(t *testing.T) {
	f := newConsultationFixture(t)
	created, _ := f.svc.Create(context.Background(), "u1", "doc1")

	if _, err := f.svc.End(context.Background(), created.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pending cannot jump to completed, got %v", err)
	}
}

func TestConsultationService_AppendUserTurn_RequiresActive(t *testing.T) {
	f := newConsultationFixture(t)
	created, _ := f.svc.Create(context.Background(), "u1", "doc1")

	if _, err := f.svc.AppendUserTurn(context.Background(), created.ID, "hello"); !errors.Is(err, domain.ErrConsultationNotActive) {
		t.Fatalf("expected ErrConsultationNotActive on pending, got %v", err)
	}
	if len(f.messages.messages) != 0 {
		t.Fatalf("rejected turn must not persist any message")
	}

	_, _ = f.svc.Start(context.Background(), created.ID)
	_, _ = f.svc.End(context.Background(), created.ID)
	if _, err := f.svc.AppendUserTurn(context.Background(), created.ID, "hello"); !errors.Is(err, domain.ErrConsultationNotActive) {
		t.Fatalf("expected ErrConsultationNotActive on completed, got %v", err)
	}
	if f.generator.calls != 0 {
		t.Fatalf("rejected turns must not reach the completion provider")
	}
}

func TestConsultationService_AppendUserTurn_PersistsBothTurns(t *testing.T) {
	f := newConsultationFixture(t)
	created, _ := f.svc.Create(context.Background(), "u1", "doc1")
	_, _ = f.svc.Start(context.Background(), created.ID)

	assistant, err := f.svc.AppendUserTurn(context.Background(), created.ID, "I have had a fever since yesterday")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if assistant.Role != domain.RoleAssistant || assistant.Content != f.generator.reply {
		t.Fatalf("unexpected assistant message: %+v", assistant)
	}

	transcript, _ := f.messages.ListByConsultation(context.Background(), created.ID)
	if len(transcript) != 2 {
		t.Fatalf("expected exactly 2 persisted messages, got %d", len(transcript))
	}
	if transcript[0].Role != domain.RoleUser || transcript[1].Role != domain.RoleAssistant {
		t.Fatalf("messages out of order: %s, %s", transcript[0].Role, transcript[1].Role)
	}
	if !transcript[0].Timestamp.Before(transcript[1].Timestamp) {
		t.Fatalf("assistant timestamp must follow the user timestamp")
	}

	// The provider call must have seen the just-written user turn as the last
	// transcript entry.
	last := f.generator.last[len(f.generator.last)-1]
	if last.Role != "user" || last.Content != "I have had a fever since yesterday" {
		t.Fatalf("prompt did not end with the new user turn: %+v", last)
	}
}

func TestConsultationService_AppendUserTurn_PersistsFallbackOnProviderFailure(t *testing.T) {
	f := newConsultationFixture(t)
	client := &failingClient{}
	f.svc.generator = ai.NewResilientGenerator(client, ai.DefaultRetryPolicy(), zerolog.Nop())

	created, _ := f.svc.Create(context.Background(), "u1", "doc1")
	_, _ = f.svc.Start(context.Background(), created.ID)

	assistant, err := f.svc.AppendUserTurn(context.Background(), created.ID, "hello")
	if err != nil {
		t.Fatalf("turn must not fail when the provider does: %v", err)
	}
	if assistant.Content != ai.FallbackAuth {
		t.Fatalf("expected auth fallback text, got %q", assistant.Content)
	}
	if client.calls != 1 {
		t.Fatalf("fatal provider errors must not be retried, got %d calls", client.calls)
	}

	transcript, _ := f.messages.ListByConsultation(context.Background(), created.ID)
	if len(transcript) != 2 {
		t.Fatalf("fallback must still be persisted, got %d messages", len(transcript))
	}
}

func TestConsultationService_GetDetail_OwnerOnly(t *testing.T) {
	f := newConsultationFixture(t)
	created, _ := f.svc.Create(context.Background(), "u1", "doc1")

	if _, err := f.svc.GetDetail(context.Background(), created.ID, "intruder"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	detail, err := f.svc.GetDetail(context.Background(), created.ID, "u1")
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if detail.Patient.Username != "budi" || detail.Doctor.ID != "doc1" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestConsultationService_GetDetail_Missing(t *testing.T) {
	f := newConsultationFixture(t)

	if _, err := f.svc.GetDetail(context.Background(), "ghost", "u1"); !errors.Is(err, domain.ErrConsultationNotFound) {
		t.Fatalf("expected ErrConsultationNotFound, got %v", err)
	}
}

func TestConsultationService_ListForUser_NewestFirst(t *testing.T) {
	f := newConsultationFixture(t)
	first, _ := f.svc.Create(context.Background(), "u1", "doc1")
	second, _ := f.svc.Create(context.Background(), "u1", "doc1")
	_, _ = f.svc.Create(context.Background(), "someone-else", "doc1")

	list, err := f.svc.ListForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 consultations, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s then %s", list[0].ID, list[1].ID)
	}
}

func TestConsultationService_UpdateNotes(t *testing.T) {
	f := newConsultationFixture(t)
	created, _ := f.svc.Create(context.Background(), "u1", "doc1")

	updated, err := f.svc.UpdateNotes(context.Background(), created.ID, "patient reported improvement", "u1")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Notes != "patient reported improvement" {
		t.Fatalf("notes not written: %q", updated.Notes)
	}

	// Non-owners and missing ids both read as forbidden.
	if _, err := f.svc.UpdateNotes(context.Background(), created.ID, "x", "intruder"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := f.svc.UpdateNotes(context.Background(), "ghost", "x", "u1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for missing consultation, got %v", err)
	}
}
