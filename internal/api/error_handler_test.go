package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/test/path", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if jsonErr := json.Unmarshal(rec.Body.Bytes(), &body); jsonErr != nil {
		t.Fatalf("invalid envelope: %v", jsonErr)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrEmailExists, http.StatusConflict, "EMAIL_EXISTS"},
		{domain.ErrUsernameExists, http.StatusConflict, "USERNAME_EXISTS"},
		{domain.ErrWeakPassword, http.StatusBadRequest, "WEAK_PASSWORD"},
		{domain.ErrEmailNotFound, http.StatusUnauthorized, "EMAIL_NOT_FOUND"},
		{domain.ErrInvalidPassword, http.StatusUnauthorized, "INVALID_PASSWORD"},
		{domain.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{domain.ErrDoctorNotFound, http.StatusNotFound, "DOCTOR_NOT_FOUND"},
		{domain.ErrConsultationNotFound, http.StatusNotFound, "CONSULTATION_NOT_FOUND"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrConsultationNotActive, http.StatusUnprocessableEntity, "CONSULTATION_NOT_ACTIVE"},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, "INVALID_TRANSITION"},
	}

	for _, tc := range cases {
		status, body := renderError(t, tc.err)
		if status != tc.status || body.ErrorCode != tc.code {
			t.Errorf("%v: got %d/%s, want %d/%s", tc.err, status, body.ErrorCode, tc.status, tc.code)
		}
		if body.Success {
			t.Errorf("%v: success must be false", tc.err)
		}
		if body.StatusCode != status {
			t.Errorf("%v: statusCode %d does not match HTTP status %d", tc.err, body.StatusCode, status)
		}
	}
}

func TestErrorHandler_EnvelopeCarriesRequestContext(t *testing.T) {
	_, body := renderError(t, domain.ErrForbidden)
	if body.Path != "/test/path" || body.Method != http.MethodPost {
		t.Fatalf("missing request context: %+v", body)
	}
	if body.Timestamp == "" {
		t.Fatalf("missing timestamp")
	}
}

func TestErrorHandler_WeakPasswordNamesField(t *testing.T) {
	_, body := renderError(t, domain.ErrWeakPassword)
	if body.Field != "password" {
		t.Fatalf("expected field=password, got %q", body.Field)
	}
}

func TestErrorHandler_WrappedTransitionKeepsDetail(t *testing.T) {
	err := fmt.Errorf("%w (from pending to completed)", domain.ErrInvalidTransition)
	status, body := renderError(t, err)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if body.Message != err.Error() {
		t.Fatalf("transition message lost: %q", body.Message)
	}
}

func TestErrorHandler_ValidationHTTPError(t *testing.T) {
	status, body := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "email must be a valid email"))
	if status != http.StatusBadRequest || body.ErrorCode != "VALIDATION_FAILED" {
		t.Fatalf("expected 400/VALIDATION_FAILED, got %d/%s", status, body.ErrorCode)
	}
}

func TestErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	status, body := renderError(t, errors.New("mongo: socket was unexpectedly closed"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
	if body.ErrorCode != "" {
		t.Fatalf("unexpected error code: %q", body.ErrorCode)
	}
}
