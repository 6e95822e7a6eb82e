package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Field      string `json:"field,omitempty"`
	ErrorCode  string `json:"errorCode,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to deterministic HTTP codes and error codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope on every 4xx/5xx.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg, code, field := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{
			StatusCode: status,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Path:       c.Request().URL.Path,
			Method:     c.Request().Method,
			Message:    msg,
			Success:    false,
			Field:      field,
			ErrorCode:  code,
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (status int, msg, code, field string) {
	// Echo's own errors (bind failures, 404 from router, validation).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprintf("%v", he.Message)
		if he.Code == http.StatusBadRequest {
			return he.Code, msg, "VALIDATION_FAILED", ""
		}
		return he.Code, msg, "", ""
	}

	// Known domain errors → deterministic codes.
	switch {
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "email already registered", "EMAIL_EXISTS", ""
	case errors.Is(err, domain.ErrUsernameExists):
		return http.StatusConflict, "username already taken", "USERNAME_EXISTS", ""
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, "password must be at least 6 characters", "WEAK_PASSWORD", "password"
	case errors.Is(err, domain.ErrEmailNotFound):
		return http.StatusUnauthorized, "email not registered", "EMAIL_NOT_FOUND", ""
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusUnauthorized, "invalid password", "INVALID_PASSWORD", ""
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", "USER_NOT_FOUND", ""
	case errors.Is(err, domain.ErrDoctorNotFound):
		return http.StatusNotFound, "doctor not found", "DOCTOR_NOT_FOUND", ""
	case errors.Is(err, domain.ErrConsultationNotFound):
		return http.StatusNotFound, "consultation not found", "CONSULTATION_NOT_FOUND", ""
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", "FORBIDDEN", ""
	case errors.Is(err, domain.ErrConsultationNotActive):
		return http.StatusUnprocessableEntity, "consultation is not active", "CONSULTATION_NOT_ACTIVE", ""
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error(), "INVALID_TRANSITION", ""
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", "", ""
}
