package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

// ConsultationHandler handles HTTP requests for the consultation lifecycle
// and chat.
type ConsultationHandler struct {
	service ports.ConsultationService
}

func NewConsultationHandler(service ports.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: service}
}

// Create opens a new pending consultation with the chosen doctor.
//
// @Summary      Create a consultation
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createConsultationRequest  true  "Doctor to consult"
// @Success      201   {object}  ports.ConsultationWithDoctor
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /consultations [post]
func (h *ConsultationHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createConsultationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), userID, req.DoctorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// List returns the caller's consultations, newest first.
//
// @Summary      List own consultations
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.ConsultationWithDoctor
// @Failure      401  {object}  errorResponse
// @Router       /consultations [get]
func (h *ConsultationHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	list, err := h.service.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []ports.ConsultationWithDoctor{}
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns the consultation with its full transcript. Owner only.
//
// @Summary      Get a consultation with transcript
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Consultation id"
// @Success      200  {object}  ports.ConsultationDetail
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /consultations/{id} [get]
func (h *ConsultationHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetDetail(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Start moves a pending consultation to active.
//
// @Summary      Start a consultation
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Consultation id"
// @Success      200  {object}  domain.Consultation
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /consultations/{id}/start [post]
func (h *ConsultationHandler) Start(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	consultation, err := h.service.Start(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, consultation)
}

// End moves an active consultation to completed.
//
// @Summary      End a consultation
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Consultation id"
// @Success      200  {object}  domain.Consultation
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /consultations/{id}/end [post]
func (h *ConsultationHandler) End(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	consultation, err := h.service.End(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, consultation)
}

// SendMessage appends a user turn and returns the generated doctor reply.
//
// @Summary      Send a message in a consultation
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Consultation id"
// @Param        body  body      consultationMessageRequest  true  "User message"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /consultations/{id}/messages [post]
func (h *ConsultationHandler) SendMessage(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	var req consultationMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	assistant, err := h.service.AppendUserTurn(c.Request().Context(), c.Param("id"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, assistant)
}

// UpdateNotes overwrites the consultation notes. Owner only.
//
// @Summary      Update consultation notes
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Consultation id"
// @Param        body  body      updateNotesRequest  true  "Notes"
// @Success      200   {object}  domain.Consultation
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /consultations/{id}/notes [patch]
func (h *ConsultationHandler) UpdateNotes(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateNotesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	consultation, err := h.service.UpdateNotes(c.Request().Context(), c.Param("id"), req.Notes, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, consultation)
}
