package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

// DoctorHandler handles HTTP requests for the doctor directory.
type DoctorHandler struct {
	service ports.DoctorService
}

func NewDoctorHandler(service ports.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

type createDoctorRequest struct {
	Name           string  `json:"name"           validate:"required"`
	Specialization string  `json:"specialization" validate:"required"`
	Experience     int     `json:"experience"     validate:"gte=0"`
	Rating         float64 `json:"rating"         validate:"gte=0,lte=5"`
	Bio            string  `json:"bio"`
	PhotoURL       string  `json:"photoUrl"`
}

type updateDoctorRequest struct {
	Name           *string  `json:"name,omitempty"`
	Specialization *string  `json:"specialization,omitempty"`
	Experience     *int     `json:"experience,omitempty"     validate:"omitempty,gte=0"`
	Rating         *float64 `json:"rating,omitempty"         validate:"omitempty,gte=0,lte=5"`
	Bio            *string  `json:"bio,omitempty"`
	PhotoURL       *string  `json:"photoUrl,omitempty"`
	IsAvailable    *bool    `json:"isAvailable,omitempty"`
}

// List returns the full doctor directory.
//
// @Summary      List doctors
// @Tags         doctors
// @Produce      json
// @Success      200  {array}  domain.Doctor
// @Router       /doctors [get]
func (h *DoctorHandler) List(c echo.Context) error {
	doctors, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if doctors == nil {
		doctors = []*domain.Doctor{}
	}
	return c.JSON(http.StatusOK, doctors)
}

// Get returns a single doctor profile.
//
// @Summary      Get a doctor by id
// @Tags         doctors
// @Produce      json
// @Param        id   path      string  true  "Doctor id"
// @Success      200  {object}  domain.Doctor
// @Failure      404  {object}  errorResponse
// @Router       /doctors/{id} [get]
func (h *DoctorHandler) Get(c echo.Context) error {
	doctor, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if doctor == nil {
		return domain.ErrDoctorNotFound
	}
	return c.JSON(http.StatusOK, doctor)
}

// Create adds a doctor profile to the directory.
//
// @Summary      Create a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDoctorRequest  true  "Doctor profile"
// @Success      201   {object}  domain.Doctor
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /doctors [post]
func (h *DoctorHandler) Create(c echo.Context) error {
	var req createDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	doctor, err := h.service.Create(c.Request().Context(), ports.CreateDoctorInput{
		Name:           req.Name,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Rating:         req.Rating,
		Bio:            req.Bio,
		PhotoURL:       req.PhotoURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, doctor)
}

// Update applies a partial update to a doctor profile.
//
// @Summary      Update a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Doctor id"
// @Param        body  body      updateDoctorRequest  true  "Fields to update"
// @Success      200   {object}  domain.Doctor
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /doctors/{id} [put]
func (h *DoctorHandler) Update(c echo.Context) error {
	var req updateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	doctor, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.DoctorUpdate{
		Name:           req.Name,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Rating:         req.Rating,
		Bio:            req.Bio,
		PhotoURL:       req.PhotoURL,
		IsAvailable:    req.IsAvailable,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, doctor)
}

// Delete removes a doctor profile and returns the deleted record.
//
// @Summary      Delete a doctor
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Doctor id"
// @Success      200  {object}  domain.Doctor
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /doctors/{id} [delete]
func (h *DoctorHandler) Delete(c echo.Context) error {
	doctor, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctor)
}
