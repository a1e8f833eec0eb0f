package patient

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synapse/emr/internal/platform/middleware"
)

const (
	msgNotFound      = "Patient not found"
	msgValidation    = "Name and DOB are required."
	msgInternalError = "An internal server error occurred"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patient/:id", h.GetPatient)
	api.POST("/patient/add", h.CreatePatient)
	api.POST("/patient/:id/update", h.UpdatePatient)
	api.POST("/patient/:id/add_medical_report", h.AddMedicalReport)
}

func (h *Handler) ListPatients(c echo.Context) error {
	list, err := h.svc.ListPatients(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgNotFound)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in NewPatient
	if err := c.Bind(&in); err != nil {
		return middleware.BindError(err)
	}
	p, err := h.svc.CreatePatient(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, msgValidation)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternalError).SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Patient added successfully",
		"patient": p,
	})
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return middleware.BindError(err)
	}
	if err := h.svc.UpdatePatient(c.Request().Context(), c.Param("id"), p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgNotFound)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternalError).SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Patient record updated successfully",
	})
}

func (h *Handler) AddMedicalReport(c echo.Context) error {
	var report MedicalReport
	if err := c.Bind(&report); err != nil {
		return middleware.BindError(err)
	}
	if err := report.checkShape(); err != nil {
		return middleware.BindError(err)
	}
	if _, err := h.svc.AddMedicalReport(c.Request().Context(), c.Param("id"), report); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgNotFound)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternalError).SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Medical report added and all sections synced.",
	})
}
