package assistant

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synapse/emr/internal/domain/patient"
	"github.com/synapse/emr/internal/platform/completion"
	"github.com/synapse/emr/internal/platform/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patient/:id/summary", h.Summary)
	api.GET("/patient/:id/ai_care_plan", h.CarePlan)
	api.GET("/patient/:id/ai_prescription", h.Prescription)
}

type summaryRequest struct {
	Section string `json:"section"`
}

func (h *Handler) Summary(c echo.Context) error {
	var req summaryRequest
	if err := c.Bind(&req); err != nil {
		return middleware.BindError(err)
	}
	text, err := h.svc.Summary(c.Request().Context(), c.Param("id"), req.Section)
	if err != nil {
		return completionError(err, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"summary": text})
}

func (h *Handler) CarePlan(c echo.Context) error {
	text, err := h.svc.CarePlan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return completionError(err, "An internal server error occurred: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"care_plan": text})
}

func (h *Handler) Prescription(c echo.Context) error {
	text, err := h.svc.Prescription(c.Request().Context(), c.Param("id"))
	if err != nil {
		return completionError(err, "An internal server error occurred: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"prescription": text})
}

// completionError maps a service error to its HTTP response; msg is used for
// unexpected failures.
func completionError(err error, msg string) error {
	switch {
	case errors.Is(err, patient.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	case errors.Is(err, completion.ErrUnconfigured):
		return echo.NewHTTPError(http.StatusInternalServerError, completion.ErrUnconfigured.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, msg).SetInternal(err)
}
