package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Audit actions.
const (
	ActionList   = "list"
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionReport = "report"
	ActionAI     = "ai"
)

// AuditEntry describes one access to patient data.
type AuditEntry struct {
	PatientID  string
	Action     string
	Method     string
	Path       string
	Route      string
	IPAddress  string
	UserAgent  string
	RequestID  string
	StatusCode int
	Timestamp  time.Time
}

// AuditRecorder receives every audit entry in addition to the log event.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit logs an "audit" event for every request touching patient records
// (/api/patients and /api/patient/...), after the handler has run so the
// final status is known.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !isPatientPath(req.URL.Path) {
				return next(c)
			}

			err := next(c)

			entry := AuditEntry{
				PatientID:  c.Param("id"),
				Action:     auditAction(req.Method, c.Path()),
				Method:     req.Method,
				Path:       req.URL.Path,
				Route:      c.Path(),
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				RequestID:  requestID(c),
				StatusCode: responseStatus(c, err),
				Timestamp:  time.Now().UTC(),
			}

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "phi_access").
				Str("request_id", entry.RequestID).
				Str("patient_id", entry.PatientID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("audit")

			return err
		}
	}
}

func isPatientPath(path string) bool {
	return path == "/api/patients" || strings.HasPrefix(path, "/api/patient/")
}

// auditAction derives the action from the matched route template.
func auditAction(method, route string) string {
	switch {
	case route == "/api/patients":
		return ActionList
	case route == "/api/patient/add":
		return ActionCreate
	case strings.HasSuffix(route, "/update"):
		return ActionUpdate
	case strings.HasSuffix(route, "/add_medical_report"):
		return ActionReport
	case strings.HasSuffix(route, "/summary"),
		strings.HasSuffix(route, "/ai_care_plan"),
		strings.HasSuffix(route, "/ai_prescription"):
		return ActionAI
	}
	if method == http.MethodGet || method == http.MethodHead {
		return ActionRead
	}
	return ActionUpdate
}
