package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/synapse/emr/internal/config"
	"github.com/synapse/emr/internal/domain/account"
	"github.com/synapse/emr/internal/domain/assistant"
	"github.com/synapse/emr/internal/domain/patient"
	"github.com/synapse/emr/internal/platform/completion"
	"github.com/synapse/emr/internal/platform/db"
	"github.com/synapse/emr/internal/platform/docstore"
	"github.com/synapse/emr/internal/platform/metrics"
	"github.com/synapse/emr/internal/platform/middleware"
)

// newServer wires the domain handlers onto a new echo instance.
func newServer(cfg *config.Config, logger zerolog.Logger, st docstore.Store, gen completion.Generator) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(middleware.Audit(logger, middleware.AuditRecorderFunc(func(entry middleware.AuditEntry) error {
		metrics.RecordPHIAccess(entry.Action, entry.StatusCode)
		return nil
	})))

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "The Synapse EMR backend is running!")
	})
	e.GET("/health", healthHandler(st, gen))
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")
	api.Use(middleware.BodyLimit(cfg.BodyLimit))
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	patientSvc := patient.NewService(patient.NewDocumentRepository(st, cfg.PatientsDocument))
	patient.NewHandler(patientSvc).RegisterRoutes(api)

	accountSvc := account.NewService(account.NewDocumentStore(st, cfg.UsersDocument))
	account.NewHandler(accountSvc).RegisterRoutes(api)

	assistantSvc := assistant.NewService(patientSvc, gen, logger)
	assistant.NewHandler(assistantSvc).RegisterRoutes(api)

	return e
}

// healthHandler pings the store. An unconfigured completion service is
// reported but does not degrade the status.
func healthHandler(st docstore.Store, gen completion.Generator) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		resp := map[string]interface{}{
			"status":  "ok",
			"version": version,
			"store":   "ok",
		}
		resp["completion"] = "unconfigured"
		if completion.IsConfigured(gen) {
			resp["completion"] = "configured"
		}
		code := http.StatusOK
		if err := st.Ping(ctx); err != nil {
			resp["status"] = "degraded"
			resp["store"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if s, ok := st.(*store); ok && s.pool != nil {
			resp["db"] = db.GetPoolStats(s.pool)
		}
		return c.JSON(code, resp)
	}
}
