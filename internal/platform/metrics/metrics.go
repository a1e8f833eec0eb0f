// Package metrics registers the service's Prometheus collectors and exposes
// helpers to record HTTP, report-sync and completion activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emr_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emr_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	medicalReportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emr_medical_reports_total",
			Help: "Total number of medical reports filed",
		},
	)

	derivedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emr_derived_records_total",
			Help: "Total number of health, dental and vision records derived from medical reports",
		},
		[]string{"kind"},
	)

	completionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emr_completion_requests_total",
			Help: "Total number of completion service calls",
		},
		[]string{"kind", "outcome"},
	)

	phiAccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emr_phi_access_total",
			Help: "Total number of audited patient record accesses",
		},
		[]string{"action", "status"},
	)

	completionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emr_completion_duration_seconds",
			Help:    "Completion service call duration in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)
)

// Handler returns the Prometheus metrics endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// Middleware records request counts and latency. The route template (e.g.
// /api/patient/:id) is used as the path label to keep cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = 500
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// RecordMedicalReport records a filed report and the derived records it produced.
func RecordMedicalReport(health, dental, vision bool) {
	medicalReportsTotal.Inc()
	if health {
		derivedRecordsTotal.WithLabelValues("health").Inc()
	}
	if dental {
		derivedRecordsTotal.WithLabelValues("dental").Inc()
	}
	if vision {
		derivedRecordsTotal.WithLabelValues("vision").Inc()
	}
}

// RecordCompletion records one completion call. outcome is ok, error,
// unconfigured or skipped.
func RecordCompletion(kind, outcome string, d time.Duration) {
	completionRequestsTotal.WithLabelValues(kind, outcome).Inc()
	if outcome == "ok" || outcome == "error" {
		completionDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// RecordPHIAccess counts one audited access to patient data.
func RecordPHIAccess(action string, status int) {
	phiAccessTotal.WithLabelValues(action, strconv.Itoa(status)).Inc()
}
