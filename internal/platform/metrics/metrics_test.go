package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/patient/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/patient/:id", "200"))

	for _, id := range []string{"p1", "p2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/patient/"+id, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/patient/:id", "200"))
	if after-before != 2 {
		t.Errorf("expected 2 requests recorded, got %v", after-before)
	}
}

func TestMiddleware_RecordsErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/missing/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/missing/:id", "404"))
	req := httptest.NewRequest(http.MethodGet, "/missing/x", nil)
	e.ServeHTTP(httptest.NewRecorder(), req)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/missing/:id", "404"))

	if after-before != 1 {
		t.Errorf("expected one 404 recorded, got %v", after-before)
	}
}

func TestRecordMedicalReport(t *testing.T) {
	before := testutil.ToFloat64(derivedRecordsTotal.WithLabelValues("dental"))
	reports := testutil.ToFloat64(medicalReportsTotal)

	RecordMedicalReport(false, true, false)

	if got := testutil.ToFloat64(derivedRecordsTotal.WithLabelValues("dental")) - before; got != 1 {
		t.Errorf("expected dental counter +1, got %v", got)
	}
	if got := testutil.ToFloat64(medicalReportsTotal) - reports; got != 1 {
		t.Errorf("expected report counter +1, got %v", got)
	}
}

func TestRecordCompletion(t *testing.T) {
	before := testutil.ToFloat64(completionRequestsTotal.WithLabelValues("summary", "skipped"))
	RecordCompletion("summary", "skipped", 0)
	RecordCompletion("summary", "ok", 10*time.Millisecond)

	if got := testutil.ToFloat64(completionRequestsTotal.WithLabelValues("summary", "skipped")) - before; got != 1 {
		t.Errorf("expected skipped counter +1, got %v", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordMedicalReport(true, false, false)

	e := echo.New()
	e.GET("/metrics", Handler())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "emr_medical_reports_total") {
		t.Error("expected emr_medical_reports_total in metrics output")
	}
}

func TestRecordPHIAccess(t *testing.T) {
	before := testutil.ToFloat64(phiAccessTotal.WithLabelValues("read", "404"))

	RecordPHIAccess("read", http.StatusNotFound)

	if got := testutil.ToFloat64(phiAccessTotal.WithLabelValues("read", "404")) - before; got != 1 {
		t.Errorf("expected read/404 counter +1, got %v", got)
	}
}
