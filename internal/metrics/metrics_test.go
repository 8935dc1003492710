package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/complaints/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/complaints/1", "/complaints/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/complaints/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveTransition(t *testing.T) {
	m := metrics.NewMetrics()

	m.ObserveTransition(models.EventResolved)
	m.ObserveTransition(models.EventResolved)
	m.ObserveTransition(models.EventSubmitted)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("submitted")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := metrics.NewMetrics()
	m.ObserveTransition(models.EventSeen)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `complaint_transitions_total{transition="seen"} 1`)
}
