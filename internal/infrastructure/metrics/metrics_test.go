//go:build unit
// +build unit

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/app"
	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ app.Metrics = (*Registry)(nil)

func TestPaymentMetrics(t *testing.T) {
	r := NewRegistry()

	r.PaymentInitiated()
	r.PaymentInitiated()
	r.PaymentCompleted(payments.StatusSuccessful)
	r.PaymentCompleted(payments.StatusFailed)
	r.PaymentCompleted(payments.StatusFailed)
	r.SetQueueDepth(7)
	r.ReconciliationRun(3)
	r.ObserveMNORequest("success", 1500*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.paymentsInitiated))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.paymentsCompleted.WithLabelValues("SUCCESSFUL")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.paymentsCompleted.WithLabelValues("FAILED")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.queueDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reconciliations))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.reconciledFailed))
	assert.Equal(t, 1, testutil.CollectAndCount(r.mnoDuration))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRegistry()

	router := gin.New()
	router.Use(r.Middleware())
	router.GET("/api/v1/payments/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/actuator/prometheus", gin.WrapH(r.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/api/v1/payments/:id", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.httpInFlight))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/actuator/prometheus", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "b2c_payment_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
