package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg, Config{ServiceName: "test", Environment: "test"})
	require.NoError(t, err)

	m.InvoiceCreated(2)
	m.LineItemsAppended(3)
	m.PaymentApplied("PAID", decimal.RequireFromString("60.00"))
	m.OperationFailed("pay", "ALREADY_SETTLED")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesCreated))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.lineItemsAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentsApplied.WithLabelValues("PAID")))
	assert.Equal(t, 60.0, testutil.ToFloat64(m.paymentAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationFailures.WithLabelValues("pay", "ALREADY_SETTLED")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.InvoiceCreated(1)
		m.LineItemsAppended(1)
		m.PaymentApplied("PAID", decimal.NewFromInt(1))
		m.OperationFailed("create", "DUPLICATE_KEY")
	})
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, Config{})
	require.NoError(t, err)

	_, err = New(reg, Config{})
	assert.Error(t, err)
}

func TestGinMiddlewareObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := New(reg, Config{})
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}
