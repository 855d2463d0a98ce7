package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated("stripe")
		m.PaymentProcessed("stripe", "succeeded")
		m.WebhookDuplicate("stripe")
		m.Oversold(2)
		m.Refunded(true)
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
	})
}

func TestCountersAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("api")
	require.NoError(t, m.Register(reg))

	m.OrderCreated("stripe")
	m.OrderCreated("stripe")
	m.PaymentProcessed("chargily", "failed")
	m.Oversold(3)
	m.Refunded(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("stripe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentsProcessed.WithLabelValues("chargily", "failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StockOversold))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refunds.WithLabelValues("full")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "satshop_api_orders_created_total")
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, New("api").Register(reg))
	assert.Error(t, New("api").Register(reg))
}
