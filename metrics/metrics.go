// Package metrics exposes the storefront's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "satshop"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrdersCreated      *prometheus.CounterVec
	PaymentsProcessed  *prometheus.CounterVec
	WebhookDuplicates  *prometheus.CounterVec
	WebhookRejected    *prometheus.CounterVec
	StockOversold      prometheus.Counter
	Refunds            *prometheus.CounterVec
	PromotionsRedeemed prometheus.Counter
	CacheLookups       *prometheus.CounterVec
}

// New builds the collectors; subsystem must be a valid metric name fragment.
func New(subsystem string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orders_created_total",
			Help:      "Orders created, by payment method",
		}, []string{"payment_method"}),
		PaymentsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "payments_processed_total",
			Help:      "Payment events applied, by provider and outcome",
		}, []string{"provider", "outcome"}),
		WebhookDuplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "webhook_duplicates_total",
			Help:      "Webhook deliveries ignored because the event was already processed",
		}, []string{"provider"}),
		WebhookRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "webhook_rejected_total",
			Help:      "Webhook deliveries rejected on signature verification",
		}, []string{"provider"}),
		StockOversold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stock_oversold_total",
			Help:      "Order lines paid for with insufficient stock",
		}),
		Refunds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "refunds_total",
			Help:      "Refunds issued, by kind",
		}, []string{"kind"}),
		PromotionsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "promotions_redeemed_total",
			Help:      "Promotion codes redeemed",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups, by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersCreated,
		m.PaymentsProcessed,
		m.WebhookDuplicates,
		m.WebhookRejected,
		m.StockOversold,
		m.Refunds,
		m.PromotionsRedeemed,
		m.CacheLookups,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) OrderCreated(paymentMethod string) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(paymentMethod).Inc()
}

func (m *Metrics) PaymentProcessed(provider, outcome string) {
	if m == nil {
		return
	}
	m.PaymentsProcessed.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) WebhookDuplicate(provider string) {
	if m == nil {
		return
	}
	m.WebhookDuplicates.WithLabelValues(provider).Inc()
}

func (m *Metrics) WebhookRejectedSignature(provider string) {
	if m == nil {
		return
	}
	m.WebhookRejected.WithLabelValues(provider).Inc()
}

func (m *Metrics) Oversold(lines int) {
	if m == nil || lines == 0 {
		return
	}
	m.StockOversold.Add(float64(lines))
}

func (m *Metrics) Refunded(partial bool) {
	if m == nil {
		return
	}
	kind := "full"
	if partial {
		kind = "partial"
	}
	m.Refunds.WithLabelValues(kind).Inc()
}

func (m *Metrics) PromotionRedeemed() {
	if m == nil {
		return
	}
	m.PromotionsRedeemed.Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the collectors registered on gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
