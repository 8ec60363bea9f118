package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pos"

// POSMetrics records register activity.
type POSMetrics struct {
	mutations    *prometheus.CounterVec
	checkouts    *prometheus.CounterVec
	saleTotal    *prometheus.HistogramVec
	sinkFailures *prometheus.CounterVec
	logins       *prometheus.CounterVec
}

// NewPOSMetrics registers the register metrics on reg. A nil registerer
// yields a recorder whose methods do nothing.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_mutations_total",
		Help:      "Open order mutations by operation.",
	}, []string{"op"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Completed checkouts by payment method.",
	}, []string{"payment_method"})
	saleTotal := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sale_total_dollars",
		Help:      "Checkout totals in dollars.",
		Buckets:   []float64{1, 5, 10, 20, 50, 100, 250, 500, 1000},
	}, []string{"payment_method"})
	sinkFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receipt_sink_failures_total",
		Help:      "Receipt publication failures by sink.",
	}, []string{"sink"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, checkouts, saleTotal, sinkFailures, logins)
	return &POSMetrics{
		mutations:    mutations,
		checkouts:    checkouts,
		saleTotal:    saleTotal,
		sinkFailures: sinkFailures,
		logins:       logins,
	}
}

// IncMutation counts an order mutation such as add_item or clear.
func (m *POSMetrics) IncMutation(op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveCheckout counts a completed sale and its total.
func (m *POSMetrics) ObserveCheckout(paymentMethod string, total float64) {
	if m == nil || m.checkouts == nil {
		return
	}
	label := normalizeLabel(paymentMethod)
	m.checkouts.WithLabelValues(label).Inc()
	m.saleTotal.WithLabelValues(label).Observe(total)
}

func (m *POSMetrics) IncSinkFailure(sink string) {
	if m == nil || m.sinkFailures == nil {
		return
	}
	m.sinkFailures.WithLabelValues(normalizeLabel(sink)).Inc()
}

func (m *POSMetrics) IncLogin(outcome string) {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// HTTPMetrics records request latency per route pattern.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration)
	return &HTTPMetrics{duration: duration}
}

func (h *HTTPMetrics) Observe(method, route, status string, elapsed time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	h.duration.WithLabelValues(method, normalizeLabel(route), status).Observe(elapsed.Seconds())
}
