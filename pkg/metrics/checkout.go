package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout starts and payment submissions.
type CheckoutMetrics struct {
	sessions    *prometheus.CounterVec
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	gateway     *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "superbox",
		Name:      "checkout_sessions_started_total",
		Help:      "Checkout sessions started, by purchase source.",
	}, []string{"source"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "superbox",
		Name:      "payment_submissions_total",
		Help:      "Per-item payment submissions, by method and outcome.",
	}, []string{"method", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "superbox",
		Name:      "payment_submission_duration_seconds",
		Help:      "Latency of backend payment calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
	gateway := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "superbox",
		Name:      "gateway_initiations_total",
		Help:      "Hosted gateway initiations, by result.",
	}, []string{"result"})
	reg.MustRegister(sessions, submissions, duration, gateway)
	return &CheckoutMetrics{
		sessions:    sessions,
		submissions: submissions,
		duration:    duration,
		gateway:     gateway,
	}
}

// IncSessionStarted counts a new checkout session.
func (m *CheckoutMetrics) IncSessionStarted(source string) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.WithLabelValues(normalizeLabel(source)).Inc()
}

// ObserveSubmission records one backend payment call.
func (m *CheckoutMetrics) ObserveSubmission(method, outcome string, duration time.Duration) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(method), normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncGateway counts a gateway initiation by result: redirected, empty_url or error.
func (m *CheckoutMetrics) IncGateway(result string) {
	if m == nil || m.gateway == nil {
		return
	}
	m.gateway.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
