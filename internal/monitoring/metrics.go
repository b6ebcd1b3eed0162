package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Admission outcomes recorded on campus_admissions_total.
const (
	OutcomeAdmitted  = "admitted"
	OutcomeFull      = "full"
	OutcomeNotOpen   = "not_open"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeBusy      = "busy"
	OutcomeError     = "error"
)

// Metrics groups the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	admissions        *prometheus.CounterVec
	admissionDuration prometheus.Histogram
	admissionRetries  prometheus.Counter
	attended          prometheus.Counter
	transitions       *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		admissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_admissions_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		admissionDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "campus_admission_duration_seconds",
				Help:    "Time spent admitting one registration, retries included",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		admissionRetries: f.NewCounter(
			prometheus.CounterOpts{
				Name: "campus_admission_retries_total",
				Help: "Admissions retried after contention",
			},
		),
		attended: f.NewCounter(
			prometheus.CounterOpts{
				Name: "campus_participants_attended_total",
				Help: "Participants marked as attended",
			},
		),
		transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_status_transitions_total",
				Help: "Status changes by entity and target status",
			},
			[]string{"entity", "status"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_http_requests_total",
				Help: "HTTP requests by method and status code",
			},
			[]string{"method", "code"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campus_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

func (m *Metrics) ObserveAdmission(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.admissions.WithLabelValues(outcome).Inc()
	m.admissionDuration.Observe(d.Seconds())
}

func (m *Metrics) IncAdmissionRetry() {
	if m == nil {
		return
	}
	m.admissionRetries.Inc()
}

func (m *Metrics) AddAttended(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.attended.Add(float64(n))
}

func (m *Metrics) IncTransition(entity, status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(entity, status).Inc()
}

func (m *Metrics) ObserveHTTP(method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}
