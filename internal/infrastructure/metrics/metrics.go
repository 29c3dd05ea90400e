package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives observations from the HTTP layer and the upstream
// client. A nil-safe noop implementation backs deployments with metrics
// disabled.
type Recorder interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncUpstreamRequests(outcome string)
	ObserveUpstreamDuration(duration time.Duration)
	ObservePagesPerQuery(pages int)
}

type promRecorder struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration prometheus.Histogram
	pagesPerQuery    prometheus.Histogram
}

// New builds a prometheus-backed Recorder registered against reg.
func New(reg prometheus.Registerer) Recorder {
	factory := promauto.With(reg)

	return &promRecorder{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cwdash_requests_total",
			Help: "Total number of dashboard HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cwdash_request_duration_seconds",
			Help:    "Dashboard HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		upstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cwdash_upstream_requests_total",
			Help: "Total number of upstream page requests",
		}, []string{"outcome"}),

		upstreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cwdash_upstream_request_duration_seconds",
			Help:    "Upstream page request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		pagesPerQuery: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cwdash_upstream_pages_per_query",
			Help:    "Number of pages fetched per full-collection retrieval",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}
}

func (m *promRecorder) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *promRecorder) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *promRecorder) IncUpstreamRequests(outcome string) {
	m.upstreamRequests.WithLabelValues(outcome).Inc()
}

func (m *promRecorder) ObserveUpstreamDuration(duration time.Duration) {
	m.upstreamDuration.Observe(duration.Seconds())
}

func (m *promRecorder) ObservePagesPerQuery(pages int) {
	m.pagesPerQuery.Observe(float64(pages))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// NewNoop returns a Recorder that discards every observation.
func NewNoop() Recorder {
	return noopRecorder{}
}

type noopRecorder struct{}

func (noopRecorder) IncRequestsTotal(string, int)                 {}
func (noopRecorder) ObserveRequestDuration(string, time.Duration) {}
func (noopRecorder) IncUpstreamRequests(string)                   {}
func (noopRecorder) ObserveUpstreamDuration(time.Duration)        {}
func (noopRecorder) ObservePagesPerQuery(int)                     {}
