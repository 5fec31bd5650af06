package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Bucket layouts for value histograms.
var (
	deltaBuckets        = []float64{0, 1, 2, 4, 8, 12, 16, 24, 32, 48, 64, 128}
	participantBuckets  = []float64{2, 3, 4, 6, 8, 12, 16, 32, 64, 128}
	driftBuckets        = []float64{0, 1, 2, 3, 4, 6, 8, 16}
	batchSizeBuckets    = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
	defaultLatencyScale = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100}
)

// Manager owns every metric exported by the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	enabled        bool
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Rating calculations
	calculations        *prometheus.CounterVec
	calculationFailures *prometheus.CounterVec
	calculationDuration *prometheus.HistogramVec
	ratingDelta         prometheus.Histogram
	participants        prometheus.Histogram
	zeroSumDrift        prometheus.Histogram

	// Batches and workers
	batchSize    prometheus.Histogram
	batchFailed  prometheus.Counter
	workerCount  prometheus.Gauge
	workersBusy  prometheus.Gauge
	jobsRejected prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "elo",
		subsystem:      "rating",
		latencyBuckets: defaultLatencyScale,
		enabled:        true,
		constLabels:    map[string]string{},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place to declare every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.calculations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "calculations_total",
		Help: "Total number of successful rating calculations by match kind",
	}, []string{"kind"})

	m.calculationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "calculation_failures_total",
		Help: "Total number of rejected rating calculations by match kind and reason",
	}, []string{"kind", "reason"})

	m.calculationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "calculation_duration_milliseconds",
		Help:    "Rating calculation duration in milliseconds",
		Buckets: m.latencyBuckets,
	}, []string{"kind"})

	m.ratingDelta = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "rating_delta_abs",
		Help:    "Absolute rating change applied to a participant",
		Buckets: deltaBuckets,
	})

	m.participants = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "participants",
		Help:    "Number of participants per rated match",
		Buckets: participantBuckets,
	})

	m.zeroSumDrift = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "zero_sum_drift",
		Help:    "Absolute sum of all rating changes in a match",
		Buckets: driftBuckets,
	})

	m.batchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "batch_size",
		Help:    "Number of matches per batch request",
		Buckets: batchSizeBuckets,
	})

	m.batchFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "batch_items_failed_total",
		Help: "Total number of batch items that could not be rated",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "worker_count",
		Help: "Number of batch workers",
	})

	m.workersBusy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "workers_busy",
		Help: "Number of batch workers currently rating a match",
	})

	m.jobsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "jobs_rejected_total",
		Help: "Total number of batch jobs rejected because the pool was stopped or the request was cancelled",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.latencyBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.rateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "rate_limited_total",
		Help: "Total number of HTTP requests rejected by the rate limiter",
	}, []string{"endpoint"})
}

// RecordCalculation records a successful calculation of the given kind.
func (m *Manager) RecordCalculation(kind string, durationMs float64, participants int) {
	if !m.enabled {
		return
	}
	m.calculations.WithLabelValues(kind).Inc()
	m.calculationDuration.WithLabelValues(kind).Observe(durationMs)
	m.participants.Observe(float64(participants))
}

// RecordCalculationFailure records a rejected calculation.
func (m *Manager) RecordCalculationFailure(kind, reason string) {
	if !m.enabled {
		return
	}
	m.calculationFailures.WithLabelValues(kind, reason).Inc()
}

// ObserveRatingDelta records the absolute change applied to one participant.
func (m *Manager) ObserveRatingDelta(delta int) {
	if !m.enabled {
		return
	}
	if delta < 0 {
		delta = -delta
	}
	m.ratingDelta.Observe(float64(delta))
}

// ObserveZeroSumDrift records how far a match's changes are from summing to zero.
func (m *Manager) ObserveZeroSumDrift(total int) {
	if !m.enabled {
		return
	}
	if total < 0 {
		total = -total
	}
	m.zeroSumDrift.Observe(float64(total))
}

// ObserveBatch records the size of a batch and how many of its items failed.
func (m *Manager) ObserveBatch(size, failed int) {
	if !m.enabled {
		return
	}
	m.batchSize.Observe(float64(size))
	m.batchFailed.Add(float64(failed))
}

// UpdateWorkerCount sets the number of batch workers.
func (m *Manager) UpdateWorkerCount(n int) {
	if m.enabled {
		m.workerCount.Set(float64(n))
	}
}

// WorkerBusy marks a worker as busy; call the returned func when it is idle again.
func (m *Manager) WorkerBusy() func() {
	if !m.enabled {
		return func() {}
	}
	m.workersBusy.Inc()
	return m.workersBusy.Dec
}

// RecordJobRejected counts a batch job that never reached a worker.
func (m *Manager) RecordJobRejected() {
	if m.enabled {
		m.jobsRejected.Inc()
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited counts a request rejected by the rate limiter.
func (m *Manager) RecordRateLimited(endpoint string) {
	if m.enabled {
		m.rateLimited.WithLabelValues(endpoint).Inc()
	}
}

// Default returns the process-wide manager registered on the custom registry.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by the default manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler serves the metrics gathered by g in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) (http.Handler, error) {
	if g == nil {
		return nil, ErrNilGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{}), nil
}
