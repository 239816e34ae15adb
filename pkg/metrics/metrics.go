// Package metrics exposes Prometheus counters for the people sync pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "tmdb"
	defaultSubsystem = "people"
)

// Manager owns the sync metrics and the registry they live on.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	recordsFetched   *prometheus.CounterVec
	recordsPublished *prometheus.CounterVec
	recordsDuplicate *prometheus.CounterVec
	resourceErrors   *prometheus.CounterVec
	publishErrors    *prometheus.CounterVec
	syncDuration     *prometheus.HistogramVec
}

// NewManager creates a manager on a private registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsFetched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_fetched_total",
		Help:      "Person records assembled from TMDB, by feed",
	}, []string{"feed"})

	m.recordsPublished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_published_total",
		Help:      "Person records delivered to at least one publisher, by feed",
	}, []string{"feed"})

	m.recordsDuplicate = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_duplicate_total",
		Help:      "Person records skipped because their fingerprint was already published",
	}, []string{"feed"})

	m.resourceErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resource_errors_total",
		Help:      "Failed TMDB person resource calls, by resource",
	}, []string{"resource"})

	m.publishErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_errors_total",
		Help:      "Events that no publisher accepted, by feed",
	}, []string{"feed"})

	m.syncDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_duration_seconds",
		Help:      "Wall time of a full feed sync",
		Buckets:   m.histogramBuckets,
	}, []string{"feed"})
}

// RecordFetched counts an assembled person record.
func (m *Manager) RecordFetched(feed string) {
	if m == nil {
		return
	}
	m.recordsFetched.WithLabelValues(feed).Inc()
}

// RecordPublished counts a delivered record.
func (m *Manager) RecordPublished(feed string) {
	if m == nil {
		return
	}
	m.recordsPublished.WithLabelValues(feed).Inc()
}

// RecordDuplicate counts a record skipped by dedupe.
func (m *Manager) RecordDuplicate(feed string) {
	if m == nil {
		return
	}
	m.recordsDuplicate.WithLabelValues(feed).Inc()
}

// RecordResourceError counts a failed person resource call.
func (m *Manager) RecordResourceError(resource string) {
	if m == nil {
		return
	}
	m.resourceErrors.WithLabelValues(resource).Inc()
}

// RecordPublishError counts an event every publisher rejected.
func (m *Manager) RecordPublishError(feed string) {
	if m == nil {
		return
	}
	m.publishErrors.WithLabelValues(feed).Inc()
}

// ObserveSync records how long a feed sync took.
func (m *Manager) ObserveSync(feed string, d time.Duration) {
	if m == nil {
		return
	}
	m.syncDuration.WithLabelValues(feed).Observe(d.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the manager's registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
