// Package metrics provides Prometheus metrics for the volley team service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Team generation
	generations       prometheus.Counter
	generationErrors  *prometheus.CounterVec
	generationLatency prometheus.Histogram
	initialImbalance  prometheus.Histogram
	finalImbalance    prometheus.Histogram
	swapsCommitted    prometheus.Counter
	refinementPasses  prometheus.Histogram

	// Voting
	votesRecorded   prometheus.Counter
	votesRejected   *prometheus.CounterVec
	completedVoters prometheus.Gauge

	// Repository
	repositoryQueryLatency *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps Go runtime collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "volley",
		subsystem:        "teams",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 25},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.generations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generations_total",
		Help:      "Total number of successful team generations",
	})
	m.generationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generation_errors_total",
		Help:      "Team generation requests refused, by reason",
	}, []string{"reason"})
	m.generationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generation_duration_milliseconds",
		Help:      "Time spent generating teams, including score aggregation",
		Buckets:   m.histogramBuckets,
	})
	m.initialImbalance = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "initial_imbalance",
		Help:      "Imbalance objective after the constructive pass",
		Buckets:   []float64{0, 0.5, 1, 2, 3, 5, 8, 13},
	})
	m.finalImbalance = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "final_imbalance",
		Help:      "Imbalance objective of the returned teams",
		Buckets:   []float64{0, 0.5, 1, 2, 3, 5, 8, 13},
	})
	m.swapsCommitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "swaps_committed_total",
		Help:      "Refinement swaps committed across all generations",
	})
	m.refinementPasses = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refinement_passes",
		Help:      "Refinement passes run per generation",
		Buckets:   []float64{1, 2},
	})

	m.votesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "votes",
		Name:      "recorded_total",
		Help:      "Votes accepted by the store",
	})
	m.votesRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "votes",
		Name:      "rejected_total",
		Help:      "Votes refused by the store, by reason",
	}, []string{"reason"})
	m.completedVoters = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "votes",
		Name:      "completed_voters",
		Help:      "Completed voters seen by the last progress or generation request",
	})

	m.repositoryQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "repository",
		Name:      "query_duration_milliseconds",
		Help:      "Repository read latency, by operation",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})
}

// Generation captures what a single team generation produced.
type Generation struct {
	InitialImbalance float64
	FinalImbalance   float64
	Swaps            int
	Passes           int
	LatencyMs        float64
}

// RecordGeneration records a successful team generation.
func (m *Manager) RecordGeneration(g Generation) {
	m.generations.Inc()
	m.generationLatency.Observe(g.LatencyMs)
	m.initialImbalance.Observe(g.InitialImbalance)
	m.finalImbalance.Observe(g.FinalImbalance)
	m.swapsCommitted.Add(float64(g.Swaps))
	m.refinementPasses.Observe(float64(g.Passes))
}

// RecordGenerationError counts a refused generation.
func (m *Manager) RecordGenerationError(reason string) {
	m.generationErrors.WithLabelValues(reason).Inc()
}

// RecordVoteRecorded counts an accepted vote.
func (m *Manager) RecordVoteRecorded() {
	m.votesRecorded.Inc()
}

// RecordVoteRejected counts a refused vote.
func (m *Manager) RecordVoteRejected(reason string) {
	m.votesRejected.WithLabelValues(reason).Inc()
}

// UpdateCompletedVoters sets the completed voter gauge.
func (m *Manager) UpdateCompletedVoters(n int) {
	m.completedVoters.Set(float64(n))
}

// RecordRepositoryQueryLatency records a repository read.
func (m *Manager) RecordRepositoryQueryLatency(operation string, latencyMs float64) {
	m.repositoryQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordGeneration records a successful team generation on the global manager.
func RecordGeneration(g Generation) { globalManager.RecordGeneration(g) }

// RecordGenerationError counts a refused generation on the global manager.
func RecordGenerationError(reason string) { globalManager.RecordGenerationError(reason) }

// RecordVoteRecorded counts an accepted vote on the global manager.
func RecordVoteRecorded() { globalManager.RecordVoteRecorded() }

// RecordVoteRejected counts a refused vote on the global manager.
func RecordVoteRejected(reason string) { globalManager.RecordVoteRejected(reason) }

// UpdateCompletedVoters sets the completed voter gauge on the global manager.
func UpdateCompletedVoters(n int) { globalManager.UpdateCompletedVoters(n) }

// RecordRepositoryQueryLatency records a repository read on the global manager.
func RecordRepositoryQueryLatency(operation string, latencyMs float64) {
	globalManager.RecordRepositoryQueryLatency(operation, latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the global registry in the text exposition format,
// suitable for the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}
