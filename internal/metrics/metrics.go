// Package metrics exposes Prometheus metrics for the batch jobs and the
// classification submission flow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	JobCandidateSync  = "candidate_sync"
	JobIngestMock     = "ingest_mock"
	JobIngestPipeline = "ingest_pipeline"
)

// Metrics is nil-safe: every recorder is a no-op on a nil receiver, so
// services and tests can run without a registry.
type Metrics struct {
	registry *prometheus.Registry

	syncCandidatesTotal            *prometheus.CounterVec
	ingestRowsTotal                *prometheus.CounterVec
	classificationSubmissionsTotal *prometheus.CounterVec
	jobDuration                    *prometheus.HistogramVec
}

// New creates the metrics and registers them on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.syncCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tidestom_sync_candidates_total",
			Help: "Candidates processed by the target sync job",
		},
		[]string{"outcome"}, // created, updated, unchanged, failed
	)

	m.ingestRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tidestom_ingest_rows_total",
			Help: "Rows processed by the spectra ingest job",
		},
		[]string{"mode", "outcome"},
	)

	m.classificationSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tidestom_classification_submissions_total",
			Help: "Human classification submissions",
		},
		[]string{"outcome"}, // accepted, invalid, failed
	)

	m.jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tidestom_job_duration_seconds",
			Help:    "Wall time of batch job runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"job"},
	)
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.syncCandidatesTotal.Describe(ch)
	m.ingestRowsTotal.Describe(ch)
	m.classificationSubmissionsTotal.Describe(ch)
	m.jobDuration.Describe(ch)
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.syncCandidatesTotal.Collect(ch)
	m.ingestRowsTotal.Collect(ch)
	m.classificationSubmissionsTotal.Collect(ch)
	m.jobDuration.Collect(ch)
}

func (m *Metrics) AddSyncCandidates(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.syncCandidatesTotal.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) RecordIngestRow(mode, outcome string) {
	if m == nil {
		return
	}
	m.ingestRowsTotal.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) RecordSubmission(outcome string) {
	if m == nil {
		return
	}
	m.classificationSubmissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveJob(job string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}
