// Package metrics exposes Prometheus metrics for sync runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "weread_readwise"

// Label values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPreview = "preview"

	OutcomeSynced = "synced"
	OutcomeFailed = "failed"

	KindHighlight = "highlight"
	KindNote      = "note"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   prometheus.Histogram
	LastSuccessTimestamp prometheus.Gauge

	BooksProcessedTotal   *prometheus.CounterVec
	HighlightsNormalized  *prometheus.CounterVec
	HighlightsPostedTotal prometheus.Counter
	ChunkPostsTotal       *prometheus.CounterVec
	TasksEnqueuedTotal    *prometheus.CounterVec
}

// New creates and registers all collectors on reg, or the default registerer
// when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_total",
				Help:      "Sync runs by final status",
			},
			[]string{"status"},
		),
		RunDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of a sync run",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~17min
			},
		),
		LastSuccessTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful run",
			},
		),
		BooksProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "books_processed_total",
				Help:      "Books fetched from WeRead by outcome",
			},
			[]string{"outcome"},
		),
		HighlightsNormalized: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "highlights_normalized_total",
				Help:      "Records normalized into Readwise highlights",
			},
			[]string{"kind"},
		),
		HighlightsPostedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "highlights_posted_total",
				Help:      "Highlights accepted by Readwise",
			},
		),
		ChunkPostsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "chunk_posts_total",
				Help:      "Readwise batch requests by status",
			},
			[]string{"status"},
		),
		TasksEnqueuedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "tasks_enqueued_total",
				Help:      "Sync tasks queued by trigger",
			},
			[]string{"trigger"},
		),
	}
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(status string, duration time.Duration, finishedAt time.Time) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(duration.Seconds())
	if status == StatusSuccess {
		m.LastSuccessTimestamp.Set(float64(finishedAt.Unix()))
	}
}

// ObserveBook records one book and how many records it produced.
func (m *Metrics) ObserveBook(outcome string, highlights, notes int) {
	if m == nil {
		return
	}
	m.BooksProcessedTotal.WithLabelValues(outcome).Inc()
	m.HighlightsNormalized.WithLabelValues(KindHighlight).Add(float64(highlights))
	m.HighlightsNormalized.WithLabelValues(KindNote).Add(float64(notes))
}

// ObserveChunk records one Readwise request.
func (m *Metrics) ObserveChunk(status string, size int) {
	if m == nil {
		return
	}
	m.ChunkPostsTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		m.HighlightsPostedTotal.Add(float64(size))
	}
}

// ObserveEnqueue records a queued sync task.
func (m *Metrics) ObserveEnqueue(trigger string) {
	if m == nil {
		return
	}
	m.TasksEnqueuedTotal.WithLabelValues(trigger).Inc()
}
