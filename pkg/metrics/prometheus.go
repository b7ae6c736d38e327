package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"MorningScan/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	articlesScanned *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	picksStored     *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		articlesScanned: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morningscan_articles_scanned_total",
				Help: "Total number of articles scanned by source",
			},
			[]string{"source"},
		),
		recommendations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morningscan_recommendations_total",
				Help: "Total number of recommendations produced",
			},
			[]string{"recommendation"},
		),
		picksStored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morningscan_picks_stored_total",
				Help: "Total number of picks persisted to a backend",
			},
			[]string{"backend"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morningscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "morningscan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordArticleScanned records an article processed from a source.
func (r *Recorder) RecordArticleScanned(source string) {
	r.articlesScanned.WithLabelValues(source).Inc()
}

// RecordRecommendation records the terminal call for one article.
func (r *Recorder) RecordRecommendation(rec models.Recommendation) {
	r.recommendations.WithLabelValues(string(rec)).Inc()
}

// RecordPickStored records a pick persisted to a backend.
func (r *Recorder) RecordPickStored(backend string) {
	r.picksStored.WithLabelValues(backend).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
