package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Classification metrics
	classificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batmonitor_classifications_total",
			Help: "Total number of species classifications",
		},
		[]string{"policy", "outcome"},
	)

	inferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batmonitor_inference_duration_seconds",
			Help:    "Time spent preprocessing and running the model",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	confidencePercent = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batmonitor_confidence_percent",
			Help:    "Confidence of returned classifications",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// Session lookup metrics
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batmonitor_session_resolutions_total",
			Help: "Session folder lookups by outcome",
		},
		[]string{"outcome"},
	)

	storeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "batmonitor_store_call_duration_seconds",
			Help:    "Remote store call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	classifierReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "batmonitor_classifier_ready",
			Help: "1 when the model loaded at startup, 0 otherwise",
		},
	)
)

// Outcome labels
const (
	OutcomeOK            = "ok"
	OutcomeLowConfidence = "low_confidence"
	OutcomeDecodeError   = "decode_error"
	OutcomeUnavailable   = "unavailable"
	OutcomeError         = "error"
	OutcomeNotFound      = "not_found"
	OutcomeUnreachable   = "unreachable"
)

// Collector records domain metrics. The zero value is usable.
type Collector struct{}

func NewCollector() *Collector {
	return &Collector{}
}

// RecordClassification records a finished classification attempt.
func (c *Collector) RecordClassification(policy, outcome string, duration time.Duration, confidence float64) {
	classificationsTotal.WithLabelValues(policy, outcome).Inc()
	inferenceDuration.Observe(duration.Seconds())
	if outcome == OutcomeOK || outcome == OutcomeLowConfidence {
		confidencePercent.Observe(confidence)
	}
}

// RecordResolution records a session lookup outcome.
func (c *Collector) RecordResolution(outcome string) {
	resolutionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStore records the duration of one remote store call.
func (c *Collector) ObserveStore(operation string, duration time.Duration) {
	storeDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) SetClassifierReady(ready bool) {
	if ready {
		classifierReady.Set(1)
		return
	}
	classifierReady.Set(0)
}
