// Package metrics records allocation and recommendation metrics in a
// Prometheus registry owned by the caller.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jakechorley/internship-allocation/pkg/core/allocator"
)

const defaultNamespace = "internship"

// match scores usually fall in [0, 100] but may exceed it when scores are not clamped
var matchScoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 120}

// Option configures a Recorder
type Option func(*Recorder)

// WithNamespace overrides the metric namespace
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		r.namespace = namespace
	}
}

// WithRegistry uses an existing registry instead of a fresh one
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		r.registry = registry
	}
}

// Recorder holds the allocation metrics
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	allocations        *prometheus.CounterVec
	rejectedRecords    *prometheus.CounterVec
	matchScore         prometheus.Histogram
	allocationDuration prometheus.Histogram
	remainingCapacity  prometheus.Gauge
	lastRunStudents    prometheus.Gauge
	recommendations    prometheus.Counter
}

// NewRecorder creates a Recorder and registers its metrics
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{namespace: defaultNamespace}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	factory := promauto.With(r.registry)

	r.allocations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "allocations_total",
		Help:      "Students processed by allocation runs, by outcome.",
	}, []string{"status"})

	r.rejectedRecords = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "rejected_records_total",
		Help:      "Records excluded from allocation runs, by kind.",
	}, []string{"kind"})

	r.matchScore = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "match_score",
		Help:      "Match score of assigned students.",
		Buckets:   matchScoreBuckets,
	})

	r.allocationDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "allocation_duration_seconds",
		Help:      "Wall time of allocation runs.",
		Buckets:   prometheus.DefBuckets,
	})

	r.remainingCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "postings_remaining_capacity_total",
		Help:      "Unfilled seats across all postings after the last run.",
	})

	r.lastRunStudents = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "last_run_students",
		Help:      "Students processed by the last allocation run.",
	})

	r.recommendations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "recommendations_total",
		Help:      "Recommendation requests served.",
	})

	return r
}

// Registry returns the registry holding the recorder's metrics
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordAllocation records the result of one allocation run
func (r *Recorder) RecordAllocation(outcome *allocator.AllocationOutcome, elapsed time.Duration) {
	for _, record := range outcome.Records {
		r.allocations.WithLabelValues(string(record.Status)).Inc()
		if record.IsAssigned() {
			r.matchScore.Observe(record.MatchScore)
		}
	}

	for _, rejected := range outcome.Rejected {
		r.rejectedRecords.WithLabelValues(string(rejected.Kind)).Inc()
	}

	remaining := 0
	for _, left := range outcome.RemainingCapacity() {
		remaining += left
	}
	r.remainingCapacity.Set(float64(remaining))
	r.lastRunStudents.Set(float64(len(outcome.Records)))
	r.allocationDuration.Observe(elapsed.Seconds())
}

// RecordRecommendation counts one served recommendation request
func (r *Recorder) RecordRecommendation() {
	r.recommendations.Inc()
}

// WriteTextfile writes the current metrics in the node exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
