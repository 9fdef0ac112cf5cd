// Package metrics provides Prometheus metrics for gene-range processing.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Range processing statuses.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// Recorder is the narrow interface the pipeline depends on.
type Recorder interface {
	// RecordRange records one processed gene range and its wall time.
	RecordRange(status string, seconds float64)
	// RecordOptimization records one optimizer run.
	RecordOptimization(strategy string, iterations, flips, unresolved int, converged bool)
	// RecordAbsentSpecies records species missing from a range.
	RecordAbsentSpecies(species string)
}

// Metrics contains all collectors of the prediction pipeline.
type Metrics struct {
	RangesTotal         *prometheus.CounterVec
	RangeDuration       prometheus.Histogram
	OptimizerIterations *prometheus.HistogramVec
	OptimizerRuns       *prometheus.CounterVec
	AcceptedFlips       prometheus.Counter
	UnresolvedClusters  prometheus.Counter
	AbsentSpecies       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on registry.
func NewMetrics(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register compgene metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.RangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compgene_gene_ranges_total",
			Help: "Total number of processed gene ranges partitioned by status.",
		},
		[]string{"status"},
	)
	m.RangeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compgene_gene_range_duration_seconds",
			Help:    "Time taken to process one gene range.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
	)
	m.OptimizerIterations = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compgene_optimizer_iterations",
			Help:    "Iterations (passes for local-move) used per optimizer run.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500},
		},
		[]string{"strategy"},
	)
	m.OptimizerRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compgene_optimizer_runs_total",
			Help: "Optimizer runs partitioned by strategy and convergence.",
		},
		[]string{"strategy", "converged"},
	)
	m.AcceptedFlips = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "compgene_local_move_flips_total",
			Help: "Accepted cluster label flips of the local-move optimizer.",
		},
	)
	m.UnresolvedClusters = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "compgene_unresolved_clusters_total",
			Help: "Orthology clusters resolved by the default exclude policy.",
		},
	)
	m.AbsentSpecies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compgene_absent_species_total",
			Help: "Species absent from a gene range.",
		},
		[]string{"species"},
	)
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.RangesTotal.Describe(ch)
	ch <- m.RangeDuration.Desc()
	m.OptimizerIterations.Describe(ch)
	m.OptimizerRuns.Describe(ch)
	ch <- m.AcceptedFlips.Desc()
	ch <- m.UnresolvedClusters.Desc()
	m.AbsentSpecies.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.RangesTotal.Collect(ch)
	ch <- m.RangeDuration
	m.OptimizerIterations.Collect(ch)
	m.OptimizerRuns.Collect(ch)
	ch <- m.AcceptedFlips
	ch <- m.UnresolvedClusters
	m.AbsentSpecies.Collect(ch)
}

// RecordRange implements Recorder.
func (m *Metrics) RecordRange(status string, seconds float64) {
	m.RangesTotal.WithLabelValues(status).Inc()
	m.RangeDuration.Observe(seconds)
}

// RecordOptimization implements Recorder.
func (m *Metrics) RecordOptimization(strategy string, iterations, flips, unresolved int, converged bool) {
	m.OptimizerIterations.WithLabelValues(strategy).Observe(float64(iterations))
	m.OptimizerRuns.WithLabelValues(strategy, fmt.Sprintf("%t", converged)).Inc()
	m.AcceptedFlips.Add(float64(flips))
	m.UnresolvedClusters.Add(float64(unresolved))
}

// RecordAbsentSpecies implements Recorder.
func (m *Metrics) RecordAbsentSpecies(species string) {
	m.AbsentSpecies.WithLabelValues(species).Inc()
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordRange(string, float64)                    {}
func (NopRecorder) RecordOptimization(string, int, int, int, bool) {}
func (NopRecorder) RecordAbsentSpecies(string)                     {}

// WriteTextfile writes the registry contents in the node-exporter textfile format.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("metrics: write textfile %s: %w", path, err)
	}
	return nil
}
