package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// classification pipeline.
type Metrics struct {
	EventsConsumed      prometheus.Counter
	SummariesProduced   prometheus.Counter
	TransformErrors     prometheus.Counter
	EventsWithoutDamage prometheus.Counter
	PipelineRunning     prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Damage yield metrics.
	DamageDetected *prometheus.CounterVec // label: type={ssb,bd,dsb,complex_dsb,non_dsb_cluster}
	ClusterSize    prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EventsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dna_damage",
			Name:      "events_consumed_total",
			Help:      "Total simulated events read from the source topic.",
		}),
		SummariesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dna_damage",
			Name:      "summaries_produced_total",
			Help:      "Total damage summaries written to the sink.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dna_damage",
			Name:      "transform_errors_total",
			Help:      "Total classification failures.",
		}),
		EventsWithoutDamage: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dna_damage",
			Name:      "events_without_damage_total",
			Help:      "Events whose tallies were all zero and produced no row.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dna_damage",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dna_damage",
			Name:      "batch_size",
			Help:      "Number of events per batch extracted from the source.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dna_damage",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-classify-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		DamageDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dna_damage",
			Name:      "damage_detected_total",
			Help:      "Post-clustering damage tallies by damage type.",
		}, []string{"type"}),
		ClusterSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dna_damage",
			Name:      "cluster_size_bp",
			Help:      "Base-pair span of recorded damage clusters.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 40, 60, 80},
		}),
	}

	prometheus.MustRegister(
		m.EventsConsumed,
		m.SummariesProduced,
		m.TransformErrors,
		m.EventsWithoutDamage,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.DamageDetected,
		m.ClusterSize,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EventsConsumed:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "dna_damage", Name: "events_consumed_total"}),
		SummariesProduced:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "dna_damage", Name: "summaries_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "dna_damage", Name: "transform_errors_total"}),
		EventsWithoutDamage:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "dna_damage", Name: "events_without_damage_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "dna_damage", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "dna_damage", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "dna_damage", Name: "batch_processing_duration_seconds"}),
		DamageDetected:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dna_damage", Name: "damage_detected_total"}, []string{"type"}),
		ClusterSize:             prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "dna_damage", Name: "cluster_size_bp"}),
	}
}
