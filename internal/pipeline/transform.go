package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/McGillMedPhys/clustered-dna-damage/internal/domain"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/observability"
)

// DamageTransformer implements Transformer by running the domain damage
// classifier over each raw event's hits.
type DamageTransformer struct {
	params  domain.Params
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a DamageTransformer with the given classification
// parameters.
func NewTransformer(params domain.Params, metrics *observability.Metrics, logger *slog.Logger) *DamageTransformer {
	return &DamageTransformer{
		params:  params,
		metrics: metrics,
		logger:  logger,
	}
}

func (t *DamageTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	rec, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	summary := domain.ClassifyEvent(rec, t.params)
	if !summary.HasDamage() {
		return domain.OutputEvent{}, fmt.Errorf("event %d: %w", rec.EventID, domain.ErrNoDamage)
	}

	t.observe(summary)

	return domain.SerializeEventSummary(summary)
}

// observe records the per-event damage yields.
func (t *DamageTransformer) observe(s domain.EventSummary) {
	t.metrics.DamageDetected.WithLabelValues("ssb").Add(float64(s.TotalSSB))
	t.metrics.DamageDetected.WithLabelValues("bd").Add(float64(s.TotalBD))
	t.metrics.DamageDetected.WithLabelValues("dsb").Add(float64(s.TotalDSB))
	t.metrics.DamageDetected.WithLabelValues("complex_dsb").Add(float64(s.TotalComplexDSB))
	t.metrics.DamageDetected.WithLabelValues("non_dsb_cluster").Add(float64(s.TotalNonDSBCluster))

	for _, c := range s.ComplexDSBs {
		t.metrics.ClusterSize.Observe(float64(c.Size))
	}
	for _, c := range s.NonDSBClusters {
		t.metrics.ClusterSize.Observe(float64(c.Size))
	}
}
