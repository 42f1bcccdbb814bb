// Package stats computes aggregate damage-yield statistics over a set of
// classified event summaries. Yields are the standard figures reported for
// clustered damage studies: per-event means and spreads for each damage
// category, plus the DSB/SSB ratio.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/McGillMedPhys/clustered-dna-damage/internal/domain"
)

// Yield holds the per-event distribution of one damage category.
type Yield struct {
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    float64 `json:"max"`
}

// Report aggregates yields across events. DSBPerSSB is NaN-free: it is zero
// when no SSBs were scored.
type Report struct {
	Events        int     `json:"events"`
	SSB           Yield   `json:"ssb"`
	BD            Yield   `json:"bd"`
	DSB           Yield   `json:"dsb"`
	ComplexDSB    Yield   `json:"complex_dsb"`
	NonDSBCluster Yield   `json:"non_dsb_cluster"`
	DSBPerSSB     float64 `json:"dsb_per_ssb"`
	MeanClusterBP float64 `json:"mean_cluster_bp"`
}

// Compute builds a yield report from event summaries. An empty input returns
// a zero report.
func Compute(summaries []domain.EventSummary) Report {
	n := len(summaries)
	if n == 0 {
		return Report{}
	}

	ssb := make([]float64, n)
	bd := make([]float64, n)
	dsb := make([]float64, n)
	complexDSB := make([]float64, n)
	nonDSB := make([]float64, n)
	var clusterSizes []float64

	for i, s := range summaries {
		ssb[i] = float64(s.TotalSSB)
		bd[i] = float64(s.TotalBD)
		dsb[i] = float64(s.TotalDSB)
		complexDSB[i] = float64(s.TotalComplexDSB)
		nonDSB[i] = float64(s.TotalNonDSBCluster)
		for _, c := range s.ComplexDSBs {
			clusterSizes = append(clusterSizes, float64(c.Size))
		}
		for _, c := range s.NonDSBClusters {
			clusterSizes = append(clusterSizes, float64(c.Size))
		}
	}

	r := Report{
		Events:        n,
		SSB:           yieldOf(ssb),
		BD:            yieldOf(bd),
		DSB:           yieldOf(dsb),
		ComplexDSB:    yieldOf(complexDSB),
		NonDSBCluster: yieldOf(nonDSB),
	}
	if r.SSB.Total > 0 {
		r.DSBPerSSB = r.DSB.Total / r.SSB.Total
	}
	if len(clusterSizes) > 0 {
		r.MeanClusterBP = stat.Mean(clusterSizes, nil)
	}
	return r
}

func yieldOf(values []float64) Yield {
	sd := stat.StdDev(values, nil)
	if math.IsNaN(sd) {
		// single-sample input
		sd = 0
	}
	return Yield{
		Total:  floats.Sum(values),
		Mean:   stat.Mean(values, nil),
		StdDev: sd,
		Max:    floats.Max(values),
	}
}
