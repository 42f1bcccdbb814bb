package domain

// Params are the classification thresholds. Distances are in base pairs,
// energies in eV.
type Params struct {
	// DSBDistance is the maximum bp separation between opposite-strand
	// breaks forming a double-strand break.
	DSBDistance int
	// SSBThresholdEV is the minimum backbone energy for a strand break.
	SSBThresholdEV float64
	// BDThresholdEV is the minimum base energy for a base damage. It is
	// deliberately a separate value from SSBThresholdEV; set both equal to
	// reproduce reference scorer output.
	BDThresholdEV float64
	// ClusterDistance is the maximum bp gap between damage sites within one
	// cluster.
	ClusterDistance int
	// NumberOfSplit is the variance-reduction replica count; 1 disables
	// splitting.
	NumberOfSplit int
}

// DefaultParams returns the reference scorer defaults.
func DefaultParams() Params {
	return Params{
		DSBDistance:     10,
		SSBThresholdEV:  17.5,
		BDThresholdEV:   17.5,
		ClusterDistance: 40,
		NumberOfSplit:   1,
	}
}

// Classifier runs the per-event damage classification pass. Each instance
// owns its accumulation state; create one per event (or reuse after
// EndOfEvent, which resets it). Instances are not safe for concurrent use;
// parallel workers each own a private Classifier.
type Classifier struct {
	params Params
	acc    *accumulator
}

// NewClassifier creates a Classifier with the given thresholds. A
// non-positive NumberOfSplit is treated as 1.
func NewClassifier(params Params) *Classifier {
	if params.NumberOfSplit < 1 {
		params.NumberOfSplit = 1
	}
	return &Classifier{params: params, acc: newAccumulator()}
}

// RecordHit scores one energy deposit into the per-event accumulation maps.
// Hits may arrive in any order; deposits at the same (fiber, strand,
// residue class, bp) are summed. Hits addressed outside the DNA model are
// dropped.
func (c *Classifier) RecordHit(d EnergyDeposit) {
	c.acc.record(d, c.params.NumberOfSplit)
}

// EndOfEvent runs the full classification pass over everything accumulated
// since the last call: extraction, DSB pairing, merge, and clustering, once
// per (fiber, split). The accumulation maps are drained and the Classifier
// is ready for the next event on return.
//
// The DSB tally runs at twice the break count during clustering because
// pairing emits two sites per break; unclustered breaks are folded back to
// instance counts exactly once, after all fibers and splits.
func (c *Classifier) EndOfEvent(eventID int) EventSummary {
	var tally Tally
	var complexDSBs, nonDSBClusters []ClusterRecord

	for _, fiber := range c.acc.fibers() {
		for split := 0; split < c.params.NumberOfSplit; split++ {
			ssb1 := extractSites(c.params.SSBThresholdEV, c.acc.backbone[0].bucket(fiber, split))
			ssb2 := extractSites(c.params.SSBThresholdEV, c.acc.backbone[1].bucket(fiber, split))
			bd1 := extractSites(c.params.BDThresholdEV, c.acc.base[0].bucket(fiber, split))
			bd2 := extractSites(c.params.BDThresholdEV, c.acc.base[1].bucket(fiber, split))

			dsb, ssb1, ssb2 := pairDSB(ssb1, ssb2, c.params.DSBDistance)

			tally.SSB += len(ssb1) + len(ssb2)
			tally.BD += len(bd1) + len(bd2)
			tally.DSB += len(dsb)

			seq := combineDamage(ssb1, bd1, ssb2, bd2, dsb)
			clusterDamage(seq, c.params.ClusterDistance, &tally, &complexDSBs, &nonDSBClusters)
		}
	}

	tally.DSB /= 2

	c.acc = newAccumulator()

	return EventSummary{
		EventID:            eventID,
		TotalSSB:           tally.SSB,
		TotalBD:            tally.BD,
		TotalDSB:           tally.DSB,
		TotalComplexDSB:    tally.ComplexDSB,
		TotalNonDSBCluster: tally.NonDSBCluster,
		ComplexDSBs:        complexDSBs,
		NonDSBClusters:     nonDSBClusters,
		ProcessedAt:        clock.Now(),
	}
}

// ClassifyEvent classifies one complete raw event record with a fresh
// Classifier.
func ClassifyEvent(rec RawEventRecord, params Params) EventSummary {
	c := NewClassifier(params)
	for _, hit := range rec.Hits {
		c.RecordHit(hit)
	}
	summary := c.EndOfEvent(rec.EventID)
	summary.RunID = rec.RunID
	return summary
}
