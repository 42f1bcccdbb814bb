package domain

import (
	"context"
	"time"
)

// ResidueClass identifies which part of a nucleotide absorbed energy.
// Residue sub-volumes 0 and 1 are the sugar/phosphate backbone positions,
// sub-volume 2 is the base.
type ResidueClass int

const (
	ResidueBackbone ResidueClass = iota
	ResidueBase
)

// DamageType labels a scored lesion. The taxonomy is closed: every damage
// site is exactly one of these three.
type DamageType int

const (
	DamageSSB DamageType = iota // single-strand break (backbone lesion)
	DamageBD                    // base damage
	DamageDSB                   // double-strand break (paired backbone lesions)
)

func (t DamageType) String() string {
	switch t {
	case DamageSSB:
		return "ssb"
	case DamageBD:
		return "bd"
	case DamageDSB:
		return "dsb"
	default:
		return "unknown"
	}
}

// EnergyDeposit is one energy deposition inside a DNA-model sensitive
// volume, as serialized by the transport engine. Residue is the raw
// sub-volume index (0, 1, or 2); Split addresses the variance-reduction
// replica and is 0 when splitting is off.
type EnergyDeposit struct {
	Fiber    int     `json:"fiber"`
	Strand   int     `json:"strand"`
	Residue  int     `json:"residue"`
	BP       int     `json:"bp"`
	Split    int     `json:"split,omitempty"`
	EnergyEV float64 `json:"energy_ev"`
}

// RawEventRecord is the flat JSON payload produced by the transport engine,
// one message per simulated event. The message boundary is the end-of-event
// notification; hits within it arrive in arbitrary order.
type RawEventRecord struct {
	EventID int             `json:"event_id"`
	RunID   string          `json:"run_id,omitempty"`
	Hits    []EnergyDeposit `json:"hits"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ClusterRecord describes one recorded damage cluster. Size is the
// base-pair span (end - start + 1). NumDSB is zero for non-DSB clusters.
type ClusterRecord struct {
	Size      int `json:"size"`
	NumSSB    int `json:"num_ssb"`
	NumBD     int `json:"num_bd"`
	NumDSB    int `json:"num_dsb,omitempty"`
	NumDamage int `json:"num_damage"`
}

// EventSummary is the classified output for one simulated event, the ntuple
// row analog. Totals are post-halving: TotalDSB counts DSB instances, not
// the paired sites, and the simple totals exclude damage absorbed into
// clusters.
type EventSummary struct {
	EventID            int    `json:"event_id"`
	RunID              string `json:"run_id,omitempty"`
	TotalSSB           int    `json:"total_ssb"`
	TotalBD            int    `json:"total_bd"`
	TotalDSB           int    `json:"total_dsb"`
	TotalComplexDSB    int    `json:"total_complex_dsb"`
	TotalNonDSBCluster int    `json:"total_non_dsb_cluster"`

	ComplexDSBs    []ClusterRecord `json:"complex_dsbs,omitempty"`
	NonDSBClusters []ClusterRecord `json:"non_dsb_clusters,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// HasDamage reports whether any damage or cluster tally is nonzero. Events
// without damage produce no output row.
func (s EventSummary) HasDamage() bool {
	return s.TotalSSB > 0 || s.TotalBD > 0 || s.TotalDSB > 0 ||
		s.TotalComplexDSB > 0 || s.TotalNonDSBCluster > 0
}

// OutputEvent is the serialized form destined for the sink.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
