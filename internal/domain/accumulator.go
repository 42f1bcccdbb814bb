package domain

import "sort"

// strandEnergy sums deposited energy keyed by (fiber, split, bp) for one
// (strand, residue class) combination.
type strandEnergy map[int]map[int]map[int]float64

func (m strandEnergy) add(fiber, split, bp int, energyEV float64) {
	splits, ok := m[fiber]
	if !ok {
		splits = make(map[int]map[int]float64)
		m[fiber] = splits
	}
	bps, ok := splits[split]
	if !ok {
		bps = make(map[int]float64)
		splits[split] = bps
	}
	bps[bp] += energyEV
}

// bucket returns the bp→energy map for one (fiber, split), creating it if
// absent so extraction can drain a shared, addressable map.
func (m strandEnergy) bucket(fiber, split int) map[int]float64 {
	splits, ok := m[fiber]
	if !ok {
		splits = make(map[int]map[int]float64)
		m[fiber] = splits
	}
	bps, ok := splits[split]
	if !ok {
		bps = make(map[int]float64)
		splits[split] = bps
	}
	return bps
}

// accumulator owns the four per-event energy maps: one per strand for the
// backbone residues and one per strand for the bases. It is created fresh
// per event and fully drained by the classification pass.
type accumulator struct {
	backbone [2]strandEnergy
	base     [2]strandEnergy
}

func newAccumulator() *accumulator {
	return &accumulator{
		backbone: [2]strandEnergy{make(strandEnergy), make(strandEnergy)},
		base:     [2]strandEnergy{make(strandEnergy), make(strandEnergy)},
	}
}

// record scores one energy deposit. Residue sub-volumes 0 and 1 map to the
// backbone, 2 to the base. A hit whose strand or residue index falls outside
// the model is a deposit outside the DNA-sensitive region and is dropped,
// as are non-positive energies.
func (a *accumulator) record(d EnergyDeposit, numSplit int) {
	if d.EnergyEV <= 0 {
		return
	}
	if d.Strand != 0 && d.Strand != 1 {
		return
	}
	if d.Split < 0 || d.Split >= numSplit {
		return
	}
	switch d.Residue {
	case 0, 1:
		a.backbone[d.Strand].add(d.Fiber, d.Split, d.BP, d.EnergyEV)
	case 2:
		a.base[d.Strand].add(d.Fiber, d.Split, d.BP, d.EnergyEV)
	}
}

// fibers returns the sorted union of fiber ids touched by any of the four
// maps, so the per-fiber passes run in a deterministic order.
func (a *accumulator) fibers() []int {
	seen := make(map[int]struct{})
	for strand := 0; strand < 2; strand++ {
		for fiber := range a.backbone[strand] {
			seen[fiber] = struct{}{}
		}
		for fiber := range a.base[strand] {
			seen[fiber] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for fiber := range seen {
		ids = append(ids, fiber)
	}
	sort.Ints(ids)
	return ids
}
