package domain

import "sort"

// extractSites drains the bp→energy map and returns, in ascending bp order,
// every index whose accumulated energy meets the threshold. The map is empty
// on return; entries are consumed exactly once per event.
func extractSites(thresholdEV float64, energies map[int]float64) []int {
	if len(energies) == 0 {
		return nil
	}

	indices := make([]int, 0, len(energies))
	for bp := range energies {
		indices = append(indices, bp)
	}
	sort.Ints(indices)

	sites := make([]int, 0, len(indices))
	for _, bp := range indices {
		if energies[bp] >= thresholdEV {
			sites = append(sites, bp)
		}
		delete(energies, bp)
	}
	return sites
}
