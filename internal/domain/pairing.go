package domain

// pairDSB walks the two strands' sorted SSB site lists with one cursor each
// and pairs opposite-strand sites within maxDist base pairs of each other.
// Each pair is emitted smaller index first (tie toward strand 1) into a flat
// list, so the output length is twice the number of DSBs. Paired sites are
// consumed; the returned remainder lists hold the sites that stay simple
// SSBs.
func pairDSB(ssb1, ssb2 []int, maxDist int) (dsb, rest1, rest2 []int) {
	rest1 = make([]int, 0, len(ssb1))
	rest2 = make([]int, 0, len(ssb2))

	i, j := 0, 0
	for i < len(ssb1) && j < len(ssb2) {
		diff := ssb2[j] - ssb1[i]

		switch {
		// Within range on either side: this is a DSB.
		case abs(diff) <= maxDist:
			if ssb1[i] <= ssb2[j] {
				dsb = append(dsb, ssb1[i], ssb2[j])
			} else {
				dsb = append(dsb, ssb2[j], ssb1[i])
			}
			i++
			j++
		// Strand-2 site is behind and out of range; it cannot pair with
		// this or any later strand-1 site.
		case diff < 0:
			rest2 = append(rest2, ssb2[j])
			j++
		// Strand-1 site is behind and out of range.
		default:
			rest1 = append(rest1, ssb1[i])
			i++
		}
	}

	rest1 = append(rest1, ssb1[i:]...)
	rest2 = append(rest2, ssb2[j:]...)
	return dsb, rest1, rest2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
