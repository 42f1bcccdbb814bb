package domain

import "slices"

// damageSite is one entry of the ordered damage sequence for a fiber.
type damageSite struct {
	bp   int
	kind DamageType
}

// combineDamage merges the per-strand simple-damage lists and the DSB list
// into one sequence ordered by bp index, spanning both strands. The merge is
// stable: strand-1 SSBs seed the sequence and each later list is folded in
// by inserting every site before the first existing entry with a strictly
// greater bp index, so equal-index entries keep the merge order
// SSB1, BD1, SSB2, BD2, DSB. Duplicate bp indices across damage types are
// all retained.
func combineDamage(ssb1, bd1, ssb2, bd2, dsb []int) []damageSite {
	seq := make([]damageSite, 0, len(ssb1)+len(bd1)+len(ssb2)+len(bd2)+len(dsb))
	for _, bp := range ssb1 {
		seq = append(seq, damageSite{bp: bp, kind: DamageSSB})
	}
	seq = mergeOrdered(seq, bd1, DamageBD)
	seq = mergeOrdered(seq, ssb2, DamageSSB)
	seq = mergeOrdered(seq, bd2, DamageBD)
	seq = mergeOrdered(seq, dsb, DamageDSB)
	return seq
}

// mergeOrdered folds a sorted bp list into the sequence, tagging each entry
// with kind. Sites that compare equal to an existing entry land after it;
// sites beyond the last entry are appended.
func mergeOrdered(seq []damageSite, sites []int, kind DamageType) []damageSite {
	i, s := 0, 0
	for s < len(sites) && i < len(seq) {
		if sites[s] < seq[i].bp {
			seq = slices.Insert(seq, i, damageSite{bp: sites[s], kind: kind})
			s++
		}
		i++
	}
	for ; s < len(sites); s++ {
		seq = append(seq, damageSite{bp: sites[s], kind: kind})
	}
	return seq
}
