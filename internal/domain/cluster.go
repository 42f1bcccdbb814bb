package domain

import "fmt"

// DamageCluster accumulates adjacent damage sites during the cluster scan.
// Start and End are the bp bounds of the cluster so far.
type DamageCluster struct {
	NumSSB int
	NumBD  int
	NumDSB int
	Start  int
	End    int
}

// Tally holds the running per-event damage counts. Simple counts are
// decremented as sites are absorbed into clusters, so the final values
// reflect only unclustered damage.
type Tally struct {
	SSB           int
	BD            int
	DSB           int
	ComplexDSB    int
	NonDSBCluster int
}

// clusterDamage scans the ordered damage sequence left to right, grouping
// sites whose gap to the previous site is at most maxDist into clusters.
// When a cluster is finalized it is appended to complexDSB or nonDSB
// depending on whether it contains a DSB, and the cluster tallies in t are
// updated. Fewer than two sites means no clustering is possible.
func clusterDamage(seq []damageSite, maxDist int, t *Tally, complexDSB, nonDSB *[]ClusterRecord) {
	if len(seq) < 2 {
		return
	}

	var cluster DamageCluster
	newCluster := true
	building := false

	for i := 1; i < len(seq); i++ {
		prev := seq[i-1]
		cur := seq[i]

		if cur.bp-prev.bp <= maxDist {
			// Opening a cluster: the previous site retroactively becomes
			// its start.
			if newCluster {
				absorbSite(&cluster, prev, newCluster, t)
				newCluster = false
				building = true
			}
			absorbSite(&cluster, cur, newCluster, t)
		} else if building {
			building = false
			newCluster = true
			recordCluster(&cluster, t, complexDSB, nonDSB)
		}
	}
	if building {
		recordCluster(&cluster, t, complexDSB, nonDSB)
	}
}

// absorbSite adds one damage site to the cluster, moving its count from the
// simple tallies to the per-cluster counters. A damage type outside the
// closed taxonomy is a data-model violation upstream and aborts processing.
func absorbSite(c *DamageCluster, site damageSite, first bool, t *Tally) {
	if first {
		c.Start = site.bp
	} else {
		c.End = site.bp
	}

	switch site.kind {
	case DamageSSB:
		c.NumSSB++
		t.SSB--
	case DamageBD:
		c.NumBD++
		t.BD--
	case DamageDSB:
		c.NumDSB++
		t.DSB--
	default:
		panic(fmt.Sprintf("domain: unrecognized damage type %d in cluster scan", site.kind))
	}
}

// recordCluster classifies and records a finished cluster, then resets the
// accumulator. DSB sites were merged as two entries per break, so the
// per-cluster DSB count is halved here.
func recordCluster(c *DamageCluster, t *Tally, complexDSB, nonDSB *[]ClusterRecord) {
	size := c.End - c.Start + 1
	if c.NumDSB > 0 {
		numDSB := c.NumDSB / 2
		*complexDSB = append(*complexDSB, ClusterRecord{
			Size:      size,
			NumSSB:    c.NumSSB,
			NumBD:     c.NumBD,
			NumDSB:    numDSB,
			NumDamage: c.NumSSB + c.NumBD + numDSB,
		})
		t.ComplexDSB++
	} else {
		*nonDSB = append(*nonDSB, ClusterRecord{
			Size:      size,
			NumSSB:    c.NumSSB,
			NumBD:     c.NumBD,
			NumDamage: c.NumSSB + c.NumBD,
		})
		t.NonDSBCluster++
	}
	*c = DamageCluster{}
}
