// Package domain classifies radiation-induced DNA damage from Monte Carlo
// energy-deposition events.
//
// # Data Source
//
// Raw events originate from a particle-transport engine tracking primaries
// (neutrons, x-rays) and their secondaries through a chromatin fiber model.
// Every interaction depositing energy in a DNA-sensitive volume becomes one
// hit tagged with the fiber, strand (0 or 1), residue sub-volume, and
// base-pair index of that volume. The upstream engine publishes one flat
// JSON message per simulated event, carrying the event id and all of its
// hits in arbitrary order.
//
// # Model Conventions
//
// Residue addressing:
//
//	Each base pair has three sub-volumes per strand. Sub-volumes 0 and 1 are
//	the exact sugar and phosphate backbone positions, sub-volume 2 is the
//	base. This mapping is a structural fact of the nucleotide model. A hit
//	whose strand or residue index falls outside the model is a deposit
//	outside the sensitive region and is silently dropped, not an error.
//
// Damage taxonomy (closed):
//
//	SSB  single-strand break: a backbone site whose summed energy meets the
//	     SSB threshold (default 17.5 eV) and that never pairs into a DSB.
//	BD   base damage: a base site whose summed energy meets the BD
//	     threshold (default 17.5 eV, configurable independently).
//	DSB  double-strand break: opposite-strand backbone breaks within the
//	     DSB distance threshold (default 10 bp) of each other.
//
// Clustering:
//
//	Damage sites on both strands of a fiber are merged into one sequence
//	ordered by bp index. Consecutive sites whose gap is at most the cluster
//	distance threshold (default 40 bp) form a cluster; a cluster holding at
//	least one DSB is a Complex DSB, otherwise it is a Non-DSB Cluster.
//	Clustered damage is counted at the cluster level only; the simple
//	tallies keep just the unclustered remainder.
//
// Double-counting rule:
//
//	Each DSB contributes two entries to the ordered sequence, one per
//	strand. Per-cluster DSB counts are halved when a cluster is recorded,
//	and the event-level DSB tally is halved exactly once per event after
//	all fibers and splits are processed, so unclustered breaks are counted
//	as instances too.
//
// Variance reduction:
//
//	With NumberOfSplit > 1 each hit carries a split index and every split
//	copy is accumulated and classified independently, as a fully isolated
//	replica of the event.
//
// # Lifecycle
//
// All classification state is per event. A Classifier accumulates hits
// between event boundaries; EndOfEvent drains every accumulation map, runs
// extraction, DSB pairing, merge, and clustering per (fiber, split), and
// resets the instance. Nothing persists across events except the returned
// [EventSummary]. Events whose summary has all-zero tallies emit no row.
package domain
