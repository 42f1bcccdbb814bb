// Command validate performs integrity checks over the mock data fixtures:
// the raw energy-deposit events and the classified damage summaries produced
// by genmock. It verifies fixture well-formedness, re-runs the classifier to
// confirm the summaries match current pipeline behavior, and checks the
// internal consistency of every summary.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw-json data/mock/raw_energy_deposits.json \
//	  -classified-json data/mock/classified_damage.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/McGillMedPhys/clustered-dna-damage/internal/domain"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/stats"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawJSON := flag.String("raw-json", "", "path to raw event fixture")
	classifiedJSON := flag.String("classified-json", "", "path to classified summary fixture")
	flag.Parse()

	if *rawJSON == "" || *classifiedJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawJSON, *classifiedJSON); code != 0 {
		os.Exit(code)
	}
}

func run(rawPath, classifiedPath string) int {
	// Fix the clock to match genmock so recomputed summaries compare equal.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Damage Fixture Integrity Validation ===")
	fmt.Println()

	records, err := loadJSON[domain.RawEventRecord](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw fixture: %v\n", err)
		return 1
	}

	summaries, err := loadJSON[domain.EventSummary](classifiedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load classified fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRawFixture(records),
		validateClassificationParity(records, summaries),
		validateSummaryConsistency(summaries),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-48s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw events, %d classified summaries\n", len(records), len(summaries))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	printYields(summaries)

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Raw Fixture ──
// Validates that every raw event is well formed and addressable.

func validateRawFixture(records []domain.RawEventRecord) *phase {
	p := &phase{name: "Phase 1: Raw Fixture (events and hits)"}

	seen := map[int]bool{}
	for i, rec := range records {
		if rec.EventID < 0 {
			p.errorf("record %d: negative event id %d", i, rec.EventID)
		}
		if seen[rec.EventID] {
			p.errorf("record %d: duplicate event id %d", i, rec.EventID)
		}
		seen[rec.EventID] = true

		for j, h := range rec.Hits {
			if h.Strand != 0 && h.Strand != 1 {
				p.errorf("event %d hit %d: strand %d outside {0,1}", rec.EventID, j, h.Strand)
			}
			if h.Residue < 0 || h.Residue > 2 {
				p.errorf("event %d hit %d: residue %d outside {0,1,2}", rec.EventID, j, h.Residue)
			}
			if h.EnergyEV <= 0 {
				p.errorf("event %d hit %d: non-positive energy %g eV", rec.EventID, j, h.EnergyEV)
			}
			if h.BP < 0 {
				p.errorf("event %d hit %d: negative bp %d", rec.EventID, j, h.BP)
			}
		}
	}
	return p
}

// ── Phase 2: Classification Parity ──
// Re-runs the classifier on each raw event and compares against the fixture.

func validateClassificationParity(records []domain.RawEventRecord, summaries []domain.EventSummary) *phase {
	p := &phase{name: "Phase 2: Classification Parity (recompute)"}

	byID := make(map[int]domain.EventSummary, len(summaries))
	for _, s := range summaries {
		byID[s.EventID] = s
	}

	params := domain.DefaultParams()
	matched := 0

	for _, rec := range records {
		expected := domain.ClassifyEvent(rec, params)

		fixture, ok := byID[rec.EventID]
		if !ok {
			if expected.HasDamage() {
				p.errorf("event %d: damage expected but summary missing from fixture", rec.EventID)
			}
			continue
		}
		delete(byID, rec.EventID)
		if !expected.HasDamage() {
			p.errorf("event %d: clean event has a summary in the fixture", rec.EventID)
			continue
		}

		if diff := cmp.Diff(expected, fixture); diff != "" {
			p.errorf("event %d: summary mismatch (-recomputed +fixture):\n%s", rec.EventID, diff)
			continue
		}
		matched++
	}

	for id := range byID {
		p.errorf("summary for event %d has no raw event", id)
	}

	fmt.Printf("  Phase 2: %d summaries matched recomputation\n", matched)
	return p
}

// ── Phase 3: Summary Consistency ──
// Checks each summary's internal invariants independently of the raw data.

func validateSummaryConsistency(summaries []domain.EventSummary) *phase {
	p := &phase{name: "Phase 3: Summary Consistency (invariants)"}

	for _, s := range summaries {
		if !s.HasDamage() {
			p.errorf("event %d: all-zero summary should not have been emitted", s.EventID)
		}
		if s.TotalComplexDSB != len(s.ComplexDSBs) {
			p.errorf("event %d: total_complex_dsb=%d but %d cluster records", s.EventID, s.TotalComplexDSB, len(s.ComplexDSBs))
		}
		if s.TotalNonDSBCluster != len(s.NonDSBClusters) {
			p.errorf("event %d: total_non_dsb_cluster=%d but %d cluster records", s.EventID, s.TotalNonDSBCluster, len(s.NonDSBClusters))
		}
		if s.ProcessedAt.IsZero() {
			p.errorf("event %d: processed_at is zero", s.EventID)
		}

		for i, c := range s.ComplexDSBs {
			if c.NumDSB < 1 {
				p.errorf("event %d complex cluster %d: no DSB", s.EventID, i)
			}
			checkCluster(p, s.EventID, "complex", i, c)
		}
		for i, c := range s.NonDSBClusters {
			if c.NumDSB != 0 {
				p.errorf("event %d non-DSB cluster %d: contains %d DSBs", s.EventID, i, c.NumDSB)
			}
			if c.NumSSB+c.NumBD < 2 {
				p.errorf("event %d non-DSB cluster %d: fewer than two damages", s.EventID, i)
			}
			checkCluster(p, s.EventID, "non-dsb", i, c)
		}
	}
	return p
}

func checkCluster(p *phase, eventID int, kind string, i int, c domain.ClusterRecord) {
	if c.NumDamage != c.NumSSB+c.NumBD+c.NumDSB {
		p.errorf("event %d %s cluster %d: num_damage=%d, components sum to %d",
			eventID, kind, i, c.NumDamage, c.NumSSB+c.NumBD+c.NumDSB)
	}
	if c.Size < 1 {
		p.errorf("event %d %s cluster %d: size %d < 1", eventID, kind, i, c.Size)
	}
}

// ── Yield report ──

func printYields(summaries []domain.EventSummary) {
	r := stats.Compute(summaries)

	fmt.Println("\n=== Damage yields ===")
	fmt.Printf("SSB:  total=%g mean=%.3f stddev=%.3f\n", r.SSB.Total, r.SSB.Mean, r.SSB.StdDev)
	fmt.Printf("BD:   total=%g mean=%.3f stddev=%.3f\n", r.BD.Total, r.BD.Mean, r.BD.StdDev)
	fmt.Printf("DSB:  total=%g mean=%.3f stddev=%.3f\n", r.DSB.Total, r.DSB.Mean, r.DSB.StdDev)
	fmt.Printf("Complex DSB clusters: %g (mean span %.2f bp)\n", r.ComplexDSB.Total, r.MeanClusterBP)
	fmt.Printf("Non-DSB clusters:     %g\n", r.NonDSBCluster.Total)
	fmt.Printf("DSB/SSB ratio:        %.4f\n", r.DSBPerSSB)
}
