// Command genmock generates deterministic mock data fixtures: a set of raw
// energy-deposit events and the damage summaries the classifier produces for
// them. It runs the actual domain classifier so the expected output always
// matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -events 200 \
//	  -seed 240426 \
//	  -raw-out data/mock/raw_energy_deposits.json \
//	  -classified-out data/mock/classified_damage.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/McGillMedPhys/clustered-dna-damage/internal/domain"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/stats"
)

const mockRunID = "mock-240426"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	events := flag.Int("events", 200, "number of events to generate")
	seed := flag.Int64("seed", 240426, "random seed")
	rawOut := flag.String("raw-out", "", "output path for raw event fixture")
	classifiedOut := flag.String("classified-out", "", "output path for classified summary fixture")
	flag.Parse()

	if *rawOut == "" || *classifiedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -classified-out")
	}

	// Fix the clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewSource(*seed))
	params := domain.DefaultParams()

	records := make([]domain.RawEventRecord, 0, *events)
	summaries := make([]domain.EventSummary, 0, *events)
	skipped := 0

	for id := 1; id <= *events; id++ {
		rec := generateEvent(rng, id)
		records = append(records, rec)

		summary := domain.ClassifyEvent(rec, params)
		if !summary.HasDamage() {
			// Clean events produce no output row; keep the raw record so the
			// fixture also exercises the skip path.
			skipped++
			continue
		}
		summaries = append(summaries, summary)
	}

	log.Printf("generated %d events (%d without damage)", len(records), skipped)

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*classifiedOut, summaries); err != nil {
		return fmt.Errorf("writing classified fixture: %w", err)
	}
	log.Printf("wrote classified fixture: %s", *classifiedOut)

	printStats(summaries)
	return nil
}

// generateEvent builds one raw event with a mix of isolated hits, dense
// track-end clusters, and sub-threshold noise, roughly mimicking the damage
// patterns a track-structure simulation produces.
func generateEvent(rng *rand.Rand, eventID int) domain.RawEventRecord {
	var hits []domain.EnergyDeposit

	// Sparse isolated deposits across the fiber.
	for i, n := 0, rng.Intn(12); i < n; i++ {
		hits = append(hits, domain.EnergyDeposit{
			Fiber:    rng.Intn(3),
			Strand:   rng.Intn(2),
			Residue:  rng.Intn(3),
			BP:       rng.Intn(20000),
			EnergyEV: 5 + rng.Float64()*45,
		})
	}

	// Occasionally a dense cluster of deposits within a short bp window,
	// the signature of a track end.
	if rng.Intn(3) == 0 {
		fiber := rng.Intn(3)
		center := rng.Intn(19900)
		for i, n := 0, 3+rng.Intn(6); i < n; i++ {
			hits = append(hits, domain.EnergyDeposit{
				Fiber:    fiber,
				Strand:   rng.Intn(2),
				Residue:  rng.Intn(3),
				BP:       center + rng.Intn(30),
				EnergyEV: 10 + rng.Float64()*40,
			})
		}
	}

	// Sub-threshold noise that must not affect classification on its own.
	for i, n := 0, rng.Intn(8); i < n; i++ {
		hits = append(hits, domain.EnergyDeposit{
			Fiber:    rng.Intn(3),
			Strand:   rng.Intn(2),
			Residue:  rng.Intn(3),
			BP:       rng.Intn(20000),
			EnergyEV: rng.Float64() * 5,
		})
	}

	return domain.RawEventRecord{EventID: eventID, RunID: mockRunID, Hits: hits}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(summaries []domain.EventSummary) {
	r := stats.Compute(summaries)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Events with damage: %d\n", r.Events)
	fmt.Printf("SSB:   total=%g mean=%.3f stddev=%.3f max=%g\n", r.SSB.Total, r.SSB.Mean, r.SSB.StdDev, r.SSB.Max)
	fmt.Printf("BD:    total=%g mean=%.3f stddev=%.3f max=%g\n", r.BD.Total, r.BD.Mean, r.BD.StdDev, r.BD.Max)
	fmt.Printf("DSB:   total=%g mean=%.3f stddev=%.3f max=%g\n", r.DSB.Total, r.DSB.Mean, r.DSB.StdDev, r.DSB.Max)
	fmt.Printf("Complex DSB clusters:  %g\n", r.ComplexDSB.Total)
	fmt.Printf("Non-DSB clusters:      %g\n", r.NonDSBCluster.Total)
	fmt.Printf("DSB/SSB ratio:         %.4f\n", r.DSBPerSSB)
	fmt.Printf("Mean cluster span:     %.2f bp\n", r.MeanClusterBP)
}
