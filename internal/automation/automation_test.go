package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/acidbase/internal/journal"
	"github.com/san-kum/acidbase/internal/solution"
)

type memRecorder struct {
	readings []journal.Reading
}

func (m *memRecorder) Record(_ context.Context, r journal.Reading) (int64, error) {
	m.readings = append(m.readings, r)
	return int64(len(m.readings)), nil
}

const scenarioYAML = `
name: dilution
description: strong acid at two concentrations
steps:
  - label: stock
    solution: strong_acid
    params:
      concentration: 0.1
    record: true
  - label: diluted
    solution: strong_acid
    params:
      concentration: 0.001
  - solution: water
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Name != "dilution" || len(s.Steps) != 3 {
		t.Fatalf("unexpected scenario: %+v", s)
	}
	if !s.Steps[0].Record || s.Steps[1].Record {
		t.Error("record flags not parsed")
	}
	if s.Steps[1].Params["concentration"] != 0.001 {
		t.Errorf("params = %v", s.Steps[1].Params)
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: nothing\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	rec := &memRecorder{}
	r := NewRunner(solution.NewRegistry(), rec, nil)

	results, err := r.RunScenario(context.Background(), s)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantPH := []float64{1, 3, 7}
	for i, want := range wantPH {
		if got := results[i].Reading.PH; math.Abs(got-want) > 1e-6 {
			t.Errorf("step %d pH = %g, want %g", i+1, got, want)
		}
	}
	if results[0].RecordID != 1 || results[1].RecordID != 0 {
		t.Errorf("record ids = %d, %d", results[0].RecordID, results[1].RecordID)
	}
	if len(rec.readings) != 1 {
		t.Errorf("recorded %d readings, want 1", len(rec.readings))
	}
}

func TestRunScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
		want string
	}{
		{"unknown solution", ScenarioStep{Solution: "vinegar"}, "unknown solution"},
		{"bad param", ScenarioStep{Solution: "water", Params: map[string]float64{"concentration": 0.1}}, "step 1"},
		{"record without journal", ScenarioStep{Solution: "water", Record: true}, "no journal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(solution.NewRegistry(), nil, nil)
			_, err := r.RunScenario(context.Background(), &Scenario{Steps: []ScenarioStep{tt.step}})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRunMonteCarlo(t *testing.T) {
	r := NewRunner(solution.NewRegistry(), nil, nil)
	cfg := &MonteCarloConfig{
		Solution:      "weak_acid",
		Concentration: 0.01,
		Strength:      1e-5,
		Perturbation:  0.1,
		NumTrials:     50,
		Seed:          42,
	}

	results, err := r.RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if len(results) != cfg.NumTrials {
		t.Fatalf("expected %d trials, got %d", cfg.NumTrials, len(results))
	}

	minPH, maxPH, mean := MonteCarloStats(results)
	// pH = 0.5(pKa - log c) moves at most 0.1 decades either way.
	if minPH < 3.35 || maxPH > 3.65 {
		t.Errorf("pH spread [%g, %g] wider than expected", minPH, maxPH)
	}
	if mean < minPH || mean > maxPH {
		t.Errorf("mean %g outside [%g, %g]", mean, minPH, maxPH)
	}

	again, _ := r.RunMonteCarlo(context.Background(), cfg)
	for i := range results {
		if results[i].PH != again[i].PH {
			t.Fatalf("seeded runs differ at trial %d", i)
		}
	}
}

func TestRunMonteCarloZeroPerturbation(t *testing.T) {
	r := NewRunner(solution.NewRegistry(), nil, nil)
	results, err := r.RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Solution:      "strong_base",
		Concentration: 0.01,
		NumTrials:     5,
		Seed:          1,
	})
	if err != nil {
		t.Fatal(err)
	}
	minPH, maxPH, _ := MonteCarloStats(results)
	if math.Abs(minPH-12) > 1e-6 || math.Abs(maxPH-12) > 1e-6 {
		t.Errorf("pH range [%g, %g], want 12", minPH, maxPH)
	}
}

func TestRunMonteCarloErrors(t *testing.T) {
	r := NewRunner(solution.NewRegistry(), nil, nil)
	if _, err := r.RunMonteCarlo(context.Background(), &MonteCarloConfig{Solution: "water"}); err == nil {
		t.Error("expected error for zero trials")
	}
	if _, err := r.RunMonteCarlo(context.Background(), &MonteCarloConfig{Solution: "lemonade", NumTrials: 1}); err == nil {
		t.Error("expected error for unknown solution")
	}
}

func TestMonteCarloStatsEmpty(t *testing.T) {
	minPH, _, _ := MonteCarloStats(nil)
	if !math.IsNaN(minPH) {
		t.Errorf("min = %g, want NaN", minPH)
	}
}
