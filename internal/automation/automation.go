package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/acidbase/internal/journal"
	"github.com/san-kum/acidbase/internal/solution"
)

// Scenario is a scripted sequence of lab readings.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep prepares one solution and reads it.
type ScenarioStep struct {
	Label    string             `yaml:"label"`
	Solution string             `yaml:"solution"`
	Params   map[string]float64 `yaml:"params"`
	Record   bool               `yaml:"record"`
}

// Recorder stores readings.
type Recorder interface {
	Record(ctx context.Context, r journal.Reading) (int64, error)
}

// StepResult is what one step read. RecordID is zero unless the step was recorded.
type StepResult struct {
	Step     ScenarioStep
	Reading  journal.Reading
	RecordID int64
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Runner executes scenarios against a solution registry.
type Runner struct {
	registry *solution.Registry
	recorder Recorder
	log      *slog.Logger
	now      func() time.Time
}

// NewRunner returns a runner. A nil recorder makes steps with record set fail.
func NewRunner(registry *solution.Registry, recorder Recorder, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{registry: registry, recorder: recorder, log: log, now: time.Now}
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the results gathered so far.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r.log.Info("running step", "step", i+1, "of", len(scenario.Steps), "solution", step.Solution, "label", step.Label)

		sol, err := r.registry.Get(step.Solution)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		for k, v := range step.Params {
			if err := sol.SetParam(k, v); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		reading, err := journal.Take(sol, r.now())
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res := StepResult{Step: step, Reading: reading}
		if step.Record {
			if r.recorder == nil {
				return results, fmt.Errorf("step %d: no journal to record into", i+1)
			}
			id, err := r.recorder.Record(ctx, reading)
			if err != nil {
				return results, fmt.Errorf("step %d record: %w", i+1, err)
			}
			res.RecordID = id
		}

		results = append(results, res)
	}

	return results, nil
}

// MonteCarloConfig perturbs a solution's inputs to see how far its pH moves.
// Perturbation is in decades: each input is scaled by 10^u with u uniform in
// [-Perturbation, Perturbation]. Perturbed inputs are clamped to their ranges.
type MonteCarloConfig struct {
	Solution      string
	Concentration float64
	Strength      float64
	Perturbation  float64
	NumTrials     int
	Seed          int64
}

type MonteCarloResult struct {
	TrialID       int
	Concentration float64
	Strength      float64
	PH            float64
}

// RunMonteCarlo executes NumTrials perturbed readings. A zero Seed uses the clock.
func (r *Runner) RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("trials must be at least 1, got %d", cfg.NumTrials)
	}
	if cfg.Perturbation < 0 {
		return nil, fmt.Errorf("perturbation must be non-negative, got %g", cfg.Perturbation)
	}

	sol, err := r.registry.Get(cfg.Solution)
	if err != nil {
		return nil, err
	}
	base := sol.GetParams()
	if _, ok := base["concentration"]; ok && cfg.Concentration != 0 {
		base["concentration"] = cfg.Concentration
	}
	if _, ok := base["strength"]; ok && cfg.Strength != 0 {
		base["strength"] = cfg.Strength
	}

	names := make([]string, 0, len(base))
	for name := range base {
		names = append(names, name)
	}
	sort.Strings(names)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		for _, name := range names {
			u := (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			if err := sol.SetParam(name, base[name]*math.Pow(10, u)); err != nil {
				return results, err
			}
		}

		ph, err := sol.PH()
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		results = append(results, MonteCarloResult{
			TrialID:       trial,
			Concentration: sol.Concentration(),
			Strength:      sol.Strength(),
			PH:            ph,
		})

		if (trial+1)%100 == 0 {
			r.log.Debug("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats summarises the pH spread of a run.
func MonteCarloStats(results []MonteCarloResult) (minPH, maxPH, meanPH float64) {
	if len(results) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	minPH, maxPH = math.Inf(1), math.Inf(-1)
	var sum float64
	for _, r := range results {
		minPH = math.Min(minPH, r.PH)
		maxPH = math.Max(maxPH, r.PH)
		sum += r.PH
	}
	return minPH, maxPH, sum / float64(len(results))
}
