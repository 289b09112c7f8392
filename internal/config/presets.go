package config

import "sort"

// Presets holds named starting points per solution. Strengths are textbook
// Ka/Kb values at 25 C.
var Presets = map[string]map[string]*Config{
	"water": {
		"pure": {Solution: "water"},
	},
	"strong_acid": {
		"hydrochloric": {Solution: "strong_acid", Concentration: 0.1},
		"dilute":       {Solution: "strong_acid", Concentration: 0.001},
	},
	"weak_acid": {
		"acetic":       {Solution: "weak_acid", Concentration: 0.1, Strength: 1.8e-5},
		"hydrofluoric": {Solution: "weak_acid", Concentration: 0.1, Strength: 6.8e-4},
		"hypochlorous": {Solution: "weak_acid", Concentration: 0.1, Strength: 3.0e-8},
	},
	"strong_base": {
		"sodium_hydroxide": {Solution: "strong_base", Concentration: 0.1},
		"concentrated":     {Solution: "strong_base", Concentration: 1},
	},
	"weak_base": {
		"ammonia":     {Solution: "weak_base", Concentration: 0.1, Strength: 1.8e-5},
		"methylamine": {Solution: "weak_base", Concentration: 0.1, Strength: 4.4e-4},
		"pyridine":    {Solution: "weak_base", Concentration: 0.1, Strength: 1.7e-9},
	},
}

// GetPreset returns a copy of the preset laid over the defaults, or nil.
func GetPreset(solution, preset string) *Config {
	solutionPresets, ok := Presets[solution]
	if !ok {
		return nil
	}
	p, ok := solutionPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Solution = p.Solution
	cfg.Concentration = p.Concentration
	cfg.Strength = p.Strength
	return cfg
}

// ListPresets returns the preset names for solution, sorted.
func ListPresets(solution string) []string {
	solutionPresets, ok := Presets[solution]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(solutionPresets))
	for name := range solutionPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
