package chem

import "math"

const (
	// WaterEquilibriumConstant is Kw, the self-ionization constant of water.
	WaterEquilibriumConstant = 1e-14

	// WaterConcentration is the background solvent concentration in mol/L.
	WaterConcentration = 55.6
)

// Range is a closed interval with a default value.
type Range struct {
	Min, Max, Default float64
}

// Contains reports whether v lies in [Min, Max]. NaN is never contained.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp limits v to [Min, Max]. NaN clamps to Default.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Default
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

var (
	// ConcentrationRange bounds the total solute concentration a solution accepts.
	ConcentrationRange = Range{Min: 1e-3, Max: 1, Default: 1e-2}

	// WeakStrengthRange bounds Ka/Kb for weak acids and bases.
	WeakStrengthRange = Range{Min: 1e-10, Max: 1e2, Default: 1e-7}
)

// StrongStrength is the fixed strength of strong acids and bases. It sits
// just above the weak range so strong and weak solutes never overlap.
const StrongStrength = 1e2 + 1
