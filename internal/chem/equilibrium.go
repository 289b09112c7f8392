package chem

import (
	"errors"
	"math"
)

// ComputeWater returns the concentrations of pure water.
func ComputeWater() Concentrations {
	x := math.Sqrt(WaterEquilibriumConstant)
	return Concentrations{
		kind: Water,
		values: map[Species]float64{
			H3O: x,
			OH:  x,
			H2O: WaterConcentration,
		},
	}
}

// ComputeStrongAcid returns the concentrations of a completely dissociated acid.
func ComputeStrongAcid(totalConcentration float64) (Concentrations, error) {
	return strong(StrongAcid, "compute", totalConcentration)
}

// ComputeStrongBase returns the concentrations of a completely dissociated base.
func ComputeStrongBase(totalConcentration float64) (Concentrations, error) {
	return strong(StrongBase, "compute", totalConcentration)
}

// ComputeWeakAcid returns the concentrations of a weak acid with Ka = strength.
func ComputeWeakAcid(totalConcentration, strength float64) (Concentrations, error) {
	return weak(WeakAcid, "compute", totalConcentration, strength)
}

// ComputeWeakBase returns the concentrations of a weak base with Kb = strength.
func ComputeWeakBase(totalConcentration, strength float64) (Concentrations, error) {
	return weak(WeakBase, "compute", totalConcentration, strength)
}

// Compute dispatches on kind. Strong kinds require strength == StrongStrength.
// Water requires totalConcentration == 0 and strength == 0.
func Compute(kind Kind, totalConcentration, strength float64) (Concentrations, error) {
	switch kind {
	case Water:
		if totalConcentration != 0 {
			return Concentrations{}, &Error{Op: "compute", Kind: kind, Value: totalConcentration, Wrapped: ErrInvalidConcentration}
		}
		if strength != 0 {
			return Concentrations{}, &Error{Op: "compute", Kind: kind, Value: strength, Wrapped: ErrInvalidStrength}
		}
		return ComputeWater(), nil
	case StrongAcid, StrongBase:
		if strength != StrongStrength {
			return Concentrations{}, &Error{Op: "compute", Kind: kind, Value: strength, Wrapped: ErrInvalidStrength}
		}
		return strong(kind, "compute", totalConcentration)
	case WeakAcid, WeakBase:
		return weak(kind, "compute", totalConcentration, strength)
	}
	return Concentrations{}, &Error{Op: "compute", Kind: kind, Value: float64(kind), Wrapped: ErrUnknownKind}
}

// DefaultStrength returns the strength a solution of kind starts with.
func DefaultStrength(kind Kind) float64 {
	switch {
	case kind.IsStrong():
		return StrongStrength
	case kind.IsWeak():
		return WeakStrengthRange.Default
	}
	return 0
}

// PH returns -log10[H3O+].
func PH(c Concentrations) float64 {
	return -math.Log10(c.Value(H3O))
}

// Dissociation solves x^2 + K*x - K*c = 0 for its positive root. It is the
// amount of a weak solute that dissociates at equilibrium.
func Dissociation(strength, totalConcentration float64) (float64, error) {
	disc := strength*strength + 4*strength*totalConcentration
	if disc < 0 || math.IsNaN(disc) {
		return 0, &Error{Op: "dissociate", Value: disc, Wrapped: ErrDomainViolation}
	}
	root := math.Sqrt(disc)
	// (-K + root) / 2, rearranged to avoid cancellation when K >> c.
	den := strength + root
	if den == 0 {
		return 0, nil
	}
	return 2 * strength * totalConcentration / den, nil
}

func checkConcentration(kind Kind, op string, c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return &Error{Op: op, Kind: kind, Value: c, Wrapped: ErrInvalidConcentration}
	}
	return nil
}

func strong(kind Kind, op string, c float64) (Concentrations, error) {
	if err := checkConcentration(kind, op, c); err != nil {
		return Concentrations{}, err
	}
	other := WaterEquilibriumConstant / c
	var values map[Species]float64
	if kind == StrongAcid {
		values = map[Species]float64{HA: 0, A: c, H3O: c, OH: other, H2O: WaterConcentration - c}
	} else {
		values = map[Species]float64{MOH: 0, M: c, OH: c, H3O: other, H2O: WaterConcentration - c}
	}
	return validated(kind, op, values)
}

func weak(kind Kind, op string, c, strength float64) (Concentrations, error) {
	if err := checkConcentration(kind, op, c); err != nil {
		return Concentrations{}, err
	}
	if !WeakStrengthRange.Contains(strength) {
		return Concentrations{}, &Error{Op: op, Kind: kind, Value: strength, Wrapped: ErrInvalidStrength}
	}
	x, err := Dissociation(strength, c)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Kind = kind
		}
		return Concentrations{}, err
	}
	other := WaterEquilibriumConstant / x
	var values map[Species]float64
	if kind == WeakAcid {
		values = map[Species]float64{HA: c - x, A: x, H3O: x, OH: other, H2O: WaterConcentration - x}
	} else {
		values = map[Species]float64{B: c - x, BH: x, OH: x, H3O: other, H2O: WaterConcentration - x}
	}
	return validated(kind, op, values)
}

func validated(kind Kind, op string, values map[Species]float64) (Concentrations, error) {
	for _, s := range speciesOrder(kind) {
		v := values[s]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return Concentrations{}, &Error{Op: op, Kind: kind, Species: s, Value: v, Wrapped: ErrDomainViolation}
		}
	}
	return Concentrations{kind: kind, values: values}, nil
}
