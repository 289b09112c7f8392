package sweep

import (
	"fmt"
	"math"

	"github.com/san-kum/acidbase/internal/chem"
)

// Param names the input a sweep varies.
type Param string

const (
	Concentration Param = "concentration"
	Strength      Param = "strength"
)

// ParseParam accepts "concentration" or "strength".
func ParseParam(s string) (Param, error) {
	switch Param(s) {
	case Concentration, Strength:
		return Param(s), nil
	}
	return "", fmt.Errorf("unknown sweep parameter: %s", s)
}

type Config struct {
	Kind   chem.Kind
	Param  Param
	From   float64
	To     float64
	Points int
	// Fixed is the input that is not swept. Zero selects the kind's default.
	Fixed float64
}

// DefaultConfig sweeps concentration across its whole range.
func DefaultConfig(kind chem.Kind) Config {
	return Config{
		Kind:   kind,
		Param:  Concentration,
		From:   chem.ConcentrationRange.Min,
		To:     chem.ConcentrationRange.Max,
		Points: 31,
	}
}

// Inputs returns the total concentration and strength used at swept value v.
func (c Config) Inputs(v float64) (total, strength float64) {
	if c.Param == Strength {
		total = c.Fixed
		if total == 0 {
			total = chem.ConcentrationRange.Default
		}
		return total, v
	}
	strength = chem.DefaultStrength(c.Kind)
	if c.Kind.IsWeak() && c.Fixed != 0 {
		strength = c.Fixed
	}
	return v, strength
}

// Grid returns Points log-spaced values from From to To inclusive.
func (c Config) Grid() []float64 {
	grid := make([]float64, c.Points)
	ratio := c.To / c.From
	for i := range grid {
		grid[i] = c.From * math.Pow(ratio, float64(i)/float64(c.Points-1))
	}
	grid[0], grid[len(grid)-1] = c.From, c.To
	return grid
}

// Validate rejects sweeps that cannot produce a full series.
func (c Config) Validate() error {
	if c.Points < 2 {
		return fmt.Errorf("points must be at least 2, got %d", c.Points)
	}
	if c.Kind == chem.Water {
		return fmt.Errorf("%w: water has no inputs to sweep", chem.ErrInvalidConcentration)
	}
	var r chem.Range
	switch c.Param {
	case Concentration:
		r = chem.ConcentrationRange
		if c.Kind.IsWeak() && c.Fixed != 0 && !chem.WeakStrengthRange.Contains(c.Fixed) {
			return fmt.Errorf("%w: fixed strength %g", chem.ErrInvalidStrength, c.Fixed)
		}
	case Strength:
		if !c.Kind.IsWeak() {
			return fmt.Errorf("%w: %s has a fixed strength", chem.ErrInvalidStrength, c.Kind)
		}
		r = chem.WeakStrengthRange
		if c.Fixed != 0 && !chem.ConcentrationRange.Contains(c.Fixed) {
			return fmt.Errorf("%w: fixed concentration %g", chem.ErrInvalidConcentration, c.Fixed)
		}
	default:
		return fmt.Errorf("unknown sweep parameter: %q", c.Param)
	}
	if !r.Contains(c.From) || !r.Contains(c.To) {
		return fmt.Errorf("%s range [%g, %g] outside [%g, %g]", c.Param, c.From, c.To, r.Min, r.Max)
	}
	if c.From >= c.To {
		return fmt.Errorf("%s range must increase, got [%g, %g]", c.Param, c.From, c.To)
	}
	return nil
}

// Observer is told about every evaluated point.
type Observer interface {
	OnPoint(i int, value float64, c chem.Concentrations)
}

type Result struct {
	Config   Config
	Values   []float64
	Series   []chem.Concentrations
	PH       []float64
	Readings []map[string]float64
}

// Column returns the concentration of s at every point.
func (r *Result) Column(s chem.Species) []float64 {
	out := make([]float64, len(r.Series))
	for i, c := range r.Series {
		out[i] = c.Value(s)
	}
	return out
}

// PointError reports which point of a sweep failed.
type PointError struct {
	Index   int
	Value   float64
	Wrapped error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("point %d (%g): %v", e.Index, e.Value, e.Wrapped)
}

func (e *PointError) Unwrap() error { return e.Wrapped }
