package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/acidbase/internal/chem"
	"github.com/san-kum/acidbase/internal/sweep"
)

var ErrNoMatch = errors.New("optim: no grid point could be evaluated")

// GridSearch evaluates every combination of input values and keeps the one
// whose pH lands closest to a target.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// ForKind searches every input kind takes over its full slider range,
// points values per input.
func ForKind(kind chem.Kind, points int) (*GridSearch, error) {
	if kind == chem.Water {
		return nil, fmt.Errorf("%w: water has no inputs to search", chem.ErrInvalidConcentration)
	}
	if points < 2 {
		return nil, fmt.Errorf("points must be at least 2, got %d", points)
	}
	params := []string{string(sweep.Concentration)}
	ranges := [][]float64{grid(chem.ConcentrationRange, points)}
	if kind.IsWeak() {
		params = append(params, string(sweep.Strength))
		ranges = append(ranges, grid(chem.WeakStrengthRange, points))
	}
	return NewGridSearch(params, ranges), nil
}

func grid(r chem.Range, points int) []float64 {
	return sweep.Config{From: r.Min, To: r.Max, Points: points}.Grid()
}

// Match is the best grid point found.
type Match struct {
	Params        map[string]float64
	Concentration float64
	Strength      float64
	PH            float64
	// Error is |pH - target|.
	Error float64
}

// Search returns the grid point of kind whose pH is closest to target.
// Inputs missing from the grid take their slider defaults. Points that fail
// to evaluate are skipped.
func (g *GridSearch) Search(ctx context.Context, kind chem.Kind, target float64) (Match, error) {
	best := Match{Error: math.Inf(1)}
	found := false

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		c := chem.ConcentrationRange.Default
		if v, ok := params[string(sweep.Concentration)]; ok {
			c = v
		}
		k := chem.DefaultStrength(kind)
		if v, ok := params[string(sweep.Strength)]; ok {
			k = v
		}

		conc, err := chem.Compute(kind, c, k)
		if err != nil {
			return
		}
		ph := chem.PH(conc)
		if d := math.Abs(ph - target); d < best.Error {
			best = Match{Params: params, Concentration: c, Strength: k, PH: ph, Error: d}
			found = true
		}
	})
	if err != nil {
		return Match{}, err
	}
	if !found {
		return Match{}, ErrNoMatch
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	evaluate func(map[string]float64),
) error {
	if depth == len(g.paramNames) {
		evaluate(current)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, evaluate); err != nil {
			return err
		}
	}
	return nil
}
