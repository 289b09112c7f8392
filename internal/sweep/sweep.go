// Package sweep evaluates a solution across a range of one input.
package sweep

import (
	"context"

	"github.com/san-kum/acidbase/internal/chem"
	"github.com/san-kum/acidbase/internal/instruments"
)

type Sweeper struct {
	instruments []instruments.Instrument
	observers   []Observer
}

func New(ins ...instruments.Instrument) *Sweeper {
	return &Sweeper{
		instruments: ins,
		observers:   make([]Observer, 0),
	}
}

func (s *Sweeper) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Sweeper) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid := cfg.Grid()
	result := &Result{
		Config:   cfg,
		Values:   make([]float64, 0, len(grid)),
		Series:   make([]chem.Concentrations, 0, len(grid)),
		PH:       make([]float64, 0, len(grid)),
		Readings: make([]map[string]float64, 0, len(grid)),
	}

	for i, v := range grid {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		total, strength := cfg.Inputs(v)
		c, err := chem.Compute(cfg.Kind, total, strength)
		if err != nil {
			return result, &PointError{Index: i, Value: v, Wrapped: err}
		}

		result.Values = append(result.Values, v)
		result.Series = append(result.Series, c)
		result.PH = append(result.PH, chem.PH(c))
		result.Readings = append(result.Readings, instruments.ReadAll(s.instruments, c))

		for _, obs := range s.observers {
			obs.OnPoint(i, v, c)
		}
	}

	return result, nil
}
