package sweep

import (
	"context"
	"sync"

	"github.com/san-kum/acidbase/internal/instruments"
)

// Ensemble runs several sweeps concurrently. Instruments hold state, so each
// sweep gets its own set from newInstruments.
type Ensemble struct {
	newInstruments func() []instruments.Instrument
}

func NewEnsemble(newInstruments func() []instruments.Instrument) *Ensemble {
	if newInstruments == nil {
		newInstruments = func() []instruments.Instrument { return nil }
	}
	return &Ensemble{newInstruments: newInstruments}
}

// Run returns one result per config, in order. The first error wins.
func (e *Ensemble) Run(ctx context.Context, cfgs []Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			s := New(e.newInstruments()...)
			results[idx], errs[idx] = s.Run(ctx, cfgs[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
