// Package solution holds the mutable solute system a screen works with.
package solution

import (
	"fmt"
	"sync"

	"github.com/san-kum/acidbase/internal/chem"
)

// Observer is called with the fresh concentration set after an input changes.
type Observer func(chem.Concentrations)

// Solution is one configured solute system. Concentrations are never stored;
// they are recomputed from kind, concentration and strength on every read.
type Solution struct {
	mu            sync.RWMutex
	kind          chem.Kind
	concentration float64
	strength      float64
	observers     map[int]Observer
	nextID        int
}

// New returns a solution of kind at its default concentration and strength.
func New(kind chem.Kind) (*Solution, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %v", chem.ErrUnknownKind, kind)
	}
	s := &Solution{
		kind:      kind,
		strength:  chem.DefaultStrength(kind),
		observers: make(map[int]Observer),
	}
	if kind != chem.Water {
		s.concentration = chem.ConcentrationRange.Default
	}
	return s, nil
}

func (s *Solution) Kind() chem.Kind { return s.kind }

func (s *Solution) Concentration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.concentration
}

func (s *Solution) Strength() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strength
}

// SetConcentration clamps c into the concentration range and returns the
// value actually applied. Water has no solute and rejects any change.
func (s *Solution) SetConcentration(c float64) (float64, error) {
	if s.kind == chem.Water {
		return 0, &chem.Error{Op: "set concentration", Kind: s.kind, Value: c, Wrapped: chem.ErrInvalidConcentration}
	}
	c = chem.ConcentrationRange.Clamp(c)
	s.mu.Lock()
	changed := s.concentration != c
	s.concentration = c
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return c, nil
}

// SetStrength clamps k into the weak strength range and returns the value
// actually applied. Only weak kinds accept a strength.
func (s *Solution) SetStrength(k float64) (float64, error) {
	if !s.kind.IsWeak() {
		return s.Strength(), &chem.Error{Op: "set strength", Kind: s.kind, Value: k, Wrapped: chem.ErrInvalidStrength}
	}
	k = chem.WeakStrengthRange.Clamp(k)
	s.mu.Lock()
	changed := s.strength != k
	s.strength = k
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return k, nil
}

// Concentrations computes the current equilibrium concentrations.
func (s *Solution) Concentrations() (chem.Concentrations, error) {
	s.mu.RLock()
	kind, c, k := s.kind, s.concentration, s.strength
	s.mu.RUnlock()
	return chem.Compute(kind, c, k)
}

// Snapshot is a consistent view of a solution's inputs and the
// concentrations they produce.
type Snapshot struct {
	Kind           chem.Kind
	Concentration  float64
	Strength       float64
	Concentrations chem.Concentrations
}

// Snapshot reads the inputs and computes their concentrations under one lock.
func (s *Solution) Snapshot() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := chem.Compute(s.kind, s.concentration, s.strength)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Kind:           s.kind,
		Concentration:  s.concentration,
		Strength:       s.strength,
		Concentrations: c,
	}, nil
}

// PH computes the current pH.
func (s *Solution) PH() (float64, error) {
	c, err := s.Concentrations()
	if err != nil {
		return 0, err
	}
	return chem.PH(c), nil
}

// Subscribe registers fn to run after every input change. The returned
// function removes it.
func (s *Solution) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Solution) notify() {
	c, err := s.Concentrations()
	if err != nil {
		return
	}
	s.mu.RLock()
	fns := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(c)
	}
}

// GetParams returns the adjustable inputs keyed by name.
func (s *Solution) GetParams() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	params := map[string]float64{}
	if s.kind != chem.Water {
		params["concentration"] = s.concentration
	}
	if s.kind.IsWeak() {
		params["strength"] = s.strength
	}
	return params
}

// SetParam sets an input by name.
func (s *Solution) SetParam(name string, value float64) error {
	switch name {
	case "concentration":
		_, err := s.SetConcentration(value)
		return err
	case "strength":
		_, err := s.SetStrength(value)
		return err
	}
	return fmt.Errorf("unknown parameter: %s", name)
}
