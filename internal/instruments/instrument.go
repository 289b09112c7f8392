package instruments

import "github.com/san-kum/acidbase/internal/chem"

// Instrument reads one value from a concentration set.
type Instrument interface {
	Name() string
	Observe(c chem.Concentrations)
	Value() float64
	Reset()
}

// Default returns one of each instrument.
func Default() []Instrument {
	return []Instrument{
		NewPHMeter(),
		NewPHPaper(),
		NewConductivity(),
		NewMagnifier(),
	}
}

// ReadAll observes c with every instrument and returns their values by name.
func ReadAll(ins []Instrument, c chem.Concentrations) map[string]float64 {
	out := make(map[string]float64, len(ins))
	for _, in := range ins {
		in.Reset()
		in.Observe(c)
		out[in.Name()] = in.Value()
	}
	return out
}
