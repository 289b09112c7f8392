package instruments

import (
	"fmt"
	"math"

	"github.com/san-kum/acidbase/internal/chem"
)

// PHRange is the scale shown by the meter and the paper.
var PHRange = chem.Range{Min: -1, Max: 15, Default: 7}

type PHMeter struct {
	ph       float64
	observed bool
}

func NewPHMeter() *PHMeter {
	return &PHMeter{ph: math.NaN()}
}

func (m *PHMeter) Name() string { return "ph" }

func (m *PHMeter) Observe(c chem.Concentrations) {
	m.ph = chem.PH(c)
	m.observed = true
}

// Value returns the last pH observed, or NaN before any observation.
func (m *PHMeter) Value() float64 { return m.ph }

func (m *PHMeter) Reset() {
	m.ph = math.NaN()
	m.observed = false
}

// Display formats the reading the way the meter face shows it.
func (m *PHMeter) Display() string {
	if !m.observed {
		return "-.--"
	}
	return fmt.Sprintf("%.2f", PHRange.Clamp(m.ph))
}
