package instruments

import (
	"math"

	"github.com/san-kum/acidbase/internal/chem"
)

// Log axis of the concentration graph, in decades.
const (
	GraphMinExponent = -8
	GraphMaxExponent = 2
)

// Bar is one bar of the concentration graph.
type Bar struct {
	Species       chem.Species
	Concentration float64
	// Height is the bar height as a fraction of the axis.
	Height float64
	// OffScale marks the solvent, drawn as a full constant bar.
	OffScale bool
}

// Graph lays out one bar per species of c.
func Graph(c chem.Concentrations) []Bar {
	species := c.Species()
	bars := make([]Bar, 0, len(species))
	for _, s := range species {
		v := c.Value(s)
		bar := Bar{Species: s, Concentration: v, Height: BarHeight(v)}
		if s == chem.H2O {
			bar.Height, bar.OffScale = 1, true
		}
		bars = append(bars, bar)
	}
	return bars
}

// BarHeight maps a concentration onto the log axis, clamped to [0, 1].
func BarHeight(concentration float64) float64 {
	if concentration <= 0 || math.IsNaN(concentration) {
		return 0
	}
	h := (math.Log10(concentration) - GraphMinExponent) / (GraphMaxExponent - GraphMinExponent)
	return clamp01(h)
}
