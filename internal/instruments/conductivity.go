package instruments

import (
	"math"

	"github.com/san-kum/acidbase/internal/chem"
)

const (
	neutralBrightness = 0.05
	neutralLow        = 6.0
	neutralHigh       = 8.0
	acidFull          = 1.0 // pH at which an acid lights the bulb fully
	baseFull          = 13.0
)

// Conductivity models the light bulb of the conductivity tester.
type Conductivity struct {
	brightness float64
}

func NewConductivity() *Conductivity { return &Conductivity{} }

func (c *Conductivity) Name() string { return "brightness" }

func (c *Conductivity) Observe(conc chem.Concentrations) {
	c.brightness = Brightness(chem.PH(conc))
}

func (c *Conductivity) Value() float64 { return c.brightness }

func (c *Conductivity) Reset() { c.brightness = 0 }

// Brightness maps pH to bulb brightness in [0, 1]. Inside the neutral band
// the bulb glows faintly; it brightens linearly toward either extreme.
func Brightness(ph float64) float64 {
	switch {
	case math.IsNaN(ph):
		return 0
	case ph < neutralLow:
		return clamp01(linear(acidFull, neutralLow, 1, neutralBrightness, ph))
	case ph > neutralHigh:
		return clamp01(linear(neutralHigh, baseFull, neutralBrightness, 1, ph))
	}
	return neutralBrightness
}

func linear(x1, x2, y1, y2, x float64) float64 {
	return y1 + (x-x1)*(y2-y1)/(x2-x1)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
