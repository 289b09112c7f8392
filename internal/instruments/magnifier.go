package instruments

import (
	"math"

	"github.com/san-kum/acidbase/internal/chem"
)

const (
	// BaseConcentration is the smallest concentration that still gets particles.
	BaseConcentration = 1e-7
	BaseDots          = 2
	MaxParticles      = 200
)

// raiseBase is chosen so that 1 mol/L maps to MaxParticles.
var raiseBase = math.Pow(MaxParticles/BaseDots, 1/math.Log10(1/BaseConcentration))

// Magnifier counts the particles drawn for each species. Water is the
// background and is never counted.
type Magnifier struct {
	counts map[chem.Species]int
}

func NewMagnifier() *Magnifier {
	return &Magnifier{counts: make(map[chem.Species]int)}
}

func (m *Magnifier) Name() string { return "particles" }

func (m *Magnifier) Observe(c chem.Concentrations) {
	for _, s := range c.Species() {
		if s == chem.H2O {
			continue
		}
		m.counts[s] = ParticleCount(c.Value(s))
	}
}

// Value returns the total number of particles drawn.
func (m *Magnifier) Value() float64 {
	total := 0
	for _, n := range m.counts {
		total += n
	}
	return float64(total)
}

func (m *Magnifier) Reset() {
	m.counts = make(map[chem.Species]int)
}

// Counts returns a copy of the per-species particle counts.
func (m *Magnifier) Counts() map[chem.Species]int {
	out := make(map[chem.Species]int, len(m.counts))
	for s, n := range m.counts {
		out[s] = n
	}
	return out
}

// ParticleCount maps a concentration to a particle count on a log scale.
func ParticleCount(concentration float64) int {
	if !(concentration >= BaseConcentration) {
		return 0
	}
	n := math.Round(BaseDots * math.Pow(raiseBase, math.Log10(concentration/BaseConcentration)))
	return int(math.Min(n, MaxParticles))
}
