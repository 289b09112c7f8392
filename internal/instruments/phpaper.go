package instruments

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/acidbase/internal/chem"
)

// indicatorColors are the universal indicator swatches for pH 0 through 14.
var indicatorColors = [15]string{
	"#e0211d", "#e5461d", "#ee6f22", "#f39a27", "#f8c42f",
	"#fbe937", "#d4e23b", "#92c748", "#4db24c", "#1b9a5d",
	"#138a8c", "#1d6fb2", "#3a4fa2", "#4b3790", "#5b2382",
}

// unexposed is the colour of paper that has not touched a solution.
const unexposed = "#f0e6c8"

type PHPaper struct {
	ph       float64
	observed bool
}

func NewPHPaper() *PHPaper { return &PHPaper{} }

func (p *PHPaper) Name() string { return "paper" }

func (p *PHPaper) Observe(c chem.Concentrations) {
	p.ph = chem.PH(c)
	p.observed = true
}

// Value returns the pH the paper indicates, clamped to the indicator scale.
func (p *PHPaper) Value() float64 {
	if !p.observed {
		return math.NaN()
	}
	return math.Max(0, math.Min(float64(len(indicatorColors)-1), p.ph))
}

func (p *PHPaper) Reset() { p.observed = false }

// Color returns the paper colour as a hex string.
func (p *PHPaper) Color() string {
	if !p.observed {
		return unexposed
	}
	return IndicatorColor(p.ph).Hex()
}

// neutralSwatch is shown when the pH is unknown.
const neutralSwatch = 7

// IndicatorColor blends the two swatches around ph in Lab space. NaN shows
// the neutral swatch.
func IndicatorColor(ph float64) colorful.Color {
	if math.IsNaN(ph) {
		return swatch(neutralSwatch)
	}
	ph = math.Max(0, math.Min(float64(len(indicatorColors)-1), ph))
	lo := int(math.Floor(ph))
	hi := lo + 1
	if hi >= len(indicatorColors) || ph == float64(lo) {
		return swatch(lo)
	}
	return swatch(lo).BlendLab(swatch(hi), ph-float64(lo)).Clamped()
}

func swatch(i int) colorful.Color {
	c, err := colorful.Hex(indicatorColors[i])
	if err != nil {
		panic(err)
	}
	return c
}
