package instruments

import (
	"math"
	"testing"

	"github.com/san-kum/acidbase/internal/chem"
)

func mustCompute(t *testing.T, kind chem.Kind, total float64) chem.Concentrations {
	t.Helper()
	strength := chem.DefaultStrength(kind)
	if kind == chem.Water {
		total = 0
	}
	c, err := chem.Compute(kind, total, strength)
	if err != nil {
		t.Fatalf("compute %s: %v", kind, err)
	}
	return c
}

func TestPHMeter(t *testing.T) {
	m := NewPHMeter()
	if m.Display() != "-.--" {
		t.Errorf("unobserved display = %q", m.Display())
	}
	if !math.IsNaN(m.Value()) {
		t.Errorf("unobserved value = %g, want NaN", m.Value())
	}

	m.Observe(mustCompute(t, chem.StrongAcid, 0.01))
	if math.Abs(m.Value()-2) > 1e-9 {
		t.Errorf("pH = %g, want 2", m.Value())
	}
	if m.Display() != "2.00" {
		t.Errorf("display = %q, want 2.00", m.Display())
	}

	m.Reset()
	if m.Display() != "-.--" {
		t.Errorf("display after reset = %q", m.Display())
	}
}

func TestBrightness(t *testing.T) {
	tests := []struct {
		ph       float64
		expected float64
	}{
		{-1, 1},
		{1, 1},
		{3.5, 0.525},
		{6, 0.05},
		{7, 0.05},
		{8, 0.05},
		{10.5, 0.525},
		{13, 1},
		{14, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Brightness(tt.ph); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Brightness(%g) = %g, want %g", tt.ph, got, tt.expected)
		}
	}
}

func TestConductivityOrdersSolutions(t *testing.T) {
	read := func(kind chem.Kind) float64 {
		c := NewConductivity()
		c.Observe(mustCompute(t, kind, 0.1))
		return c.Value()
	}

	water := read(chem.Water)
	weak := read(chem.WeakAcid)
	strong := read(chem.StrongAcid)

	if water != neutralBrightness {
		t.Errorf("water brightness = %g", water)
	}
	if !(strong > weak && weak >= water) {
		t.Errorf("expected strong > weak >= water, got %g %g %g", strong, weak, water)
	}
}

func TestParticleCount(t *testing.T) {
	tests := []struct {
		concentration float64
		expected      int
	}{
		{0, 0},
		{1e-9, 0},
		{BaseConcentration, BaseDots},
		{1, MaxParticles},
		{10, MaxParticles},
	}
	for _, tt := range tests {
		if got := ParticleCount(tt.concentration); got != tt.expected {
			t.Errorf("ParticleCount(%g) = %d, want %d", tt.concentration, got, tt.expected)
		}
	}

	prev := 0
	for c := 1e-7; c <= 1; c *= 3 {
		n := ParticleCount(c)
		if n < prev {
			t.Errorf("ParticleCount not monotonic at %g: %d < %d", c, n, prev)
		}
		prev = n
	}
}

func TestMagnifierSkipsWater(t *testing.T) {
	m := NewMagnifier()
	m.Observe(mustCompute(t, chem.StrongBase, 1))

	counts := m.Counts()
	if _, ok := counts[chem.H2O]; ok {
		t.Error("water must not be counted")
	}
	if counts[chem.M] != MaxParticles || counts[chem.OH] != MaxParticles {
		t.Errorf("counts = %v", counts)
	}
	if counts[chem.MOH] != 0 {
		t.Errorf("MOH count = %d, want 0", counts[chem.MOH])
	}
	if m.Value() != float64(2*MaxParticles) {
		t.Errorf("total = %g", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("total after reset = %g", m.Value())
	}
}

func TestPHPaper(t *testing.T) {
	p := NewPHPaper()
	if p.Color() != unexposed {
		t.Errorf("unexposed color = %s", p.Color())
	}

	p.Observe(mustCompute(t, chem.Water, 0))
	if p.Color() != indicatorColors[7] {
		t.Errorf("neutral color = %s, want %s", p.Color(), indicatorColors[7])
	}

	p.Observe(mustCompute(t, chem.StrongBase, 1))
	if math.Abs(p.Value()-14) > 1e-9 {
		t.Errorf("paper pH = %g, want 14", p.Value())
	}
	if p.Color() != indicatorColors[14] {
		t.Errorf("basic color = %s", p.Color())
	}
}

func TestIndicatorColorClamps(t *testing.T) {
	if IndicatorColor(-3).Hex() != indicatorColors[0] {
		t.Errorf("below range = %s", IndicatorColor(-3).Hex())
	}
	if IndicatorColor(20).Hex() != indicatorColors[14] {
		t.Errorf("above range = %s", IndicatorColor(20).Hex())
	}
	if got := IndicatorColor(math.NaN()).Hex(); got != indicatorColors[7] {
		t.Errorf("NaN = %s, want neutral %s", got, indicatorColors[7])
	}
	mid := IndicatorColor(3.5).Hex()
	if mid == indicatorColors[3] || mid == indicatorColors[4] {
		t.Errorf("expected blended color between swatches, got %s", mid)
	}
}

func TestGraph(t *testing.T) {
	bars := Graph(mustCompute(t, chem.WeakAcid, 0.01))
	if len(bars) != 5 {
		t.Fatalf("expected 5 bars, got %d", len(bars))
	}
	for _, b := range bars {
		if b.Height < 0 || b.Height > 1 {
			t.Errorf("%s height %g out of [0,1]", b.Species, b.Height)
		}
		if b.Species == chem.H2O && !b.OffScale {
			t.Error("water bar should be off scale")
		}
	}

	if h := BarHeight(1e-8); h != 0 {
		t.Errorf("BarHeight(1e-8) = %g", h)
	}
	if h := BarHeight(1e-3); math.Abs(h-0.5) > 1e-12 {
		t.Errorf("BarHeight(1e-3) = %g, want 0.5", h)
	}
	if h := BarHeight(-1); h != 0 {
		t.Errorf("BarHeight(-1) = %g", h)
	}
}

func TestReadAll(t *testing.T) {
	values := ReadAll(Default(), mustCompute(t, chem.StrongAcid, 0.1))
	for _, name := range []string{"ph", "paper", "brightness", "particles"} {
		if _, ok := values[name]; !ok {
			t.Errorf("missing %s in %v", name, values)
		}
	}
	if math.Abs(values["ph"]-1) > 1e-9 {
		t.Errorf("ph = %g", values["ph"])
	}
}
