package export

import (
	"strings"
	"testing"

	"github.com/san-kum/acidbase/internal/storage"
)

func TestCurveToSVG(t *testing.T) {
	svg := CurveToSVG([]Point{{0, 0}, {1, 1}, {2, 0}}, 200, 100, "#ff0000")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("missing stroke colour")
	}
	if !strings.Contains(svg, "M0.0,") || strings.Count(svg, " L") != 2 {
		t.Errorf("unexpected path: %s", svg)
	}
	if !strings.Contains(svg, " L200.0,") {
		t.Error("last point should reach the right edge")
	}
}

func TestCurveToSVGTooShort(t *testing.T) {
	if svg := CurveToSVG([]Point{{1, 1}}, 10, 10, "#fff"); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
}

func TestSeriesToSVG(t *testing.T) {
	s := &storage.Series{
		Param:   "concentration",
		Values:  []float64{1e-3, 1e-2, 1e-1},
		PH:      []float64{3, 2, 1},
		Species: []string{"H3O", "A"},
		Columns: map[string][]float64{
			"H3O": {1e-3, 1e-2, 1e-1},
			"A":   {1e-3, 1e-2, 1e-1},
		},
	}

	tests := []struct {
		name    string
		species string
		wantErr bool
	}{
		{"ph", "", false},
		{"species", "H3O", false},
		{"unknown", "BH", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg, err := SeriesToSVG(s, tt.species, 300, 150, "#00ff00")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Count(svg, " L") != 2 {
				t.Errorf("expected 3 vertices: %s", svg)
			}
		})
	}
}

func TestSeriesToSVGSkipsZeros(t *testing.T) {
	s := &storage.Series{
		Values:  []float64{1e-3, 1e-2},
		PH:      []float64{3, 2},
		Species: []string{"HA"},
		Columns: map[string][]float64{"HA": {0, 0}},
	}
	if _, err := SeriesToSVG(s, "HA", 100, 100, "#fff"); err == nil {
		t.Error("expected error when nothing is plottable")
	}
}
