package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/acidbase/internal/chem"
)

func TestSearchStrongAcid(t *testing.T) {
	g, err := ForKind(chem.StrongAcid, 4)
	if err != nil {
		t.Fatal(err)
	}

	// grid is 1e-3, 1e-2, 1e-1, 1
	m, err := g.Search(context.Background(), chem.StrongAcid, 2.1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if math.Abs(m.Concentration-1e-2)/1e-2 > 1e-9 {
		t.Errorf("concentration = %g, want 0.01", m.Concentration)
	}
	if math.Abs(m.PH-2) > 1e-6 {
		t.Errorf("pH = %g, want 2", m.PH)
	}
	if m.Strength != chem.StrongStrength {
		t.Errorf("strength = %g, want %g", m.Strength, chem.StrongStrength)
	}
	if _, ok := m.Params["strength"]; ok {
		t.Error("strong acid search should not vary strength")
	}
}

func TestSearchWeakAcid(t *testing.T) {
	g, err := ForKind(chem.WeakAcid, 13)
	if err != nil {
		t.Fatal(err)
	}

	m, err := g.Search(context.Background(), chem.WeakAcid, 4)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if m.Error > 0.5 {
		t.Errorf("closest pH %g too far from 4", m.PH)
	}
	if len(m.Params) != 2 {
		t.Errorf("params = %v, want concentration and strength", m.Params)
	}
	if !chem.WeakStrengthRange.Contains(m.Strength) {
		t.Errorf("strength %g outside range", m.Strength)
	}
}

func TestSearchBaseTarget(t *testing.T) {
	g, err := ForKind(chem.StrongBase, 4)
	if err != nil {
		t.Fatal(err)
	}
	m, err := g.Search(context.Background(), chem.StrongBase, 14)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.Concentration-1) > 1e-9 {
		t.Errorf("concentration = %g, want 1", m.Concentration)
	}
}

func TestForKindErrors(t *testing.T) {
	if _, err := ForKind(chem.Water, 5); !errors.Is(err, chem.ErrInvalidConcentration) {
		t.Errorf("water: err = %v", err)
	}
	if _, err := ForKind(chem.WeakBase, 1); err == nil {
		t.Error("expected error for 1 point")
	}
}

func TestSearchNoMatch(t *testing.T) {
	g := NewGridSearch([]string{"concentration"}, [][]float64{{-1, 0}})
	if _, err := g.Search(context.Background(), chem.StrongAcid, 7); !errors.Is(err, ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
}

func TestSearchCancelled(t *testing.T) {
	g, _ := ForKind(chem.WeakBase, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Search(ctx, chem.WeakBase, 9); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
