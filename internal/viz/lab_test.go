package viz

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/acidbase/internal/chem"
	"github.com/san-kum/acidbase/internal/journal"
	"github.com/san-kum/acidbase/internal/solution"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestLab(t *testing.T, kind chem.Kind, rec Recorder) Lab {
	t.Helper()
	sol, err := solution.New(kind)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLab(sol, chem.NewSpeciesTable(), ThemeClassic, rec)
	t.Cleanup(l.Close)
	return l
}

// drain feeds the pending change notification back into the lab.
func drain(t *testing.T, l Lab) Lab {
	t.Helper()
	select {
	case c := <-l.changes:
		next, _ := l.Update(concMsg(c))
		return next.(Lab)
	default:
		t.Fatal("expected a change notification")
	}
	return l
}

func TestLabAdjustConcentration(t *testing.T) {
	l := newTestLab(t, chem.StrongAcid, nil)
	if len(l.params) != 1 || l.params[0] != "concentration" {
		t.Fatalf("params = %v", l.params)
	}

	next, _ := l.Update(key("L"))
	l = drain(t, next.(Lab))

	if got := l.sol.Concentration(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("concentration = %g, want 0.1", got)
	}
	if math.Abs(l.meter.Value()-1) > 1e-9 {
		t.Errorf("meter = %g, want 1", l.meter.Value())
	}
	if len(l.phHistory) != 2 {
		t.Errorf("history length = %d, want 2", len(l.phHistory))
	}
}

func TestLabSelectStrength(t *testing.T) {
	l := newTestLab(t, chem.WeakAcid, nil)
	if len(l.params) != 2 {
		t.Fatalf("params = %v", l.params)
	}

	next, _ := l.Update(key("j"))
	next, _ = next.(Lab).Update(key("H"))
	l = drain(t, next.(Lab))

	if got := l.sol.Strength(); math.Abs(got-1e-8)/1e-8 > 1e-9 {
		t.Errorf("strength = %g, want 1e-8", got)
	}
	if l.sol.Concentration() != chem.ConcentrationRange.Default {
		t.Errorf("concentration changed to %g", l.sol.Concentration())
	}
}

func TestLabWaterHasNoInputs(t *testing.T) {
	l := newTestLab(t, chem.Water, nil)
	next, _ := l.Update(key("l"))
	l = next.(Lab)
	if l.err != nil {
		t.Errorf("unexpected error: %v", l.err)
	}
	if !strings.Contains(l.View(), "no adjustable inputs") {
		t.Error("expected water notice in view")
	}
}

func TestLabView(t *testing.T) {
	l := newTestLab(t, chem.WeakBase, nil)
	view := l.View()
	for _, want := range []string{"WEAK BASE", "pH meter", "BH+", "OH-", "magnifier"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

type memRecorder struct {
	readings []journal.Reading
}

func (m *memRecorder) Record(_ context.Context, r journal.Reading) (int64, error) {
	m.readings = append(m.readings, r)
	return int64(len(m.readings)), nil
}

func TestLabRecord(t *testing.T) {
	rec := &memRecorder{}
	l := newTestLab(t, chem.StrongBase, rec)

	_, cmd := l.Update(key("r"))
	if cmd == nil {
		t.Fatal("expected record command")
	}
	msg := cmd()
	next, _ := l.Update(msg)
	l = next.(Lab)

	if len(rec.readings) != 1 || rec.readings[0].Solution != "strong_base" {
		t.Errorf("readings = %+v", rec.readings)
	}
	if !strings.Contains(l.status, "#1") {
		t.Errorf("status = %q", l.status)
	}
}

func TestLabRecordWithoutJournal(t *testing.T) {
	l := newTestLab(t, chem.StrongBase, nil)
	_, cmd := l.Update(key("r"))
	next, _ := l.Update(cmd())
	if !strings.Contains(next.(Lab).status, "no journal") {
		t.Errorf("status = %q", next.(Lab).status)
	}
}

func TestAppMenu(t *testing.T) {
	m := NewApp(solution.NewRegistry(), ThemeClassic, nil)
	if !strings.Contains(m.View(), "strong_acid") {
		t.Error("menu should list solutions")
	}

	m, _ = m.Update(key("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected lab init command")
	}
	a := m.(app)
	if a.state != stateLab || a.lab.sol.Kind() != chem.StrongAcid {
		t.Fatalf("state = %d, kind = %v", a.state, a.lab.sol.Kind())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(app).state != stateMenu {
		t.Error("esc should return to menu")
	}
}

func TestAppEscReleasesLabWait(t *testing.T) {
	m := NewApp(solution.NewRegistry(), ThemeClassic, nil)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected lab init command")
	}

	returned := make(chan tea.Msg, 1)
	go func() { returned <- cmd() }()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(app).state != stateMenu {
		t.Fatal("esc should return to menu")
	}

	select {
	case msg := <-returned:
		if msg != nil {
			t.Errorf("wait returned %T, want nil after close", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("lab wait still blocked after esc")
	}
}

func TestLabCloseTwice(t *testing.T) {
	l := newTestLab(t, chem.WeakAcid, nil)
	l.Close()
	l.Close()

	if msg := l.waitForChange()(); msg != nil {
		t.Errorf("wait after close returned %T, want nil", msg)
	}
	if _, err := l.sol.SetConcentration(0.5); err != nil {
		t.Fatal(err)
	}
	select {
	case <-l.changes:
		t.Error("closed lab should not receive changes")
	default:
	}
}
