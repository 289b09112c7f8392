package journal

import (
	"context"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/san-kum/acidbase/internal/chem"
	"github.com/san-kum/acidbase/internal/solution"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "readings.db"), nil)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTake(t *testing.T) {
	s, _ := solution.New(chem.StrongAcid)
	s.SetConcentration(0.1)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r, err := Take(s, at)
	if err != nil {
		t.Fatal(err)
	}
	if r.Solution != "strong_acid" || r.Concentration != 0.1 {
		t.Errorf("reading %+v", r)
	}
	if math.Abs(r.PH-1) > 1e-9 {
		t.Errorf("pH = %g, want 1", r.PH)
	}
	if math.Abs(r.Brightness-1) > 1e-9 {
		t.Errorf("brightness = %g, want 1", r.Brightness)
	}
	if !r.TakenAt.Equal(at) {
		t.Errorf("taken at %v", r.TakenAt)
	}
}

func TestRecordRecent(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, kind := range []chem.Kind{chem.Water, chem.WeakAcid, chem.StrongBase} {
		s, _ := solution.New(kind)
		r, err := Take(s, base.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatal(err)
		}
		id, err := db.Record(ctx, r)
		if err != nil {
			t.Fatalf("record failed: %v", err)
		}
		if id != int64(i+1) {
			t.Errorf("id = %d, want %d", id, i+1)
		}
	}

	recent, err := db.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(recent))
	}
	if recent[0].Solution != "strong_base" || recent[1].Solution != "weak_acid" {
		t.Errorf("unexpected order: %s, %s", recent[0].Solution, recent[1].Solution)
	}
	if !recent[0].TakenAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("taken at %v", recent[0].TakenAt)
	}
	if recent[0].PH <= 7 {
		t.Errorf("strong base pH = %g", recent[0].PH)
	}
}

func TestReopenKeepsReadings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.db")
	ctx := context.Background()

	db, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := solution.New(chem.WeakBase)
	r, _ := Take(s, time.Now())
	if _, err := db.Record(ctx, r); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	recent, err := db.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Errorf("expected 1 reading after reopen, got %d", len(recent))
	}
}

func TestTakeConsistentUnderConcurrentChanges(t *testing.T) {
	s, _ := solution.New(chem.StrongAcid)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		values := []float64{0.001, 0.1}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			s.SetConcentration(values[i%2])
		}
	}()

	for i := 0; i < 500; i++ {
		r, err := Take(s, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		want := -math.Log10(r.Concentration)
		if math.Abs(r.PH-want) > 1e-9 {
			close(stop)
			wg.Wait()
			t.Fatalf("reading %d: pH %g does not match concentration %g", i, r.PH, r.Concentration)
		}
	}
	close(stop)
	wg.Wait()
}
