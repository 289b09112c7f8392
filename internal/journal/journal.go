// Package journal keeps a SQLite log of instrument readings.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/acidbase/internal/chem"
	"github.com/san-kum/acidbase/internal/instruments"
	"github.com/san-kum/acidbase/internal/solution"
)

// Reading is one snapshot of a solution and what the instruments showed.
type Reading struct {
	ID            int64
	TakenAt       time.Time
	Solution      string
	Concentration float64
	Strength      float64
	PH            float64
	Brightness    float64
	H3O           float64
	OH            float64
}

type row struct {
	ID            int64   `db:"id"`
	TakenAt       int64   `db:"taken_at"`
	Solution      string  `db:"solution"`
	Concentration float64 `db:"concentration"`
	Strength      float64 `db:"strength"`
	PH            float64 `db:"ph"`
	Brightness    float64 `db:"brightness"`
	H3O           float64 `db:"h3o"`
	OH            float64 `db:"oh"`
}

// Take reads s with the pH meter and conductivity tester.
func Take(s *solution.Solution, at time.Time) (Reading, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return Reading{}, err
	}
	c := snap.Concentrations
	meter, bulb := instruments.NewPHMeter(), instruments.NewConductivity()
	meter.Observe(c)
	bulb.Observe(c)
	return Reading{
		TakenAt:       at,
		Solution:      snap.Kind.String(),
		Concentration: snap.Concentration,
		Strength:      snap.Strength,
		PH:            meter.Value(),
		Brightness:    bulb.Value(),
		H3O:           c.Value(chem.H3O),
		OH:            c.Value(chem.OH),
	}, nil
}

// DB wraps a SQLite connection holding the readings table.
type DB struct {
	conn *sqlx.DB
	log  *slog.Logger
}

// Open opens or creates the journal at path.
func Open(path string, log *slog.Logger) (*DB, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, log: log}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		taken_at INTEGER NOT NULL,
		solution TEXT NOT NULL,
		concentration REAL NOT NULL,
		strength REAL NOT NULL,
		ph REAL NOT NULL,
		brightness REAL NOT NULL,
		h3o REAL NOT NULL,
		oh REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_readings_taken ON readings(taken_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Record appends r and returns its id.
func (db *DB) Record(ctx context.Context, r Reading) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `INSERT INTO readings
		(taken_at, solution, concentration, strength, ph, brightness, h3o, oh)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TakenAt.UnixNano(), r.Solution, r.Concentration, r.Strength,
		r.PH, r.Brightness, r.H3O, r.OH,
	)
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	db.log.Debug("recorded reading", "id", id, "solution", r.Solution, "ph", r.PH)
	return id, nil
}

// Recent returns up to limit readings, newest first.
func (db *DB) Recent(ctx context.Context, limit int) ([]Reading, error) {
	var rows []row
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT id, taken_at, solution, concentration, strength, ph, brightness, h3o, oh
		 FROM readings ORDER BY taken_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select readings: %w", err)
	}

	readings := make([]Reading, len(rows))
	for i, r := range rows {
		readings[i] = Reading{
			ID:            r.ID,
			TakenAt:       time.Unix(0, r.TakenAt),
			Solution:      r.Solution,
			Concentration: r.Concentration,
			Strength:      r.Strength,
			PH:            r.PH,
			Brightness:    r.Brightness,
			H3O:           r.H3O,
			OH:            r.OH,
		}
	}
	return readings, nil
}
