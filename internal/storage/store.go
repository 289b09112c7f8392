package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/acidbase/internal/sweep"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

type Store struct {
	baseDir string
	log     *slog.Logger
	now     func() time.Time
}

func New(baseDir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{baseDir: baseDir, log: log, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Solution  string    `json:"solution"`
	Param     string    `json:"param"`
	From      float64   `json:"from"`
	To        float64   `json:"to"`
	Fixed     float64   `json:"fixed"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp"`
	PHMin     float64   `json:"ph_min"`
	PHMax     float64   `json:"ph_max"`
}

// Series is a sweep read back from disk.
type Series struct {
	Param   string               `json:"param"`
	Values  []float64            `json:"values"`
	PH      []float64            `json:"ph"`
	Species []string             `json:"species"`
	Columns map[string][]float64 `json:"columns"`
}

func (s *Store) Save(result *sweep.Result) (string, error) {
	now := s.now()
	cfg := result.Config
	runID := fmt.Sprintf("%s_%s_%d", cfg.Kind, cfg.Param, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Solution:  cfg.Kind.String(),
		Param:     string(cfg.Param),
		From:      cfg.From,
		To:        cfg.To,
		Fixed:     cfg.Fixed,
		Points:    len(result.Values),
		Timestamp: now,
	}
	if len(result.PH) > 0 {
		meta.PHMin, meta.PHMax = result.PH[0], result.PH[0]
		for _, ph := range result.PH {
			meta.PHMin = min(meta.PHMin, ph)
			meta.PHMax = max(meta.PHMax, ph)
		}
	}

	// Metadata goes last so List never reports a run without its series.
	if err := writeSeries(filepath.Join(runDir, seriesFile), result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	s.log.Debug("saved sweep", "id", runID, "points", meta.Points)
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSeries(path string, result *sweep.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{string(result.Config.Param), "ph"}
	var species []string
	if len(result.Series) > 0 {
		for _, sp := range result.Series[0].Species() {
			species = append(species, string(sp))
		}
	}
	header = append(header, species...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, c := range result.Series {
		row := []string{formatFloat(result.Values[i]), formatFloat(result.PH[i])}
		for _, sp := range c.Species() {
			row = append(row, formatFloat(c.Value(sp)))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// List returns every stored run, oldest first. Unreadable runs are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debug("skipping run", "dir", entry.Name(), "error", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, fmt.Errorf("run %s: empty series", runID)
	}

	header := records[0]
	series := &Series{
		Param:   header[0],
		Species: header[2:],
		Columns: make(map[string][]float64, len(header)-2),
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != len(header) {
			return nil, fmt.Errorf("run %s: row %d has %d fields, want %d", runID, i, len(record), len(header))
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, i, err)
			}
			vals[j] = v
		}
		series.Values = append(series.Values, vals[0])
		series.PH = append(series.PH, vals[1])
		for j, sp := range series.Species {
			series.Columns[sp] = append(series.Columns[sp], vals[j+2])
		}
	}

	return series, nil
}

type ExportData struct {
	RunMetadata
	Series *Series `json:"series"`
}

// ExportJSON writes a run's metadata and series to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Series: series})
}

// ExportCSV copies a run's series file to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	f, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
