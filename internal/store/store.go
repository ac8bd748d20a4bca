package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ferrosim/internal/engine"
)

// Store persists run summaries under a base directory, one subdirectory per
// run: metadata.json plus a series.csv of per-frame aggregates. Particle
// level state is deliberately not persisted.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Magnets   int                `json:"magnets"`
	Metrics   map[string]float64 `json:"metrics"`
}

var seriesHeader = []string{"time", "live", "pooled", "kinetic", "mean_height", "settled"}

// Save writes one run. The returned ID names the run directory.
func (s *Store) Save(preset string, dt, duration float64, magnets int, metricVals map[string]float64, series []engine.Stats) (string, error) {
	runID := fmt.Sprintf("%s_%d", preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  duration,
		Magnets:   magnets,
		Metrics:   metricVals,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(seriesHeader); err != nil {
		return "", err
	}
	for _, st := range series {
		row := []string{
			strconv.FormatFloat(st.Time, 'f', 6, 64),
			strconv.Itoa(st.Live),
			strconv.Itoa(st.Pooled),
			strconv.FormatFloat(st.Kinetic, 'f', 6, 64),
			strconv.FormatFloat(st.MeanHeight, 'f', 6, 64),
			strconv.Itoa(st.Settled),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns metadata for every stored run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.loadMeta(entry.Name())
		if err != nil {
			continue // skip unreadable runs rather than failing the listing
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) loadMeta(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

// LoadSeries reads a run's per-frame aggregates back.
func (s *Store) LoadSeries(runID string) ([]engine.Stats, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("store: run %s has an empty series", runID)
	}

	series := make([]engine.Stats, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(seriesHeader) {
			return nil, fmt.Errorf("store: run %s has a malformed series row", runID)
		}
		var st engine.Stats
		if st.Time, err = strconv.ParseFloat(row[0], 64); err != nil {
			return nil, err
		}
		if st.Live, err = strconv.Atoi(row[1]); err != nil {
			return nil, err
		}
		if st.Pooled, err = strconv.Atoi(row[2]); err != nil {
			return nil, err
		}
		if st.Kinetic, err = strconv.ParseFloat(row[3], 64); err != nil {
			return nil, err
		}
		if st.MeanHeight, err = strconv.ParseFloat(row[4], 64); err != nil {
			return nil, err
		}
		if st.Settled, err = strconv.Atoi(row[5]); err != nil {
			return nil, err
		}
		series = append(series, st)
	}
	return series, nil
}

// Export writes a run's metadata and series as one JSON document.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.loadMeta(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		RunMetadata
		Series []engine.Stats `json:"series"`
	}{meta, series})
}
