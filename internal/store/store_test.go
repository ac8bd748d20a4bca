package store

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/ferrosim/internal/engine"
)

func testSeries() []engine.Stats {
	return []engine.Stats{
		{Time: 1.0 / 60, Live: 1, Kinetic: 0.5, MeanHeight: 4.9},
		{Time: 2.0 / 60, Live: 2, Pooled: 1, Kinetic: 0.75, MeanHeight: 4.5, Settled: 1},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	metricVals := map[string]float64{"mean_kinetic": 0.625}
	id, err := s.Save("tripod", 1.0/60, 10, 3, metricVals, testSeries())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(id, "tripod_") {
		t.Errorf("run id %q should carry the preset name", id)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs, want 1", len(runs))
	}
	if runs[0].Preset != "tripod" || runs[0].Magnets != 3 {
		t.Errorf("metadata mangled: %+v", runs[0])
	}
	if runs[0].Metrics["mean_kinetic"] != 0.625 {
		t.Errorf("metrics mangled: %v", runs[0].Metrics)
	}

	series, err := s.LoadSeries(id)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	want := testSeries()
	if len(series) != len(want) {
		t.Fatalf("series length %d, want %d", len(series), len(want))
	}
	for i := range want {
		if series[i].Live != want[i].Live || series[i].Settled != want[i].Settled {
			t.Errorf("row %d: %+v, want %+v", i, series[i], want[i])
		}
	}
}

func TestStore_ListEmptyDir(t *testing.T) {
	s := New(t.TempDir() + "/never-created")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("listed %d runs from nothing", len(runs))
	}
}

func TestStore_Export(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	id, err := s.Save("single", 1.0/60, 5, 1, nil, testSeries())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	var buf bytes.Buffer
	if err := s.Export(id, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var doc struct {
		ID     string         `json:"id"`
		Series []engine.Stats `json:"series"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.ID != id || len(doc.Series) != 2 {
		t.Errorf("export content wrong: id=%q series=%d", doc.ID, len(doc.Series))
	}
}

func TestStore_LoadSeriesMissingRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.LoadSeries("ghost_123"); err == nil {
		t.Error("expected error for missing run")
	}
}
