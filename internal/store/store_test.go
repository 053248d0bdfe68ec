package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/climagraph/climagraph/internal/sensor"
)

func TestSensorsRoundTrip(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Fresh install: no file, empty set.
	got, err := st.LoadSensors()
	if err != nil {
		t.Fatalf("LoadSensors on empty dir: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh load = %v", got)
	}

	in := []*sensor.Sensor{
		{
			ID:        "id-1",
			Name:      "Salle 1",
			FilePath:  "/data/salle1.csv",
			Mapping:   &sensor.ColumnMapping{Date: "Date", Temperature: "Temp"},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
		},
		{ID: "id-2", Name: "Extérieur"},
	}
	if err := st.SaveSensors(in); err != nil {
		t.Fatalf("SaveSensors: %v", err)
	}
	got, err = st.LoadSensors()
	if err != nil {
		t.Fatalf("LoadSensors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d sensors, want 2", len(got))
	}
	byID := map[string]*sensor.Sensor{got[0].ID: got[0], got[1].ID: got[1]}
	s1 := byID["id-1"]
	if s1 == nil || s1.Name != "Salle 1" || s1.Mapping == nil || s1.Mapping.Date != "Date" {
		t.Fatalf("sensor round trip lost data: %+v", s1)
	}

	// No stray temp file once the write landed.
	if _, err := os.Stat(filepath.Join(st.Dir(), "sensors.json.tmp")); !os.IsNotExist(err) {
		t.Fatal("temp file left behind")
	}
}

func TestHistoryRoundTripAndCSV(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	entries := []HistoryEntry{
		NewEntry("add_sensor", "id-1", "Salle 1", ""),
		NewEntry("attach_file", "id-1", "Salle 1", "/data/salle1.csv"),
		NewEntry("generate_chart", "", "", "temperature_time (1 sensors)"),
	}
	if entries[0].ID == entries[1].ID {
		t.Fatal("entries must have distinct ids")
	}
	if err := st.SaveHistory(entries); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	got, err := st.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(got) != 3 || got[1].Details != "/data/salle1.csv" {
		t.Fatalf("history round trip: %+v", got)
	}

	csvPath := filepath.Join(st.Dir(), "history.csv")
	if err := ExportHistoryCSV(got, csvPath); err != nil {
		t.Fatalf("ExportHistoryCSV: %v", err)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("export rows = %d, want header plus 3", len(records))
	}
	if strings.Join(records[0], ",") != "Timestamp,Action,Sensor,Details" {
		t.Fatalf("header = %v", records[0])
	}
	if records[2][1] != "attach_file" || records[2][2] != "Salle 1" {
		t.Fatalf("row = %v", records[2])
	}
}

func TestLoadHistoryMissingFile(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := st.LoadHistory()
	if err != nil || len(got) != 0 {
		t.Fatalf("fresh history = %v, %v", got, err)
	}
}
