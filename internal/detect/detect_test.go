package detect

import (
	"testing"

	"github.com/climagraph/climagraph/internal/loader"
)

func TestDetectFrenchLoggerHeader(t *testing.T) {
	tbl := &loader.RawTable{
		Columns: []string{"Horodatage", "T (°C)", "HR %"},
		Rows: [][]string{
			{"01/02/2024 00:10", "21,5", "45,2"},
			{"01/02/2024 00:20", "21,6", "45,0"},
		},
	}
	m := Detect(tbl)
	if m.Date != "Horodatage" {
		t.Errorf("date = %q, want Horodatage", m.Date)
	}
	if m.Temperature != "T (°C)" {
		t.Errorf("temperature = %q, want T (°C)", m.Temperature)
	}
	if m.Humidity != "HR %" {
		t.Errorf("humidity = %q, want HR %%", m.Humidity)
	}
	if m.DewPoint != "" {
		t.Errorf("dew point = %q, want unassigned", m.DewPoint)
	}
}

func TestDetectEnglishWithDewPoint(t *testing.T) {
	tbl := &loader.RawTable{
		Columns: []string{"Date Time", "Temperature", "Relative Humidity", "Dew Point"},
	}
	m := Detect(tbl)
	if m.Date != "Date Time" || m.Temperature != "Temperature" ||
		m.Humidity != "Relative Humidity" || m.DewPoint != "Dew Point" {
		t.Fatalf("mapping = %+v", m)
	}
}

func TestDetectAccentInsensitive(t *testing.T) {
	tbl := &loader.RawTable{
		Columns: []string{"Date", "Température (°C)", "Humidité relative", "Point de rosée"},
	}
	m := Detect(tbl)
	if m.Temperature != "Température (°C)" {
		t.Errorf("temperature = %q", m.Temperature)
	}
	if m.Humidity != "Humidité relative" {
		t.Errorf("humidity = %q", m.Humidity)
	}
	if m.DewPoint != "Point de rosée" {
		t.Errorf("dew point = %q", m.DewPoint)
	}
}

func TestDetectDateByContent(t *testing.T) {
	tbl := &loader.RawTable{
		Columns: []string{"Col A", "Temp"},
		Rows: [][]string{
			{"2024-02-01 00:00", "20.1"},
			{"2024-02-01 01:00", "20.3"},
			{"2024-02-01 02:00", "20.2"},
		},
	}
	m := Detect(tbl)
	if m.Date != "Col A" {
		t.Errorf("date = %q, want content-detected Col A", m.Date)
	}
	if m.Temperature != "Temp" {
		t.Errorf("temperature = %q", m.Temperature)
	}
}

func TestDetectNumericByContent(t *testing.T) {
	// No header keyword matches at all; ranges decide.
	tbl := &loader.RawTable{
		Columns: []string{"Channel 1", "Channel 2", "Channel 3"},
		Rows: [][]string{
			{"2024-02-01 00:00", "-2.5", "62.0"},
			{"2024-02-01 01:00", "-1.8", "64.5"},
			{"2024-02-01 02:00", "0.4", "63.2"},
		},
	}
	m := Detect(tbl)
	if m.Date != "Channel 1" {
		t.Fatalf("date = %q", m.Date)
	}
	if m.Temperature != "Channel 2" {
		t.Errorf("temperature = %q, want Channel 2 (negative values)", m.Temperature)
	}
	if m.Humidity != "Channel 3" {
		t.Errorf("humidity = %q, want Channel 3 (0..100 range)", m.Humidity)
	}
}

func TestDetectNilAndEmpty(t *testing.T) {
	if m := Detect(nil); m.Assigned() != nil {
		t.Fatalf("nil table mapping = %+v", m)
	}
	if m := Detect(&loader.RawTable{}); m.Assigned() != nil {
		t.Fatalf("empty table mapping = %+v", m)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Température (°C)", "temperature c"},
		{"HR %", "hr"},
		{"  Date/Heure  ", "date heure"},
		{"RH, %", "rh"},
	}
	for _, tt := range tests {
		if got := normalizeName(tt.in); got != tt.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShortKeywordNeedsWholeWord(t *testing.T) {
	// "t" (from "t°") must not claim arbitrary columns containing the letter.
	tbl := &loader.RawTable{
		Columns: []string{"Date", "Setting", "T"},
	}
	m := Detect(tbl)
	if m.Temperature != "T" {
		t.Errorf("temperature = %q, want the bare T column", m.Temperature)
	}
}
