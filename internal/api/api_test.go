package api

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/climagraph/climagraph/internal/config"
	"github.com/climagraph/climagraph/internal/sensor"
	"github.com/climagraph/climagraph/internal/store"
)

func testConfig(t *testing.T) *config.Global {
	t.Helper()
	base := t.TempDir()
	return &config.Global{
		DataDir:          filepath.Join(base, "data"),
		ExportDir:        filepath.Join(base, "exports"),
		HeaderProbeLimit: 15,
		PreviewRows:      6,
		RiskThreshold:    3.0,
		ChartWidth:       400,
		ChartHeight:      300,
	}
}

func writeExport(t *testing.T, rows int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("Logger export\n")
	sb.WriteString("Horodatage;T (°C);HR %\n")
	// Values cycle within the day and drift day over day, locale comma decimals.
	french := func(v float64) string {
		return strings.Replace(strconv.FormatFloat(v, 'f', 1, 64), ".", ",", 1)
	}
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		temp := 20.0 + []float64{0.5, 1.0, 2.5, 0.0}[i%4] + float64(i/24)
		hum := 40.0 + []float64{5.0, 6.5, 8.0, 7.0}[i%4] + 2*float64(i/24)
		sb.WriteString(ts.Format("02/01/2006 15:04"))
		sb.WriteString(";")
		sb.WriteString(french(temp))
		sb.WriteString(";")
		sb.WriteString(french(hum))
		sb.WriteString("\n")
	}
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func addReadySensor(t *testing.T, a *API, name string) string {
	t.Helper()
	res := a.AddSensor(name)
	if !res.Success {
		t.Fatalf("AddSensor: %s", res.Message)
	}
	id := res.Payload.(SensorInfo).ID
	res = a.AttachFile(id, writeExport(t, 72))
	if !res.Success {
		t.Fatalf("AttachFile: %s", res.Message)
	}
	return id
}

func TestSensorLifecycle(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := a.AddSensor("Salle 1")
	if !res.Success {
		t.Fatalf("AddSensor: %s", res.Message)
	}
	id := res.Payload.(SensorInfo).ID

	if res := a.AddSensor("Salle 1"); res.Success {
		t.Fatal("duplicate name must fail")
	}

	if res := a.RenameSensor(id, "Réserve"); !res.Success {
		t.Fatalf("RenameSensor: %s", res.Message)
	}

	// State survives a restart.
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	res = b.ListSensors()
	infos := res.Payload.([]SensorInfo)
	if len(infos) != 1 || infos[0].Name != "Réserve" {
		t.Fatalf("persisted sensors = %+v", infos)
	}

	if res := b.DeleteSensor(id); !res.Success {
		t.Fatalf("DeleteSensor: %s", res.Message)
	}
	if res := b.DeleteSensor(id); res.Success {
		t.Fatal("deleting twice must fail")
	}

	// Every mutation left an audit entry.
	res = b.History()
	entries := res.Payload.([]store.HistoryEntry)
	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	want := map[string]bool{"add_sensor": false, "rename_sensor": false, "delete_sensor": false}
	for _, act := range actions {
		if _, ok := want[act]; ok {
			want[act] = true
		}
	}
	for act, seen := range want {
		if !seen {
			t.Errorf("history missing %s in %v", act, actions)
		}
	}
}

func TestAttachDetectsFrenchColumns(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := a.AddSensor("Salle 1")
	id := res.Payload.(SensorInfo).ID

	res = a.AttachFile(id, writeExport(t, 5))
	if !res.Success {
		t.Fatalf("AttachFile: %s", res.Message)
	}
	p := res.Payload.(AttachPayload)
	if p.NeedsMapping {
		t.Fatalf("detection should be complete: %+v", p.Detected)
	}
	if p.Detected.Date != "Horodatage" || p.Detected.Temperature != "T (°C)" || p.Detected.Humidity != "HR %" {
		t.Fatalf("detected = %+v", p.Detected)
	}

	res = a.ListColumns(id)
	if !res.Success {
		t.Fatalf("ListColumns: %s", res.Message)
	}
	cols := res.Payload.(ColumnsPayload)
	if len(cols.Columns) != 3 {
		t.Fatalf("columns = %v", cols.Columns)
	}

	res = a.PreviewRows(id)
	if !res.Success {
		t.Fatalf("PreviewRows: %s", res.Message)
	}
	prev := res.Payload.(PreviewPayload)
	if len(prev.Rows) != 5 {
		t.Fatalf("preview rows = %d, want all 5", len(prev.Rows))
	}
}

func TestSaveMappingValidatesColumns(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := a.AddSensor("Salle 1")
	id := res.Payload.(SensorInfo).ID
	a.AttachFile(id, writeExport(t, 5))

	bad := sensor.ColumnMapping{Date: "Horodatage", Temperature: "Nope"}
	if res := a.SaveMapping(id, bad); res.Success {
		t.Fatal("mapping onto a missing column must fail")
	}
	if res := a.SaveMapping(id, sensor.ColumnMapping{Date: "Horodatage"}); res.Success {
		t.Fatal("incomplete mapping must fail")
	}
	good := sensor.ColumnMapping{Date: "Horodatage", Temperature: "T (°C)", Humidity: "HR %"}
	if res := a.SaveMapping(id, good); !res.Success {
		t.Fatalf("SaveMapping: %s", res.Message)
	}
}

func TestGenerateAndExportCharts(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id1 := addReadySensor(t, a, "Salle 1")
	id2 := addReadySensor(t, a, "Extérieur")

	res := a.SensorsForCharts()
	ready := res.Payload.([]ChartSensor)
	if len(ready) != 2 || !ready[0].HasHumidity {
		t.Fatalf("ready sensors = %+v", ready)
	}

	res = a.ChartTypes()
	if types := res.Payload.([]ChartTypeInfo); len(types) != 7 {
		t.Fatalf("chart types = %d, want 7", len(types))
	}

	res = a.GenerateChart("temperature_time", []string{id1, id2}, nil, nil)
	if !res.Success {
		t.Fatalf("GenerateChart: %s", res.Message)
	}

	res = a.ExportCharts("humidity_distribution", []string{id1, id2}, nil, nil, "")
	if !res.Success {
		t.Fatalf("ExportCharts: %s", res.Message)
	}
	paths := res.Payload.([]string)
	if len(paths) != 2 {
		t.Fatalf("exported %d files, want one per sensor", len(paths))
	}
	for _, p := range paths {
		if !strings.HasPrefix(p, cfg.ExportDir) {
			t.Fatalf("export landed outside the export dir: %s", p)
		}
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("exported file missing: %v", err)
		}
	}
}

func TestGenerateChartValidation(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id := addReadySensor(t, a, "Salle 1")

	if res := a.GenerateChart("bogus", []string{id}, nil, nil); res.Success {
		t.Fatal("unknown chart type must fail")
	}
	if res := a.GenerateChart("temperature_time", nil, nil, nil); res.Success {
		t.Fatal("empty sensor selection must fail")
	}

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if res := a.GenerateChart("temperature_time", []string{id}, &from, &to); res.Success {
		t.Fatal("inverted date range must fail")
	}

	// Range with no data.
	far := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	farEnd := far.AddDate(0, 1, 0)
	res := a.GenerateChart("temperature_time", []string{id}, &far, &farEnd)
	if res.Success || !strings.Contains(res.Message, "no data") {
		t.Fatalf("empty range: %+v", res)
	}

	// A sensor without a file cannot chart.
	res = a.AddSensor("Vide")
	bare := res.Payload.(SensorInfo).ID
	if res := a.GenerateChart("temperature_time", []string{bare}, nil, nil); res.Success {
		t.Fatal("sensor without file must fail")
	}

	// Dew point chart needs a dew point column.
	res = a.GenerateChart("dew_point_risk", []string{id}, nil, nil)
	if res.Success || !strings.Contains(res.Message, "dew_point") {
		t.Fatalf("missing dew point column: %+v", res)
	}
}

func TestExportHistoryCSV(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.AddSensor("Salle 1")
	path := filepath.Join(t.TempDir(), "history.csv")
	if res := a.ExportHistory(path); !res.Success {
		t.Fatalf("ExportHistory: %s", res.Message)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "add_sensor") {
		t.Fatalf("export content:\n%s", data)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"temperature_time", "temperature_time"},
		{"humidity_distribution_salle 1", "humidity_distribution_salle_1"},
		{"a/b\\c", "a_b_c"},
		{"", "chart"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
