package api

import (
	"fmt"
	"strings"

	"github.com/climagraph/climagraph/internal/detect"
	"github.com/climagraph/climagraph/internal/loader"
	"github.com/climagraph/climagraph/internal/sensor"
)

// AttachPayload reports the outcome of associating a file with a sensor.
type AttachPayload struct {
	Sensor       SensorInfo           `json:"sensor"`
	Columns      []string             `json:"columns"`
	Detected     sensor.ColumnMapping `json:"detected"`
	NeedsMapping bool                 `json:"needs_mapping"`
}

// AttachFile associates a data file with a sensor, reads its header and
// auto-detects column roles. When detection leaves the mandatory roles
// unassigned the caller is told a manual mapping is still needed.
func (a *API) AttachFile(id, path string) Result {
	return a.run("attach file", func() Result {
		s, err := a.reg.Get(id)
		if err != nil {
			return fail("no sensor with id %q", id)
		}
		t, err := loader.Load(path, a.loadOptions())
		if err != nil {
			return fail("reading %s: %v", path, err)
		}
		m := detect.Detect(t)
		s.FilePath = path
		s.Mapping = &m
		a.reg.Touch(s.ID)

		payload := AttachPayload{
			Sensor:       infoOf(s),
			Columns:      t.Columns,
			Detected:     m,
			NeedsMapping: !m.Complete(),
		}
		msg := fmt.Sprintf("File attached to %q", s.Name)
		if payload.NeedsMapping {
			msg += "; date and temperature columns still need mapping"
		}
		res := ok(msg, payload)
		return a.saved(res, a.record("attach_file", s.ID, s.Name, path))
	})
}

// ColumnsPayload lists a sensor file's columns and the current mapping.
type ColumnsPayload struct {
	Columns []string              `json:"columns"`
	Mapping *sensor.ColumnMapping `json:"mapping,omitempty"`
}

// ListColumns re-reads the sensor's file and returns its column names.
func (a *API) ListColumns(id string) Result {
	return a.run("list columns", func() Result {
		s, err := a.reg.Get(id)
		if err != nil {
			return fail("no sensor with id %q", id)
		}
		if s.FilePath == "" {
			return fail("sensor %q has no file attached", s.Name)
		}
		t, err := loader.Load(s.FilePath, a.loadOptions())
		if err != nil {
			return fail("reading %s: %v", s.FilePath, err)
		}
		return ok(fmt.Sprintf("%d column(s)", len(t.Columns)), ColumnsPayload{Columns: t.Columns, Mapping: s.Mapping})
	})
}

// PreviewPayload carries the leading data rows of a sensor file.
type PreviewPayload struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// PreviewRows returns the first data rows of the sensor's file so the caller
// can sanity-check a mapping before saving it.
func (a *API) PreviewRows(id string) Result {
	return a.run("preview rows", func() Result {
		s, err := a.reg.Get(id)
		if err != nil {
			return fail("no sensor with id %q", id)
		}
		if s.FilePath == "" {
			return fail("sensor %q has no file attached", s.Name)
		}
		t, err := loader.Load(s.FilePath, a.loadOptions())
		if err != nil {
			return fail("reading %s: %v", s.FilePath, err)
		}
		n := a.cfg.PreviewRows
		if n <= 0 {
			n = 6
		}
		return ok(fmt.Sprintf("first %d row(s)", min(n, len(t.Rows))), PreviewPayload{Columns: t.Columns, Rows: t.Head(n)})
	})
}

// SaveMapping stores a manual column mapping on a sensor. When the file is
// still readable the assigned columns are checked against its header; an
// unreadable file does not block saving.
func (a *API) SaveMapping(id string, m sensor.ColumnMapping) Result {
	return a.run("save mapping", func() Result {
		s, err := a.reg.Get(id)
		if err != nil {
			return fail("no sensor with id %q", id)
		}
		if !m.Complete() {
			return fail("mapping must assign both date and temperature columns")
		}
		if s.FilePath != "" {
			if t, err := loader.Load(s.FilePath, a.loadOptions()); err == nil {
				if missing := missingColumns(t, m); len(missing) > 0 {
					return fail("columns not found in %s: %s", s.FilePath, strings.Join(missing, ", "))
				}
			} else {
				a.log.Warn("mapping saved without validation", "sensor", s.Name, "err", err)
			}
		}
		s.Mapping = &m
		a.reg.Touch(s.ID)
		res := ok(fmt.Sprintf("Mapping saved for %q", s.Name), infoOf(s))
		return a.saved(res, a.record("save_mapping", s.ID, s.Name, mappingDetails(m)))
	})
}

func missingColumns(t *loader.RawTable, m sensor.ColumnMapping) []string {
	var missing []string
	for _, r := range m.Assigned() {
		if t.ColumnIndex(m.Column(r)) < 0 {
			missing = append(missing, m.Column(r))
		}
	}
	return missing
}

func mappingDetails(m sensor.ColumnMapping) string {
	parts := make([]string, 0, 4)
	for _, r := range m.Assigned() {
		parts = append(parts, fmt.Sprintf("%s=%s", r, m.Column(r)))
	}
	return strings.Join(parts, ", ")
}
