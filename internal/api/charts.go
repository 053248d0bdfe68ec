package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/climagraph/climagraph/internal/chart"
	"github.com/climagraph/climagraph/internal/loader"
	"github.com/climagraph/climagraph/internal/sensor"
	"github.com/climagraph/climagraph/internal/timeseries"
)

// ChartSensor describes a sensor eligible for chart generation.
type ChartSensor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HasHumidity bool   `json:"has_humidity"`
	HasDewPoint bool   `json:"has_dew_point"`
}

// SensorsForCharts lists the sensors whose file and mapping are complete
// enough to chart, with flags for the optional quantities they carry.
func (a *API) SensorsForCharts() Result {
	return a.run("sensors for charts", func() Result {
		var out []ChartSensor
		for _, s := range a.reg.List() {
			if !s.Ready() {
				continue
			}
			out = append(out, ChartSensor{
				ID:          s.ID,
				Name:        s.Name,
				HasHumidity: s.Mapping.HasHumidity(),
				HasDewPoint: s.Mapping.HasDewPoint(),
			})
		}
		return ok(fmt.Sprintf("%d sensor(s) ready", len(out)), out)
	})
}

// ChartTypeInfo is one catalog entry for display.
type ChartTypeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Requires    string `json:"requires,omitempty"`
}

// ChartTypes lists the available chart types.
func (a *API) ChartTypes() Result {
	return a.run("chart types", func() Result {
		var out []ChartTypeInfo
		for _, d := range chart.Catalog() {
			info := ChartTypeInfo{ID: d.ID, Name: d.Name, Description: d.Description}
			parts := make([]string, len(d.Requires))
			for i, r := range d.Requires {
				parts[i] = string(r)
			}
			info.Requires = strings.Join(parts, ", ")
			out = append(out, info)
		}
		return ok(fmt.Sprintf("%d chart type(s)", len(out)), out)
	})
}

// GenerateChart renders a chart type for the selected sensors and optional
// date range, returning the PNG images in the payload. Generation is all or
// nothing: any sensor that cannot contribute fails the whole request.
func (a *API) GenerateChart(typeID string, sensorIDs []string, from, to *time.Time) Result {
	return a.run("generate chart", func() Result {
		res, errRes := a.generate(typeID, sensorIDs, from, to)
		if errRes != nil {
			return *errRes
		}
		msg := fmt.Sprintf("%s: %d image(s)", res.Title, len(res.Images))
		out := ok(msg, res)
		return a.saved(out, a.record("generate_chart", "", "", fmt.Sprintf("%s (%d sensors)", typeID, len(sensorIDs))))
	})
}

// ExportCharts renders a chart and writes its images as PNG files into dir
// (the configured export directory when dir is empty). The payload lists the
// written paths.
func (a *API) ExportCharts(typeID string, sensorIDs []string, from, to *time.Time, dir string) Result {
	return a.run("export charts", func() Result {
		res, errRes := a.generate(typeID, sensorIDs, from, to)
		if errRes != nil {
			return *errRes
		}
		if dir == "" {
			dir = a.cfg.ExportDir
		}
		paths, err := writeImages(dir, res.Images)
		if err != nil {
			return fail("writing images: %v", err)
		}
		msg := fmt.Sprintf("%d image(s) written to %s", len(paths), dir)
		out := ok(msg, paths)
		return a.saved(out, a.record("export_chart", "", "", fmt.Sprintf("%s -> %s", typeID, dir)))
	})
}

// generate runs the shared validate/load/normalize/align/render pipeline.
// The second return value is a ready failure Result, nil on success.
func (a *API) generate(typeID string, sensorIDs []string, from, to *time.Time) (*chart.Result, *Result) {
	d, err := chart.Lookup(typeID)
	if err != nil {
		r := fail("%v", err)
		return nil, &r
	}
	if len(sensorIDs) == 0 {
		r := fail("select at least one sensor")
		return nil, &r
	}
	if from != nil && to != nil && from.After(*to) {
		r := fail("%v", chart.ErrInvalidDateRange)
		return nil, &r
	}

	// Palette indices follow the full registry order so a sensor keeps its
	// color no matter which subset is charted.
	paletteIndex := make(map[string]int)
	for i, s := range a.reg.List() {
		paletteIndex[s.ID] = i
	}

	selected := make([]*sensor.Sensor, 0, len(sensorIDs))
	series := make(map[string]timeseries.Series, len(sensorIDs))
	for _, id := range sensorIDs {
		s, err := a.reg.Get(id)
		if err != nil {
			r := fail("no sensor with id %q", id)
			return nil, &r
		}
		if !s.Ready() {
			r := fail("sensor %q has no usable file and mapping", s.Name)
			return nil, &r
		}
		for _, role := range d.Requires {
			if s.Mapping.Column(role) == "" {
				r := fail("%v", &chart.SensorNotReadyError{Name: s.Name, Missing: role})
				return nil, &r
			}
		}
		t, err := loader.Load(s.FilePath, a.loadOptions())
		if err != nil {
			r := fail("reading %s: %v", s.FilePath, err)
			return nil, &r
		}
		ser, err := timeseries.Normalize(t, *s.Mapping)
		if err != nil {
			r := fail("normalizing %q: %v", s.Name, err)
			return nil, &r
		}
		ser = ser.Between(from, to)
		if len(ser) == 0 {
			r := fail("%v", &chart.NoDataInRangeError{Name: s.Name})
			return nil, &r
		}
		selected = append(selected, s)
		series[s.ID] = ser
	}

	series = timeseries.Align(series)

	in := chart.Input{
		RiskThreshold: a.cfg.RiskThreshold,
		Width:         a.cfg.ChartWidth,
		Height:        a.cfg.ChartHeight,
	}
	for _, s := range selected {
		in.Sensors = append(in.Sensors, chart.SensorSeries{
			Name:   s.Name,
			Index:  paletteIndex[s.ID],
			Series: series[s.ID],
		})
	}

	res, err := d.Render(in)
	if err != nil {
		r := fail("%v", err)
		return nil, &r
	}
	return res, nil
}
