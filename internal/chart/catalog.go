package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/climagraph/climagraph/internal/sensor"
	"github.com/climagraph/climagraph/internal/timeseries"
)

var (
	ErrUnknownType      = errors.New("unknown chart type")
	ErrInvalidDateRange = errors.New("start date is after end date")
	ErrNoSensors        = errors.New("no sensors selected")
)

// SensorNotReadyError reports a selected sensor whose column mapping lacks a
// role this chart type needs.
type SensorNotReadyError struct {
	Name    string
	Missing sensor.Role
}

func (e *SensorNotReadyError) Error() string {
	return fmt.Sprintf("sensor %q has no %s column mapped", e.Name, e.Missing)
}

// NoDataInRangeError reports a sensor whose file yields no usable rows inside
// the requested date range. Chart generation is all or nothing: one empty
// sensor fails the whole request rather than silently drawing fewer series.
type NoDataInRangeError struct {
	Name string
}

func (e *NoDataInRangeError) Error() string {
	return fmt.Sprintf("sensor %q has no data in the selected range", e.Name)
}

// SensorSeries is one sensor's normalized, range-filtered, aligned series
// together with its display name and stable palette index.
type SensorSeries struct {
	Name   string
	Index  int
	Series timeseries.Series
}

// Input is everything a chart builder needs to render.
type Input struct {
	Sensors       []SensorSeries
	RiskThreshold float64
	Width, Height int
}

// Image is one rendered PNG.
type Image struct {
	Name string
	PNG  []byte
}

// Result is a finished chart: one image for overlay types, one image per
// sensor for the distribution types.
type Result struct {
	Images []Image
	Title  string
}

// Descriptor describes one chart type. Requires names the optional roles a
// sensor's mapping must carry beyond date and temperature; PerSensor marks
// types that emit a separate image per sensor.
type Descriptor struct {
	ID          string
	Name        string
	Description string
	Requires    []sensor.Role
	PerSensor   bool
	build       func(in Input) (*Result, error)
}

// Render produces the chart's images from prepared inputs. Per-sensor types
// run their builder once per sensor and collect one image each; overlay types
// draw every sensor into a single image.
func (d Descriptor) Render(in Input) (*Result, error) {
	if len(in.Sensors) == 0 {
		return nil, ErrNoSensors
	}
	if !d.PerSensor {
		return d.build(in)
	}
	res := &Result{Title: d.Name}
	for _, ss := range in.Sensors {
		one := in
		one.Sensors = []SensorSeries{ss}
		r, err := d.build(one)
		if err != nil {
			return nil, err
		}
		res.Images = append(res.Images, r.Images...)
	}
	return res, nil
}

var catalog = []Descriptor{
	{
		ID:          "temperature_time",
		Name:        "Temperature over time",
		Description: "Daily mean temperature of the selected sensors",
		build:       buildTemperatureTime,
	},
	{
		ID:          "humidity_time",
		Name:        "Humidity over time",
		Description: "Daily mean relative humidity of the selected sensors",
		Requires:    []sensor.Role{sensor.RoleHumidity},
		build:       buildHumidityTime,
	},
	{
		ID:          "temperature_amplitude",
		Name:        "Daily temperature amplitude",
		Description: "Per-day spread between minimum and maximum temperature",
		build:       buildTemperatureAmplitude,
	},
	{
		ID:          "humidity_amplitude",
		Name:        "Daily humidity amplitude",
		Description: "Per-day spread between minimum and maximum humidity",
		Requires:    []sensor.Role{sensor.RoleHumidity},
		build:       buildHumidityAmplitude,
	},
	{
		ID:          "humidity_distribution",
		Name:        "Humidity class distribution",
		Description: "Count of days per mean relative humidity band",
		Requires:    []sensor.Role{sensor.RoleHumidity},
		PerSensor:   true,
		build:       buildHumidityDistribution,
	},
	{
		ID:          "humidity_amplitude_distribution",
		Name:        "Humidity amplitude distribution",
		Description: "Share of days per daily humidity amplitude band",
		Requires:    []sensor.Role{sensor.RoleHumidity},
		PerSensor:   true,
		build:       buildHumidityAmplitudeDistribution,
	},
	{
		ID:          "dew_point_risk",
		Name:        "Dew point condensation risk",
		Description: "Daily mean margin between temperature and dew point, with risk days flagged",
		Requires:    []sensor.Role{sensor.RoleDewPoint},
		build:       buildDewPointRisk,
	},
}

// Catalog lists every chart type in presentation order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup resolves a chart type id.
func Lookup(id string) (Descriptor, error) {
	for _, d := range catalog {
		if d.ID == id {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownType, id)
}

// imageName derives a filesystem-friendly image name from a chart id and an
// optional sensor name. Full sanitation happens at export.
func imageName(chartID, sensorName string) string {
	if sensorName == "" {
		return chartID
	}
	s := strings.ToLower(strings.TrimSpace(sensorName))
	s = strings.Join(strings.Fields(s), "_")
	return chartID + "_" + s
}
