package timeseries

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/climagraph/climagraph/internal/loader"
	"github.com/climagraph/climagraph/internal/sensor"
)

var (
	// ErrIncompleteMapping indicates the mapping lacks one of the two
	// mandatory roles.
	ErrIncompleteMapping = errors.New("column mapping must assign both date and temperature")
	// ErrNoValidRows indicates every row was dropped during cleaning.
	ErrNoValidRows = errors.New("no valid rows after cleaning")
)

// MissingColumnError indicates a mapped column no longer exists in the file,
// typically because the file was replaced after the mapping was saved.
type MissingColumnError struct {
	Role   sensor.Role
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("mapped %s column %q not found in file", e.Role, e.Column)
}

// Point is one reading of a normalized series. Temperature is always
// present; Humidity and DewPoint are nil when the source column was not
// mapped or the cell did not coerce.
type Point struct {
	Time        time.Time
	Temperature float64
	Humidity    *float64
	DewPoint    *float64
}

// Series is a normalized sensor series: strictly ascending in time, no
// duplicate timestamps, every point carrying a valid temperature.
type Series []Point

// HasHumidity reports whether any point carries a humidity value.
func (s Series) HasHumidity() bool {
	for _, p := range s {
		if p.Humidity != nil {
			return true
		}
	}
	return false
}

// HasDewPoint reports whether any point carries a dew point value.
func (s Series) HasDewPoint() bool {
	for _, p := range s {
		if p.DewPoint != nil {
			return true
		}
	}
	return false
}

// Between returns the sub-series within the inclusive [from, to] window.
// A nil bound leaves that side open.
func (s Series) Between(from, to *time.Time) Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if from != nil && p.Time.Before(*from) {
			continue
		}
		if to != nil && p.Time.After(*to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Normalize applies a role mapping to a raw table and produces a clean typed
// series: mapped columns are projected and renamed to their canonical roles,
// cells are coerced (unparseable becomes null), fractional humidity is
// rescaled to percent, rows without a valid date and temperature are dropped,
// and the result is time-sorted with duplicate timestamps resolved by keeping
// the first occurrence in original row order.
func Normalize(t *loader.RawTable, m sensor.ColumnMapping) (Series, error) {
	if !m.Complete() {
		return nil, ErrIncompleteMapping
	}

	idx := make(map[sensor.Role]int, 4)
	for _, role := range m.Assigned() {
		col := m.Column(role)
		i := t.ColumnIndex(col)
		if i < 0 {
			return nil, &MissingColumnError{Role: role, Column: col}
		}
		idx[role] = i
	}

	cell := func(row []string, role sensor.Role) (string, bool) {
		i, ok := idx[role]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	series := make(Series, 0, len(t.Rows))
	for _, row := range t.Rows {
		dateCell, _ := cell(row, sensor.RoleDate)
		ts, ok := ParseTimestamp(dateCell)
		if !ok {
			continue
		}
		tempCell, _ := cell(row, sensor.RoleTemperature)
		temp, ok := ParseNumber(tempCell)
		if !ok {
			continue
		}
		p := Point{Time: ts, Temperature: temp}
		if v, ok := cell(row, sensor.RoleHumidity); ok {
			if h, ok := ParseNumber(v); ok {
				p.Humidity = &h
			}
		}
		if v, ok := cell(row, sensor.RoleDewPoint); ok {
			if d, ok := ParseNumber(v); ok {
				p.DewPoint = &d
			}
		}
		series = append(series, p)
	}

	rescaleHumidity(series)

	// Stable sort keeps original row order among equal timestamps, so the
	// keep-first duplicate policy is deterministic.
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	series = dedupeKeepFirst(series)

	if len(series) == 0 {
		return nil, ErrNoValidRows
	}
	return series, nil
}

// rescaleHumidity converts fractional humidity (max observed value at most
// 1.0) to percent, then nulls out values that still fall outside 0..100 so
// the percentage invariant holds for every retained value.
func rescaleHumidity(series Series) {
	maxH := 0.0
	found := false
	for _, p := range series {
		if p.Humidity != nil {
			if !found || *p.Humidity > maxH {
				maxH = *p.Humidity
			}
			found = true
		}
	}
	if !found {
		return
	}
	for i := range series {
		h := series[i].Humidity
		if h == nil {
			continue
		}
		if maxH <= 1.0 {
			*h *= 100
		}
		if *h < 0 || *h > 100 {
			series[i].Humidity = nil
		}
	}
}

func dedupeKeepFirst(series Series) Series {
	out := series[:0]
	for _, p := range series {
		if len(out) > 0 && out[len(out)-1].Time.Equal(p.Time) {
			continue
		}
		out = append(out, p)
	}
	return out
}
