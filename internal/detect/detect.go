// Package detect assigns semantic roles (timestamp, temperature, humidity,
// dew point) to the columns of a freshly loaded table. Detection is
// best-effort: a role with no credible candidate stays unassigned and the
// caller falls back to manual mapping, which beats guessing wrong.
package detect

import (
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/climagraph/climagraph/internal/loader"
	"github.com/climagraph/climagraph/internal/sensor"
	"github.com/climagraph/climagraph/internal/timeseries"
)

// Keyword lists per role, in priority order. The exports this tool sees are
// mostly French logger files, so the lists carry both languages. All entries
// are compared in normalized form (see normalizeName).
var (
	dateKeywords = []string{
		"date", "time", "timestamp", "datetime", "horodatage",
		"heure", "temps", "date heure", "date et heure",
	}
	temperatureKeywords = []string{
		"temp", "temperature", "température", "t°", "t °c",
		"temp °c", "température °c", "temperature °c", "°c", "degré",
	}
	humidityKeywords = []string{
		"humid", "humidité", "humidity", "hr", "rh",
		"humidité relative", "relative humidity", "h%",
	}
	dewPointKeywords = []string{
		"dew point", "dewpoint", "dew", "point de rosée", "rosée", "td", "dp",
	}
)

const (
	contentSampleSize = 20
	// contentMatchRatio is the fraction of sampled values that must coerce
	// for the content-based fallback to claim a column.
	contentMatchRatio = 0.5
)

// Detect inspects a table's column names and contents and returns the role
// mapping it is confident about. Missing roles are left empty, never guessed.
// Detect does not fail; an internal problem yields an empty mapping.
func Detect(t *loader.RawTable) sensor.ColumnMapping {
	if t == nil || len(t.Columns) == 0 {
		return sensor.ColumnMapping{}
	}

	normalized := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		normalized[i] = normalizeName(c)
	}

	m := sensor.ColumnMapping{
		Date:        matchKeywords(t.Columns, normalized, dateKeywords),
		Temperature: matchKeywords(t.Columns, normalized, temperatureKeywords),
		Humidity:    matchKeywords(t.Columns, normalized, humidityKeywords),
		DewPoint:    matchKeywords(t.Columns, normalized, dewPointKeywords),
	}

	if m.Date == "" {
		m.Date = dateByContent(t, m)
	}
	if m.Date != "" && m.Temperature == "" && m.Humidity == "" {
		detectNumericByContent(t, &m)
	}

	slog.Debug("column roles detected",
		"date", m.Date, "temperature", m.Temperature,
		"humidity", m.Humidity, "dew_point", m.DewPoint)
	return m
}

// matchKeywords finds the column for one role: exact match on a normalized
// name first, then substring match in column order, first hit wins.
func matchKeywords(columns, normalized, keywords []string) string {
	nkws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if nkw := normalizeName(kw); nkw != "" {
			nkws = append(nkws, nkw)
		}
	}
	for _, nkw := range nkws {
		for i, name := range normalized {
			if name == nkw {
				return columns[i]
			}
		}
	}
	for i, name := range normalized {
		for _, nkw := range nkws {
			if nameContains(name, nkw) {
				return columns[i]
			}
		}
	}
	return ""
}

// nameContains reports whether a normalized column name contains a normalized
// keyword. Keywords shortened to one or two characters by normalization
// ("t°" becomes "t", "hr") must match a whole word, or they would claim
// nearly every column.
func nameContains(name, kw string) bool {
	if len(kw) >= 3 {
		return strings.Contains(name, kw)
	}
	for _, w := range strings.Fields(name) {
		if w == kw {
			return true
		}
	}
	return false
}

// dateByContent picks the first unclaimed column where timestamp coercion
// succeeds on more than half of the sampled non-empty values.
func dateByContent(t *loader.RawTable, m sensor.ColumnMapping) string {
	for _, col := range t.Columns {
		if col == m.Temperature || col == m.Humidity || col == m.DewPoint {
			continue
		}
		sampled, matched := sampleColumn(t, col, func(v string) bool {
			_, ok := timeseries.ParseTimestamp(v)
			return ok
		})
		if sampled > 0 && float64(matched) > contentMatchRatio*float64(sampled) {
			return col
		}
	}
	return ""
}

// detectNumericByContent is the last-resort tier when no keyword matched at
// all: columns whose sampled values are numeric are claimed by plausible
// range, humidity 0..100 and temperature -50..50.
func detectNumericByContent(t *loader.RawTable, m *sensor.ColumnMapping) {
	for _, col := range t.Columns {
		if col == m.Date || col == m.Temperature || col == m.Humidity {
			continue
		}
		var lo, hi float64
		first := true
		sampled, matched := sampleColumn(t, col, func(v string) bool {
			x, ok := timeseries.ParseNumber(v)
			if !ok {
				return false
			}
			if first || x < lo {
				lo = x
			}
			if first || x > hi {
				hi = x
			}
			first = false
			return true
		})
		if sampled == 0 || float64(matched) <= contentMatchRatio*float64(sampled) {
			continue
		}
		switch {
		case m.Humidity == "" && lo >= 0 && hi <= 100 && hi > 1:
			m.Humidity = col
		case m.Temperature == "" && lo >= -50 && hi <= 50:
			m.Temperature = col
		}
	}
}

// sampleColumn runs pred over up to contentSampleSize non-empty values of a
// column and reports how many were sampled and how many matched.
func sampleColumn(t *loader.RawTable, col string, pred func(string) bool) (sampled, matched int) {
	for _, v := range t.Column(col) {
		if strings.TrimSpace(v) == "" {
			continue
		}
		sampled++
		if pred(v) {
			matched++
		}
		if sampled >= contentSampleSize {
			break
		}
	}
	return sampled, matched
}

var nameNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName lowercases a column name, strips accents and collapses every
// non-alphanumeric run to a single space, so "Température (°C)" and
// "temperature c" compare equal.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(nameNormalizer, name); err == nil {
		name = folded
	}
	var sb strings.Builder
	lastSpace := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			sb.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(sb.String())
}
