// Package timeseries turns a raw table plus a role mapping into a clean,
// typed, time-sorted series, and aligns several such series onto a common
// time grid for overlay charts.
package timeseries

import (
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order. The list covers ISO forms, the European
// day-first forms French logger software emits, and the 12-hour form HOBO
// exports use.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"01/02/06 03:04:05 PM",
	"01/02/06 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

// Excel stores timestamps as days since 1899-12-30; xlsx cells therefore come
// back as serial numbers unless the export forced text. The accepted range
// spans roughly 1955..2073, wide enough for any plausible logging campaign
// and narrow enough not to swallow ordinary readings.
const (
	excelSerialMin = 20000
	excelSerialMax = 65000
)

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseTimestamp coerces a cell value to a timestamp. It reports false for
// anything it cannot parse; the caller decides what a failed coercion means.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil &&
		serial >= excelSerialMin && serial <= excelSerialMax {
		d := time.Duration(serial * 24 * float64(time.Hour))
		return excelEpoch.Add(d).Round(time.Second), true
	}
	return time.Time{}, false
}

// ParseNumber coerces a cell value to a float. It tolerates the messiness of
// real exports: comma decimals, a percent sign, non-breaking spaces and a
// trailing unit such as "°C".
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Cut a trailing unit such as "°C". The suffix must be digit-free:
	// "21,5 °C" is a number with a unit, "12/05/2024" is not a number.
	if i := numericPrefixLen(s); i < len(s) {
		if strings.ContainsAny(s[i:], "0123456789") {
			return 0, false
		}
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return 0, false
	}

	// Decide the decimal separator the way a French export forces us to:
	// whichever of ',' and '.' appears last is the decimal; the other is a
	// thousands separator.
	cpos := strings.LastIndexByte(s, ',')
	dpos := strings.LastIndexByte(s, '.')
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case cpos >= 0 && dpos >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case cpos >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}
	s = strings.ReplaceAll(s, " ", "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numericPrefixLen returns the length of the leading run of characters that
// can belong to a number in either locale.
func numericPrefixLen(s string) int {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
		case c == '+' || c == '-' || c == '.' || c == ',' || c == ' ':
		case c == 'e' || c == 'E':
			// Scientific notation only counts when digits follow.
			if i+1 >= len(s) || !isDigitOrSign(s[i+1]) {
				return i
			}
		default:
			return i
		}
	}
	return len(s)
}

func isDigitOrSign(c byte) bool {
	return (c >= '0' && c <= '9') || c == '+' || c == '-'
}
