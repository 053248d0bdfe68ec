package chart

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/climagraph/climagraph/internal/timeseries"
)

// DayStat summarizes one calendar day of readings for a single quantity.
type DayStat struct {
	Day       time.Time
	Mean      float64
	Min       float64
	Max       float64
	Amplitude float64
	Count     int
}

// RiskDay is one day's dew-point condensation assessment. A day is flagged
// when its mean margin between air temperature and dew point drops below the
// configured threshold.
type RiskDay struct {
	Day         time.Time
	MeanDeficit float64
	AtRisk      bool
}

type quantity int

const (
	quantityTemperature quantity = iota
	quantityHumidity
)

// dailyStats folds a series into per-day statistics of the chosen quantity.
// Days are calendar days in the timestamps' own location. Points without the
// quantity (humidity can be absent on some rows) are skipped; days with no
// usable points produce no entry. The result is sorted by day.
func dailyStats(s timeseries.Series, q quantity) []DayStat {
	byDay := make(map[time.Time][]float64)
	for _, p := range s {
		v, ok := value(p, q)
		if !ok {
			continue
		}
		day := p.Time.Truncate(24 * time.Hour)
		byDay[day] = append(byDay[day], v)
	}

	out := make([]DayStat, 0, len(byDay))
	for day, vals := range byDay {
		lo, hi := vals[0], vals[0]
		for _, v := range vals[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		out = append(out, DayStat{
			Day:       day,
			Mean:      stat.Mean(vals, nil),
			Min:       lo,
			Max:       hi,
			Amplitude: hi - lo,
			Count:     len(vals),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

func value(p timeseries.Point, q quantity) (float64, bool) {
	switch q {
	case quantityHumidity:
		if p.Humidity == nil {
			return 0, false
		}
		return *p.Humidity, true
	default:
		return p.Temperature, true
	}
}

// humidityClassLabels are the relative-humidity bands used by the
// distribution chart, from driest to wettest.
var humidityClassLabels = []string{"<40", "40-50", "50-60", "60-70", "70-80", "80-90", ">=90"}

// humidityClassCounts buckets each day's mean humidity into the conservation
// bands. One count slot per label in humidityClassLabels.
func humidityClassCounts(days []DayStat) []int {
	counts := make([]int, len(humidityClassLabels))
	for _, d := range days {
		counts[humidityClass(d.Mean)]++
	}
	return counts
}

func humidityClass(h float64) int {
	switch {
	case h < 40:
		return 0
	case h >= 90:
		return 6
	default:
		return int(h-40)/10 + 1
	}
}

// amplitudeHistogramBins is the number of one-unit amplitude bands; the last
// band absorbs every amplitude at or above its lower edge.
const amplitudeHistogramBins = 25

// amplitudeHistogram distributes the per-day amplitudes into one-unit bins
// and returns each bin's share of the total day count, so differently long
// recording periods stay comparable. Returns nil when there are no days.
func amplitudeHistogram(days []DayStat) []float64 {
	if len(days) == 0 {
		return nil
	}
	bins := make([]float64, amplitudeHistogramBins)
	for _, d := range days {
		i := int(math.Floor(d.Amplitude))
		if i < 0 {
			i = 0
		}
		if i >= amplitudeHistogramBins {
			i = amplitudeHistogramBins - 1
		}
		bins[i]++
	}
	total := float64(len(days))
	for i := range bins {
		bins[i] /= total
	}
	return bins
}

// dewPointRisk assesses condensation risk day by day. The deficit is the
// margin between air temperature and dew point; when the day's mean deficit
// falls below threshold, surfaces near air temperature can reach saturation
// and the day is flagged.
func dewPointRisk(s timeseries.Series, threshold float64) []RiskDay {
	byDay := make(map[time.Time][]float64)
	for _, p := range s {
		if p.DewPoint == nil {
			continue
		}
		day := p.Time.Truncate(24 * time.Hour)
		byDay[day] = append(byDay[day], p.Temperature-*p.DewPoint)
	}

	out := make([]RiskDay, 0, len(byDay))
	for day, deficits := range byDay {
		mean := stat.Mean(deficits, nil)
		out = append(out, RiskDay{Day: day, MeanDeficit: mean, AtRisk: mean < threshold})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}
