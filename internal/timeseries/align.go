package timeseries

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Align resamples several sensors' series onto a shared time grid so overlay
// charts compare like with like. When every sensor already logs at the same
// interval (the common case) the input map is returned unchanged. Otherwise
// the grid spacing is the largest of the per-sensor median sampling
// intervals: the coarsest sensor is the limiting one, and downsampling the
// finer sensors avoids fabricating precision the coarse one never had. Each
// sensor's grid spans only its own observed range; values outside it are
// never extrapolated.
func Align(bySensor map[string]Series) map[string]Series {
	if len(bySensor) < 2 {
		return bySensor
	}

	intervals := make(map[string]time.Duration, len(bySensor))
	var target time.Duration
	distinct := make(map[time.Duration]struct{})
	for id, s := range bySensor {
		iv, ok := MedianInterval(s)
		if !ok {
			continue
		}
		intervals[id] = iv
		distinct[iv] = struct{}{}
		if iv > target {
			target = iv
		}
	}
	if len(distinct) <= 1 {
		return bySensor
	}

	out := make(map[string]Series, len(bySensor))
	for id, s := range bySensor {
		if _, ok := intervals[id]; !ok || intervals[id] == target {
			out[id] = s
			continue
		}
		out[id] = Resample(s, target)
	}
	return out
}

// MedianInterval returns the median of the consecutive-timestamp differences
// of a series, rounded to the second: the sensor's typical sampling interval.
// It reports false for series with fewer than two points.
func MedianInterval(s Series) (time.Duration, bool) {
	if len(s) < 2 {
		return 0, false
	}
	diffs := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		diffs = append(diffs, s[i].Time.Sub(s[i-1].Time).Seconds())
	}
	sort.Float64s(diffs)
	median := stat.Quantile(0.5, stat.Empirical, diffs, nil)
	return time.Duration(median * float64(time.Second)).Round(time.Second), true
}

// Resample interpolates a series onto a uniform grid at the given spacing,
// spanning the series' own first and last timestamps. Interpolation is
// time-weighted linear between the two observations bracketing each grid
// point; optional values interpolate only where both bracketing observations
// carry them.
func Resample(s Series, step time.Duration) Series {
	if len(s) < 2 || step <= 0 {
		return s
	}
	out := make(Series, 0, len(s))
	i := 0
	for t := s[0].Time; !t.After(s[len(s)-1].Time); t = t.Add(step) {
		for i+1 < len(s)-1 && s[i+1].Time.Before(t) {
			i++
		}
		a, b := s[i], s[i+1]
		out = append(out, lerpPoint(a, b, t))
	}
	return out
}

// lerpPoint interpolates between two observations at time t, with t inside
// [a.Time, b.Time].
func lerpPoint(a, b Point, t time.Time) Point {
	span := b.Time.Sub(a.Time).Seconds()
	if span <= 0 || !t.After(a.Time) {
		return Point{Time: t, Temperature: a.Temperature, Humidity: copyVal(a.Humidity), DewPoint: copyVal(a.DewPoint)}
	}
	if !t.Before(b.Time) {
		return Point{Time: t, Temperature: b.Temperature, Humidity: copyVal(b.Humidity), DewPoint: copyVal(b.DewPoint)}
	}
	w := t.Sub(a.Time).Seconds() / span
	p := Point{Time: t, Temperature: a.Temperature + w*(b.Temperature-a.Temperature)}
	if a.Humidity != nil && b.Humidity != nil {
		h := *a.Humidity + w*(*b.Humidity-*a.Humidity)
		p.Humidity = &h
	}
	if a.DewPoint != nil && b.DewPoint != nil {
		d := *a.DewPoint + w*(*b.DewPoint-*a.DewPoint)
		p.DewPoint = &d
	}
	return p
}

func copyVal(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
