package timeseries

import (
	"math"
	"testing"
	"time"
)

func seriesAt(start time.Time, step time.Duration, temps []float64) Series {
	s := make(Series, len(temps))
	for i, v := range temps {
		s[i] = Point{Time: start.Add(time.Duration(i) * step), Temperature: v}
	}
	return s
}

func TestMedianInterval(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	s := seriesAt(start, 10*time.Minute, []float64{1, 2, 3, 4, 5})
	// One long gap must not move the median off the typical interval.
	s = append(s, Point{Time: s[len(s)-1].Time.Add(50 * time.Minute), Temperature: 6})
	iv, ok := MedianInterval(s)
	if !ok || iv != 10*time.Minute {
		t.Fatalf("MedianInterval = %v, %v, want 10m", iv, ok)
	}
	if _, ok := MedianInterval(Series{{Time: start}}); ok {
		t.Fatal("single-point series should have no interval")
	}
}

func TestAlignNoopWhenIntervalsAgree(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	in := map[string]Series{
		"a": seriesAt(start, 10*time.Minute, []float64{1, 2, 3}),
		"b": seriesAt(start.Add(5*time.Minute), 10*time.Minute, []float64{4, 5, 6}),
	}
	out := Align(in)
	if len(out["a"]) != 3 || len(out["b"]) != 3 {
		t.Fatalf("matching intervals must pass through unchanged: %v", out)
	}
	for i := range in["a"] {
		if !in["a"][i].Time.Equal(out["a"][i].Time) {
			t.Fatal("series a was resampled")
		}
	}
}

func TestAlignResamplesFinerSensorToCoarserGrid(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	// Sensor a logs every 10 minutes with temperature rising 0.1 per minute,
	// sensor b every hour.
	fine := make([]float64, 13)
	for i := range fine {
		fine[i] = float64(i) // 0..12 over two hours
	}
	in := map[string]Series{
		"a": seriesAt(start, 10*time.Minute, fine),
		"b": seriesAt(start, time.Hour, []float64{18, 19, 20}),
	}
	out := Align(in)

	a := out["a"]
	if len(a) != 3 {
		t.Fatalf("resampled a has %d points, want 3 hourly points", len(a))
	}
	for i, want := range []float64{0, 6, 12} {
		if !a[i].Time.Equal(start.Add(time.Duration(i) * time.Hour)) {
			t.Errorf("a[%d].Time = %v", i, a[i].Time)
		}
		if math.Abs(a[i].Temperature-want) > 1e-9 {
			t.Errorf("a[%d].Temperature = %v, want %v", i, a[i].Temperature, want)
		}
	}
	// The coarse sensor keeps its original points.
	b := out["b"]
	if len(b) != 3 || b[1].Temperature != 19 {
		t.Fatalf("b changed: %v", b)
	}
}

func TestResampleInterpolatesBetweenObservations(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	h1, h2 := 40.0, 60.0
	s := Series{
		{Time: start, Temperature: 10, Humidity: &h1},
		{Time: start.Add(time.Hour), Temperature: 20, Humidity: &h2},
		{Time: start.Add(2 * time.Hour), Temperature: 30},
	}
	out := Resample(s, 45*time.Minute)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3 (no extrapolation past the last point)", len(out))
	}
	// 00:45 sits three quarters of the way from 10 to 20.
	if math.Abs(out[1].Temperature-17.5) > 1e-9 {
		t.Errorf("interpolated temperature = %v, want 17.5", out[1].Temperature)
	}
	if out[1].Humidity == nil || math.Abs(*out[1].Humidity-55) > 1e-9 {
		t.Errorf("interpolated humidity = %v, want 55", out[1].Humidity)
	}
	// 01:30 brackets a point without humidity: no value is invented.
	if out[2].Humidity != nil {
		t.Errorf("humidity across a gap = %v, want nil", *out[2].Humidity)
	}
	if math.Abs(out[2].Temperature-25) > 1e-9 {
		t.Errorf("temperature at 01:30 = %v, want 25", out[2].Temperature)
	}
}

func TestAlignSingleSensorPassthrough(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	in := map[string]Series{"only": seriesAt(start, time.Minute, []float64{1, 2})}
	out := Align(in)
	if len(out) != 1 || len(out["only"]) != 2 {
		t.Fatalf("single sensor must pass through: %v", out)
	}
}
