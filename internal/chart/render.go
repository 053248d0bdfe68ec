package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 1200
	defaultHeight = 600
)

var (
	gridColor      = drawing.Color{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	thresholdColor = drawing.Color{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	riskDotColor   = drawing.ColorFromHex("d62728")
)

func lineStyle(ss SensorSeries) chart.Style {
	st := chart.Style{
		StrokeColor: colorFor(ss.Index),
		StrokeWidth: 1.5,
	}
	if isExterior(ss.Name) {
		st.StrokeDashArray = []float64{5.0, 3.0}
	}
	return st
}

func baseChart(in Input, title, yLabel string) chart.Chart {
	w, h := in.Width, in.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return chart.Chart{
		Title:  title,
		Width:  w,
		Height: h,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1.0},
		},
		YAxis: chart.YAxis{
			Name: yLabel,
		},
	}
}

func renderPNG(graph chart.Chart) ([]byte, error) {
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderBarPNG(in Input, title, yLabel string, bars []chart.Value) ([]byte, error) {
	w, h := in.Width, in.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	graph := chart.BarChart{
		Title:      title,
		Width:      w,
		Height:     h,
		BarWidth:   28,
		BarSpacing: 12,
		YAxis: chart.YAxis{
			Name: yLabel,
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	return buf.Bytes(), nil
}

// dailyMeanSeries projects per-day statistics onto one (day, mean) point per
// calendar day.
func dailyMeanSeries(days []DayStat) ([]time.Time, []float64) {
	xs := make([]time.Time, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i] = d.Day
		ys[i] = d.Mean
	}
	return xs, ys
}

func buildTimeChart(in Input, id, title, yLabel string, q quantity) (*Result, error) {
	graph := baseChart(in, title, yLabel)
	for _, ss := range in.Sensors {
		days := dailyStats(ss.Series, q)
		if len(days) == 0 {
			return nil, &NoDataInRangeError{Name: ss.Name}
		}
		xs, ys := dailyMeanSeries(days)
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    ss.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(ss),
		})
	}
	png, err := renderPNG(graph)
	if err != nil {
		return nil, err
	}
	return &Result{Title: title, Images: []Image{{Name: imageName(id, ""), PNG: png}}}, nil
}

func buildTemperatureTime(in Input) (*Result, error) {
	return buildTimeChart(in, "temperature_time", "Temperature over time", "°C", quantityTemperature)
}

func buildHumidityTime(in Input) (*Result, error) {
	return buildTimeChart(in, "humidity_time", "Humidity over time", "% RH", quantityHumidity)
}

func buildAmplitudeChart(in Input, id, title, yLabel string, q quantity) (*Result, error) {
	graph := baseChart(in, title, yLabel)
	for _, ss := range in.Sensors {
		days := dailyStats(ss.Series, q)
		if len(days) == 0 {
			return nil, &NoDataInRangeError{Name: ss.Name}
		}
		xs := make([]time.Time, len(days))
		ys := make([]float64, len(days))
		for i, d := range days {
			xs[i] = d.Day
			ys[i] = d.Amplitude
		}
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    ss.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(ss),
		})
	}
	png, err := renderPNG(graph)
	if err != nil {
		return nil, err
	}
	return &Result{Title: title, Images: []Image{{Name: imageName(id, ""), PNG: png}}}, nil
}

func buildTemperatureAmplitude(in Input) (*Result, error) {
	return buildAmplitudeChart(in, "temperature_amplitude", "Daily temperature amplitude", "°C", quantityTemperature)
}

func buildHumidityAmplitude(in Input) (*Result, error) {
	return buildAmplitudeChart(in, "humidity_amplitude", "Daily humidity amplitude", "% RH", quantityHumidity)
}

func buildHumidityDistribution(in Input) (*Result, error) {
	ss := in.Sensors[0]
	counts := humidityClassCounts(dailyStats(ss.Series, quantityHumidity))
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, &NoDataInRangeError{Name: ss.Name}
	}
	color := colorFor(ss.Index)
	bars := make([]chart.Value, len(counts))
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: humidityClassLabels[i],
			Value: float64(c),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}
	title := fmt.Sprintf("Humidity classes, %s", ss.Name)
	png, err := renderBarPNG(in, title, "days", bars)
	if err != nil {
		return nil, err
	}
	return &Result{
		Title:  title,
		Images: []Image{{Name: imageName("humidity_distribution", ss.Name), PNG: png}},
	}, nil
}

func buildHumidityAmplitudeDistribution(in Input) (*Result, error) {
	ss := in.Sensors[0]
	hist := amplitudeHistogram(dailyStats(ss.Series, quantityHumidity))
	if hist == nil {
		return nil, &NoDataInRangeError{Name: ss.Name}
	}
	color := colorFor(ss.Index)
	bars := make([]chart.Value, len(hist))
	for i, frac := range hist {
		label := ""
		if i%5 == 0 {
			label = fmt.Sprintf("%d", i)
		}
		bars[i] = chart.Value{
			Label: label,
			Value: frac,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}
	title := fmt.Sprintf("Daily humidity amplitude, %s", ss.Name)
	png, err := renderBarPNG(in, title, "share of days", bars)
	if err != nil {
		return nil, err
	}
	return &Result{
		Title:  title,
		Images: []Image{{Name: imageName("humidity_amplitude_distribution", ss.Name), PNG: png}},
	}, nil
}

func buildDewPointRisk(in Input) (*Result, error) {
	title := "Dew point condensation risk"
	graph := baseChart(in, title, "°C margin")
	var spanStart, spanEnd time.Time
	for _, ss := range in.Sensors {
		days := dewPointRisk(ss.Series, in.RiskThreshold)
		if len(days) == 0 {
			return nil, &NoDataInRangeError{Name: ss.Name}
		}
		if spanStart.IsZero() || days[0].Day.Before(spanStart) {
			spanStart = days[0].Day
		}
		if last := days[len(days)-1].Day; last.After(spanEnd) {
			spanEnd = last
		}
		xs := make([]time.Time, len(days))
		ys := make([]float64, len(days))
		var riskX []time.Time
		var riskY []float64
		for i, d := range days {
			xs[i] = d.Day
			ys[i] = d.MeanDeficit
			if d.AtRisk {
				riskX = append(riskX, d.Day)
				riskY = append(riskY, d.MeanDeficit)
			}
		}
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    ss.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(ss),
		})
		if len(riskX) > 0 {
			graph.Series = append(graph.Series, chart.TimeSeries{
				XValues: riskX,
				YValues: riskY,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
					DotColor:    riskDotColor,
				},
			})
		}
	}
	// Horizontal threshold reference line across the charted span.
	graph.Series = append(graph.Series, chart.TimeSeries{
		Name:    fmt.Sprintf("threshold %.1f °C", in.RiskThreshold),
		XValues: []time.Time{spanStart, spanEnd},
		YValues: []float64{in.RiskThreshold, in.RiskThreshold},
		Style: chart.Style{
			StrokeColor:     thresholdColor,
			StrokeWidth:     1.0,
			StrokeDashArray: []float64{3.0, 3.0},
		},
	})
	png, err := renderPNG(graph)
	if err != nil {
		return nil, err
	}
	return &Result{Title: title, Images: []Image{{Name: imageName("dew_point_risk", ""), PNG: png}}}, nil
}
