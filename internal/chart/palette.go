package chart

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette is the fixed series color cycle. Colors are assigned by sensor
// position in the stable registry order, so a sensor keeps its color across
// chart types and regenerations.
var palette = []string{
	"1f77b4",
	"ff7f0e",
	"2ca02c",
	"d62728",
	"9467bd",
	"8c564b",
	"e377c2",
	"7f7f7f",
	"bcbd22",
	"17becf",
}

func colorFor(i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// exteriorMarkers are name fragments that identify outdoor sensors, whose
// series are drawn dashed to visually separate them from indoor ones.
var exteriorMarkers = []string{"ext", "exterior", "extérieur", "exterieur", "out", "nord"}

func isExterior(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range exteriorMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
