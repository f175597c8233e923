package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/quad"
)

// floorLog is used for exact (zero-error) points, which have no logarithm.
const floorLog = -16.0

func log10Errors(errs []float64) []float64 {
	out := make([]float64, len(errs))
	for i, e := range errs {
		if e <= 0 || math.IsNaN(e) {
			out[i] = floorLog
			continue
		}
		out[i] = math.Max(math.Log10(e), floorLog)
	}
	return out
}

// Plot renders log10 error against series index for both rules, with a
// constant third line at the threshold.
func Plot(s *convergence.Series, threshold float64, width, height int) string {
	if s == nil || len(s.Points) == 0 {
		return ""
	}

	mid := log10Errors(s.Errors(quad.MethodMidpoint))
	trap := log10Errors(s.Errors(quad.MethodTrapezoid))
	data := [][]float64{mid, trap}
	colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red}
	legends := []string{quad.MethodMidpoint, quad.MethodTrapezoid}

	if threshold > 0 {
		line := make([]float64, len(mid))
		for i := range line {
			line[i] = math.Log10(threshold)
		}
		data = append(data, line)
		colors = append(colors, asciigraph.Green)
		legends = append(legends, fmt.Sprintf("threshold %.0e", threshold))
	}

	counts := s.Counts()
	caption := fmt.Sprintf("log10 |error| of %s on [%g, %g], n = %d..%d",
		s.Integrand.Formula(), s.Lower, s.Upper, counts[0], counts[len(counts)-1])

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(caption),
	)
}
