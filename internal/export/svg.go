package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/quad"
)

var ruleColors = map[string]string{
	quad.MethodMidpoint:  "#3b82f6",
	quad.MethodTrapezoid: "#ef4444",
}

const thresholdColor = "#22c55e"

type point struct{ X, Y float64 }

// SeriesToSVG draws both rules' errors against n on a log10 error axis with
// a dashed horizontal line at threshold. The n axis switches to log scale
// when the counts span two decades or more.
func SeriesToSVG(s *convergence.Series, width, height int, threshold float64) string {
	if s == nil || len(s.Points) == 0 {
		return ""
	}

	counts := s.Counts()
	logX := counts[len(counts)-1] >= 100*counts[0]
	xOf := func(n int) float64 {
		if logX {
			return math.Log10(float64(n))
		}
		return float64(n)
	}

	curves := make(map[string][]point)
	minY, maxY := math.Inf(1), math.Inf(-1)
	if threshold > 0 {
		minY = math.Log10(threshold)
		maxY = minY
	}
	for _, rule := range quad.Rules() {
		name := rule.Name()
		for _, p := range s.Points {
			e := p.Error(name)
			if e <= 0 || math.IsNaN(e) || math.IsInf(e, 0) {
				continue
			}
			y := math.Log10(e)
			curves[name] = append(curves[name], point{xOf(p.N), y})
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
		}
	}
	if math.IsInf(minY, 0) {
		return ""
	}

	minX, maxX := xOf(counts[0]), xOf(counts[len(counts)-1])
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	project := func(p point) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<text x="8" y="16" font-family="monospace" font-size="12">%s on [%g, %g]: |error| (log10) vs n</text>
`, width, height, width, height, s.Integrand.Formula(), s.Lower, s.Upper))

	if threshold > 0 {
		_, ty := project(point{minX, math.Log10(threshold)})
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="6,4"/>
`, ty, width, ty, thresholdColor))
	}

	for _, rule := range quad.Rules() {
		pts := curves[rule.Name()]
		if len(pts) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" data-rule="%s" d="M`,
			ruleColors[rule.Name()], rule.Name()))
		for i, p := range pts {
			x, y := project(p)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
