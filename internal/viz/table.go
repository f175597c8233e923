package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/quadlab/internal/catalog"
	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/quad"
)

const tableWidth = 58

// RenderComparison lists each interval count with both rules' errors. Errors
// at or under threshold are highlighted.
func RenderComparison(s *convergence.Series, threshold float64, st Styles) string {
	var sb strings.Builder

	sb.WriteString(st.Title.Render(fmt.Sprintf("%s on [%g, %g]", s.Integrand.Formula(), s.Lower, s.Upper)))
	sb.WriteString("\n")
	sb.WriteString(st.Label.Render(fmt.Sprintf("true value: %.12g", s.TrueValue)))
	sb.WriteString("\n\n")

	sb.WriteString(st.Header.Render(fmt.Sprintf("%-12s  %-20s  %-20s", "intervals", "midpoint error", "trapezoid error")))
	sb.WriteString("\n")

	cell := func(e float64, base func(...string) string) string {
		text := fmt.Sprintf("%-20.8e", e)
		if threshold > 0 && e <= threshold {
			return st.Pass.Render(text)
		}
		return base(text)
	}

	for _, p := range s.Points {
		sb.WriteString(fmt.Sprintf("%-12d  %s  %s\n",
			p.N,
			cell(p.MidpointError, st.Midpoint.Render),
			cell(p.TrapezoidError, st.Trapezoid.Render),
		))
	}

	sb.WriteString(st.Separator(tableWidth))
	sb.WriteString("\n")

	for _, rule := range quad.Rules() {
		name := rule.Name()
		line := fmt.Sprintf("%-10s", name)
		if p := s.ObservedOrder(name); !math.IsNaN(p) {
			line += fmt.Sprintf("  observed order %.3f", p)
		}
		if n, ok := s.FirstBelow(name, threshold); ok {
			line += fmt.Sprintf("  below %.0e from n=%d", threshold, n)
		} else if threshold > 0 {
			line += "  " + st.Fail.Render(fmt.Sprintf("never below %.0e", threshold))
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderResults shows the estimates for one request.
func RenderResults(req quad.Request, trueValue float64, results []quad.Result, st Styles) string {
	var sb strings.Builder

	sb.WriteString(st.Title.Render(fmt.Sprintf("%s on [%g, %g], n=%d", req.Integrand().Formula(), req.Lower(), req.Upper(), req.N())))
	sb.WriteString("\n")
	sb.WriteString(st.Label.Render(fmt.Sprintf("exact %s = %.15g", req.Integrand().Antiderivative(), trueValue)))
	sb.WriteString("\n\n")

	sb.WriteString(st.Header.Render(fmt.Sprintf("%-10s  %-22s  %-16s", "rule", "estimate", "abs error")))
	sb.WriteString("\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%-10s  %-22.15g  %-16.6e\n", r.Rule, r.Estimate, r.AbsoluteError))
	}

	return sb.String()
}

// RenderCatalog lists every integrand with its selector and closed form.
func RenderCatalog(st Styles) string {
	var sb strings.Builder

	sb.WriteString(st.Header.Render(fmt.Sprintf("%-4s  %-6s  %-8s  %-18s", "#", "key", "f(x)", "integral a..b")))
	sb.WriteString("\n")
	for _, f := range catalog.All() {
		sb.WriteString(fmt.Sprintf("%-4d  %-6s  %-8s  %-18s\n", f.Selector(), f.Key(), f.Formula(), f.Antiderivative()))
	}

	return sb.String()
}
