package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/quadlab/internal/convergence"
)

// CSVHeader is the column layout written by WriteCSV.
var CSVHeader = []string{"n", "midpoint", "trapezoid", "midpoint_error", "trapezoid_error"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per point. Floats use the shortest representation
// that parses back to the same value.
func WriteCSV(w io.Writer, s *convergence.Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range s.Points {
		row := []string{
			strconv.Itoa(p.N),
			formatFloat(p.Midpoint),
			formatFloat(p.Trapezoid),
			formatFloat(p.MidpointError),
			formatFloat(p.TrapezoidError),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	Function       string              `json:"function"`
	Selector       int                 `json:"selector"`
	Antiderivative string              `json:"antiderivative"`
	Lower          float64             `json:"lower"`
	Upper          float64             `json:"upper"`
	TrueValue      float64             `json:"true_value"`
	Points         []convergence.Point `json:"points"`
}

func WriteJSON(w io.Writer, s *convergence.Series) error {
	data := ExportData{
		Function:       s.Integrand.Formula(),
		Selector:       s.Integrand.Selector(),
		Antiderivative: s.Integrand.Antiderivative(),
		Lower:          s.Lower,
		Upper:          s.Upper,
		TrueValue:      s.TrueValue,
		Points:         s.Points,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
