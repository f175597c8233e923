package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/quadlab/internal/catalog"
	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/export"
	"github.com/san-kum/quadlab/internal/quad"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

// ErrInvalidRunID is returned for run ids that are not a single directory
// name under the store.
var ErrInvalidRunID = errors.New("storage: invalid run id")

type Store struct {
	baseDir string
	log     *slog.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, log: slog.Default()}
}

// WithLogger sets the logger used to report skipped run directories.
func (s *Store) WithLogger(log *slog.Logger) *Store {
	s.log = log
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Function   string             `json:"function"`
	Selector   int                `json:"selector"`
	Timestamp  time.Time          `json:"timestamp"`
	Lower      float64            `json:"lower"`
	Upper      float64            `json:"upper"`
	TrueValue  float64            `json:"true_value"`
	Counts     int                `json:"counts"`
	MaxN       int                `json:"max_n"`
	Threshold  float64            `json:"threshold"`
	Orders     map[string]float64 `json:"orders,omitempty"`
	FirstBelow map[string]int     `json:"first_below,omitempty"`
}

// Save writes the series and a metadata summary under a new run directory
// and returns the run id.
func (s *Store) Save(series *convergence.Series, threshold float64) (string, error) {
	if series == nil || len(series.Points) == 0 {
		return "", fmt.Errorf("storage: empty series")
	}

	runID := fmt.Sprintf("%s_%s", series.Integrand.Key(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Function:   series.Integrand.Formula(),
		Selector:   series.Integrand.Selector(),
		Timestamp:  time.Now(),
		Lower:      series.Lower,
		Upper:      series.Upper,
		TrueValue:  series.TrueValue,
		Counts:     len(series.Points),
		MaxN:       series.Points[len(series.Points)-1].N,
		Threshold:  threshold,
		Orders:     make(map[string]float64),
		FirstBelow: make(map[string]int),
	}
	for _, rule := range quad.Rules() {
		if p := series.ObservedOrder(rule.Name()); !math.IsNaN(p) {
			meta.Orders[rule.Name()] = p
		}
		if n, ok := series.FirstBelow(rule.Name(), threshold); ok {
			meta.FirstBelow[rule.Name()] = n
		}
	}

	if err := writeRun(runDir, &meta, series); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			s.log.Warn("could not remove partial run", "dir", runDir, "error", rmErr)
		}
		return "", fmt.Errorf("save run %s: %w", runID, err)
	}

	s.log.Debug("saved run", "id", runID, "function", meta.Function, "points", meta.Counts)
	return runID, nil
}

func writeRun(runDir string, meta *RunMetadata, series *convergence.Series) error {
	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(runDir, seriesFile), func(w io.Writer) error {
		return export.WriteCSV(w, series)
	})
}

// writeFile creates path and runs write on it. A failed Close is reported
// like a failed write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func checkRunID(runID string) error {
	if runID == "" || runID == "." || strings.Contains(runID, "..") ||
		strings.ContainsAny(runID, `/\`) || strings.ContainsRune(runID, filepath.Separator) {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
}

// List returns all readable runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Warn("skipping run directory", "dir", entry.Name(), "error", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries rebuilds the stored series of a run.
func (s *Store) LoadSeries(runID string) (*convergence.Series, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := catalog.Parse(meta.Selector)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &convergence.Series{
		Integrand: f,
		Lower:     meta.Lower,
		Upper:     meta.Upper,
		TrueValue: meta.TrueValue,
		Points:    make([]convergence.Point, 0, len(records)),
	}

	for i := 1; i < len(records); i++ {
		p, err := parsePoint(records[i])
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+1, err)
		}
		series.Points = append(series.Points, p)
	}

	return series, nil
}

func parsePoint(record []string) (convergence.Point, error) {
	if len(record) != len(export.CSVHeader) {
		return convergence.Point{}, fmt.Errorf("expected %d fields, got %d", len(export.CSVHeader), len(record))
	}

	n, err := strconv.Atoi(record[0])
	if err != nil {
		return convergence.Point{}, err
	}

	vals := make([]float64, 4)
	for i := range vals {
		vals[i], err = strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return convergence.Point{}, err
		}
	}

	return convergence.Point{
		N:              n,
		Midpoint:       vals[0],
		Trapezoid:      vals[1],
		MidpointError:  vals[2],
		TrapezoidError: vals[3],
	}, nil
}
