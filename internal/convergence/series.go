package convergence

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/san-kum/quadlab/internal/catalog"
	"github.com/san-kum/quadlab/internal/quad"
)

const (
	// MinIntervals is the first subinterval count of a sweep.
	MinIntervals = 2
	// DefaultMaxIntervals is the last subinterval count of a sweep.
	DefaultMaxIntervals = 20
	// DefaultThreshold is the reference error level drawn on error plots.
	DefaultThreshold = 1e-5
)

// DefaultCounts are the interval counts of the comparison table.
var DefaultCounts = []int{10, 100, 1000, 10000}

// Point holds both rule estimates and their errors for one interval count.
type Point struct {
	N              int     `json:"n"`
	Midpoint       float64 `json:"midpoint"`
	Trapezoid      float64 `json:"trapezoid"`
	MidpointError  float64 `json:"midpoint_error"`
	TrapezoidError float64 `json:"trapezoid_error"`
}

// Error returns the absolute error of the named rule.
func (p Point) Error(rule string) float64 {
	switch rule {
	case quad.MethodMidpoint:
		return p.MidpointError
	case quad.MethodTrapezoid:
		return p.TrapezoidError
	default:
		return math.NaN()
	}
}

// Series is the error history of both rules for a fixed integrand and
// interval, ordered by ascending N.
type Series struct {
	Integrand catalog.Integrand `json:"-"`
	Lower     float64           `json:"lower"`
	Upper     float64           `json:"upper"`
	TrueValue float64           `json:"true_value"`
	Points    []Point           `json:"points"`
}

type options struct {
	workers  int
	minChunk int
}

type Option func(*options)

// WithWorkers bounds the number of goroutines used for a sweep.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithMinChunk sets the smallest number of counts handed to one worker.
func WithMinChunk(n int) Option {
	return func(o *options) { o.minChunk = n }
}

func defaultOptions() options {
	return options{workers: runtime.GOMAXPROCS(0), minChunk: 4}
}

// Sweep evaluates both rules for every n in [MinIntervals, maxN]. A maxN of
// 0 means DefaultMaxIntervals.
func Sweep(ctx context.Context, a, b float64, f catalog.Integrand, maxN int, opts ...Option) (*Series, error) {
	if maxN == 0 {
		maxN = DefaultMaxIntervals
	}
	if maxN < MinIntervals {
		return nil, fmt.Errorf("sweep up to %d: %w", maxN, quad.ErrInvalidSubintervalCount)
	}
	counts := make([]int, 0, maxN-MinIntervals+1)
	for n := MinIntervals; n <= maxN; n++ {
		counts = append(counts, n)
	}
	return run(ctx, a, b, f, counts, opts)
}

// Compare evaluates both rules at the given interval counts. Duplicates are
// dropped and the result is ordered by ascending n.
func Compare(ctx context.Context, a, b float64, f catalog.Integrand, counts []int, opts ...Option) (*Series, error) {
	if len(counts) == 0 {
		counts = DefaultCounts
	}
	sorted := make([]int, 0, len(counts))
	seen := make(map[int]bool, len(counts))
	for _, n := range counts {
		if n < 1 {
			return nil, fmt.Errorf("interval count %d: %w", n, quad.ErrInvalidSubintervalCount)
		}
		if !seen[n] {
			seen[n] = true
			sorted = append(sorted, n)
		}
	}
	sort.Ints(sorted)
	return run(ctx, a, b, f, sorted, opts)
}

func run(ctx context.Context, a, b float64, f catalog.Integrand, counts []int, opts []Option) (*Series, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// Fail on the shared bounds before fanning out; WithN rechecks each count.
	base, err := quad.NewRequest(a, b, counts[0], f)
	if err != nil {
		return nil, err
	}
	trueValue, err := base.TrueValue()
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(counts))
	mid := quad.NewMidpoint()
	trap := quad.NewTrapezoid()

	errs := make([]error, len(counts))

	err = parallelFor(ctx, len(counts), o.workers, o.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			req, err := base.WithN(counts[i])
			if err != nil {
				errs[i] = err
				continue
			}
			m, err := quad.Evaluate(req, mid, trueValue)
			if err != nil {
				errs[i] = err
				continue
			}
			t, err := quad.Evaluate(req, trap, trueValue)
			if err != nil {
				errs[i] = err
				continue
			}
			points[i] = Point{
				N:              counts[i],
				Midpoint:       m.Estimate,
				Trapezoid:      t.Estimate,
				MidpointError:  m.AbsoluteError,
				TrapezoidError: t.AbsoluteError,
			}
		}
	})
	if err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Series{
		Integrand: f,
		Lower:     a,
		Upper:     b,
		TrueValue: trueValue,
		Points:    points,
	}, nil
}

func (s *Series) Counts() []int {
	out := make([]int, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.N
	}
	return out
}

// Errors returns the named rule's errors in series order.
func (s *Series) Errors(rule string) []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Error(rule)
	}
	return out
}

// FirstBelow returns the smallest n whose error for rule is under threshold.
func (s *Series) FirstBelow(rule string, threshold float64) (int, bool) {
	for _, p := range s.Points {
		if p.Error(rule) < threshold {
			return p.N, true
		}
	}
	return 0, false
}

// Monotone reports whether the rule's error never increases along the series.
func (s *Series) Monotone(rule string) bool {
	for i := 1; i < len(s.Points); i++ {
		if s.Points[i].Error(rule) > s.Points[i-1].Error(rule) {
			return false
		}
	}
	return true
}

// ObservedOrder fits log(err) = c - p*log(n) by least squares and returns p.
// Points with zero error carry no slope information and are skipped; NaN is
// returned when fewer than two usable points remain.
func (s *Series) ObservedOrder(rule string) float64 {
	var sx, sy, sxx, sxy float64
	k := 0
	for _, p := range s.Points {
		e := p.Error(rule)
		if e <= 0 || math.IsNaN(e) || math.IsInf(e, 0) {
			continue
		}
		x := math.Log(float64(p.N))
		y := math.Log(e)
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
		k++
	}
	if k < 2 {
		return math.NaN()
	}
	kf := float64(k)
	den := kf*sxx - sx*sx
	if den == 0 {
		return math.NaN()
	}
	return -(kf*sxy - sx*sy) / den
}
