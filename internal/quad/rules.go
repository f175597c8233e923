package quad

import (
	"fmt"
	"math"
)

const (
	MethodMidpoint  = "midpoint"
	MethodTrapezoid = "trapezoid"
)

// Rule is a fixed-order composite quadrature rule.
type Rule interface {
	Name() string
	Estimate(req Request) (float64, error)
}

// Result is one rule's estimate and its distance from the exact value.
type Result struct {
	Rule          string
	Estimate      float64
	AbsoluteError float64
}

// Midpoint samples f at the centre of each subinterval.
type Midpoint struct{}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Name() string { return MethodMidpoint }

func (m *Midpoint) Estimate(req Request) (float64, error) {
	f, err := req.sampler(MethodMidpoint)
	if err != nil {
		return 0, err
	}
	dx := req.Width()
	half := dx * 0.5

	sum := 0.0
	for i := 0; i < req.n; i++ {
		sum += f(req.lower + half + float64(i)*dx)
	}
	return dx * sum, nil
}

// Trapezoid joins n+1 equally spaced samples, endpoints included, with
// straight lines.
type Trapezoid struct{}

func NewTrapezoid() *Trapezoid {
	return &Trapezoid{}
}

func (t *Trapezoid) Name() string { return MethodTrapezoid }

func (t *Trapezoid) Estimate(req Request) (float64, error) {
	f, err := req.sampler(MethodTrapezoid)
	if err != nil {
		return 0, err
	}
	dx := req.Width()

	interior := 0.0
	for i := 1; i < req.n; i++ {
		interior += f(req.lower + float64(i)*dx)
	}
	return dx * 0.5 * (f(req.lower) + 2*interior + f(req.upper)), nil
}

// Rules returns every supported rule in presentation order.
func Rules() []Rule {
	return []Rule{NewMidpoint(), NewTrapezoid()}
}

func RuleByName(name string) (Rule, error) {
	for _, r := range Rules() {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("unknown rule: %s", name)
}

// AbsoluteError is |trueValue - estimate|.
func AbsoluteError(trueValue, estimate float64) float64 {
	return math.Abs(trueValue - estimate)
}

// Evaluate runs rule on req and measures it against a caller-held true value.
func Evaluate(req Request, rule Rule, trueValue float64) (Result, error) {
	est, err := rule.Estimate(req)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Rule:          rule.Name(),
		Estimate:      est,
		AbsoluteError: AbsoluteError(trueValue, est),
	}, nil
}

// Integrate evaluates every rule on req.
func Integrate(req Request, trueValue float64) ([]Result, error) {
	rules := Rules()
	results := make([]Result, len(rules))
	for i, r := range rules {
		res, err := Evaluate(req, r, trueValue)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return results, nil
}

// MidpointEstimate validates its arguments and applies the midpoint rule.
func MidpointEstimate(a, b float64, n, selector int) (float64, error) {
	req, err := newRequestFromSelector(a, b, n, selector)
	if err != nil {
		return 0, err
	}
	return NewMidpoint().Estimate(req)
}

// TrapezoidEstimate validates its arguments and applies the trapezoid rule.
func TrapezoidEstimate(a, b float64, n, selector int) (float64, error) {
	req, err := newRequestFromSelector(a, b, n, selector)
	if err != nil {
		return 0, err
	}
	return NewTrapezoid().Estimate(req)
}
