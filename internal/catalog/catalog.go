package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Integrand is one of the fixed functions the quadrature rules know how to
// integrate. The zero value is not a valid integrand.
type Integrand int

const (
	XSquared Integrand = iota + 1
	Sine
	Exponential
	ReciprocalX
	XCubed
)

// All returns every integrand in selector order.
func All() []Integrand {
	return []Integrand{XSquared, Sine, Exponential, ReciprocalX, XCubed}
}

// Parse maps a numeric selector to its integrand.
func Parse(selector int) (Integrand, error) {
	f := Integrand(selector)
	if !f.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSelector, selector)
	}
	return f, nil
}

// ParseName accepts a selector digit, a short key or a formula.
func ParseName(name string) (Integrand, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if n, err := strconv.Atoi(s); err == nil {
		return Parse(n)
	}
	for _, f := range All() {
		if s == f.Key() || s == f.Formula() {
			return f, nil
		}
	}
	switch s {
	case "x²", "x**2", "square":
		return XSquared, nil
	case "e^x", "exp(x)":
		return Exponential, nil
	case "x³", "x**3", "cube":
		return XCubed, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSelector, name)
}

func (f Integrand) Valid() bool {
	return f >= XSquared && f <= XCubed
}

// Selector is the numeric menu index of the integrand.
func (f Integrand) Selector() int {
	return int(f)
}

func (f Integrand) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Integrand(%d)", int(f))
	}
	return f.Formula()
}

// Key is the short identifier used in configs and run ids.
func (f Integrand) Key() string {
	switch f {
	case XSquared:
		return "x2"
	case Sine:
		return "sin"
	case Exponential:
		return "exp"
	case ReciprocalX:
		return "recip"
	case XCubed:
		return "x3"
	default:
		return ""
	}
}

func (f Integrand) Formula() string {
	switch f {
	case XSquared:
		return "x^2"
	case Sine:
		return "sin(x)"
	case Exponential:
		return "e^x"
	case ReciprocalX:
		return "1/x"
	case XCubed:
		return "x^3"
	default:
		return ""
	}
}

// Antiderivative describes the closed form used by TrueIntegral.
func (f Integrand) Antiderivative() string {
	switch f {
	case XSquared:
		return "(b^3 - a^3) / 3"
	case Sine:
		return "cos(a) - cos(b)"
	case Exponential:
		return "e^b - e^a"
	case ReciprocalX:
		return "ln|b| - ln|a|"
	case XCubed:
		return "(b^4 - a^4) / 4"
	default:
		return ""
	}
}

// Func returns the unchecked pointwise function. Callers must have run
// CheckDomain over the interval they sample.
func (f Integrand) Func() (func(float64) float64, error) {
	switch f {
	case XSquared:
		return func(x float64) float64 { return x * x }, nil
	case Sine:
		return math.Sin, nil
	case Exponential:
		return math.Exp, nil
	case ReciprocalX:
		return func(x float64) float64 { return 1 / x }, nil
	case XCubed:
		return func(x float64) float64 { return x * x * x }, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidSelector, int(f))
	}
}

// Evaluate computes f(x).
func (f Integrand) Evaluate(x float64) (float64, error) {
	fn, err := f.Func()
	if err != nil {
		return 0, err
	}
	if f == ReciprocalX && x == 0 {
		return 0, fmt.Errorf("%w: %s at x=0", ErrDomain, f.Formula())
	}
	return fn(x), nil
}

// EvaluateAll applies f elementwise and returns a slice of the same length.
func (f Integrand) EvaluateAll(xs []float64) ([]float64, error) {
	out := make([]float64, len(xs))
	for i, x := range xs {
		y, err := f.Evaluate(x)
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}

// CheckDomain reports whether every point of [a, b] can be evaluated.
// 1/x is undefined on any interval that touches or straddles zero.
func (f Integrand) CheckDomain(a, b float64) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSelector, int(f))
	}
	if f == ReciprocalX && a <= 0 && b >= 0 {
		return fmt.Errorf("%w: %s over [%g, %g] includes x=0", ErrDomain, f.Formula(), a, b)
	}
	return nil
}

// TrueIntegral is the exact value of the integral of f over [a, b].
func (f Integrand) TrueIntegral(a, b float64) (float64, error) {
	if err := f.CheckDomain(a, b); err != nil {
		return 0, err
	}
	switch f {
	case XSquared:
		return (b*b*b - a*a*a) / 3, nil
	case Sine:
		return math.Cos(a) - math.Cos(b), nil
	case Exponential:
		return math.Exp(b) - math.Exp(a), nil
	case ReciprocalX:
		return math.Log(math.Abs(b)) - math.Log(math.Abs(a)), nil
	case XCubed:
		return (b*b*b*b - a*a*a*a) / 4, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidSelector, int(f))
	}
}

// TrueValue resolves selector and returns the exact integral over [a, b].
func TrueValue(selector int, a, b float64) (float64, error) {
	f, err := Parse(selector)
	if err != nil {
		return 0, err
	}
	return f.TrueIntegral(a, b)
}
