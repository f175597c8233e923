package quad

import (
	"fmt"
	"math"

	"github.com/san-kum/quadlab/internal/catalog"
)

// Request is a validated integration problem. Build it with NewRequest; the
// zero value is rejected by every rule.
type Request struct {
	lower     float64
	upper     float64
	n         int
	integrand catalog.Integrand
}

// NewRequest validates selector, bounds, subinterval count and domain, in
// that order, and fails before any sample is taken.
func NewRequest(a, b float64, n int, f catalog.Integrand) (Request, error) {
	r := Request{lower: a, upper: b, n: n, integrand: f}
	if err := r.validate("new request"); err != nil {
		return Request{}, err
	}
	return r, nil
}

func (r Request) validate(op string) error {
	wrap := func(err error) error {
		return &Error{Op: op, Lower: r.lower, Upper: r.upper, N: r.n, Wrapped: err}
	}

	a, b, f := r.lower, r.upper, r.integrand
	if !f.Valid() {
		return wrap(fmt.Errorf("%w: %d", ErrInvalidSelector, int(f)))
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) || b <= a {
		return wrap(ErrInvalidBounds)
	}
	if r.n < 1 {
		return wrap(ErrInvalidSubintervalCount)
	}
	if err := f.CheckDomain(a, b); err != nil {
		return wrap(err)
	}
	return nil
}

func (r Request) Lower() float64 { return r.lower }

func (r Request) Upper() float64 { return r.upper }

// N is the number of subintervals.
func (r Request) N() int { return r.n }

func (r Request) Integrand() catalog.Integrand { return r.integrand }

// Width is the subinterval width dx.
func (r Request) Width() float64 {
	return (r.upper - r.lower) / float64(r.n)
}

// WithN returns a copy of r over n subintervals.
func (r Request) WithN(n int) (Request, error) {
	return NewRequest(r.lower, r.upper, n, r.integrand)
}

// TrueValue is the closed-form integral for the request's bounds.
func (r Request) TrueValue() (float64, error) {
	return r.integrand.TrueIntegral(r.lower, r.upper)
}

// sampler revalidates r and returns its integrand, so a zero or otherwise
// unchecked Request fails instead of producing NaN or Inf.
func (r Request) sampler(op string) (func(float64) float64, error) {
	if err := r.validate(op); err != nil {
		return nil, err
	}
	fn, err := r.integrand.Func()
	if err != nil {
		return nil, &Error{Op: op, Lower: r.lower, Upper: r.upper, N: r.n, Wrapped: err}
	}
	return fn, nil
}

func newRequestFromSelector(a, b float64, n, selector int) (Request, error) {
	f, err := catalog.Parse(selector)
	if err != nil {
		return Request{}, &Error{Op: "new request", Lower: a, Upper: b, N: n, Wrapped: err}
	}
	return NewRequest(a, b, n, f)
}
