package quad

import (
	"errors"
	"fmt"

	"github.com/san-kum/quadlab/internal/catalog"
)

// Contract violations for quadrature requests.
var (
	// ErrInvalidBounds indicates upper <= lower or a non-finite bound.
	ErrInvalidBounds = errors.New("quad: upper bound must be greater than lower bound")

	// ErrInvalidSubintervalCount indicates fewer than one subinterval.
	ErrInvalidSubintervalCount = errors.New("quad: subinterval count must be at least 1")

	// Re-exported so callers of this package need not import catalog.
	ErrInvalidSelector = catalog.ErrInvalidSelector
	ErrDomain          = catalog.ErrDomain
)

// Error wraps a contract violation with the request that caused it.
type Error struct {
	Op      string
	Lower   float64
	Upper   float64
	N       int
	Wrapped error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%g, %g] n=%d: %v", e.Op, e.Lower, e.Upper, e.N, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}
