package catalog

import "errors"

var (
	// ErrInvalidSelector indicates a selector outside the five catalog entries.
	ErrInvalidSelector = errors.New("catalog: invalid function selector")

	// ErrDomain indicates an evaluation outside the integrand's domain.
	ErrDomain = errors.New("catalog: argument outside function domain")
)
