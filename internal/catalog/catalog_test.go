package catalog

import (
	"errors"
	"math"
	"testing"
)

func TestTrueValue(t *testing.T) {
	tests := []struct {
		selector int
		a, b     float64
		expected float64
	}{
		{1, 0, 1, 1.0 / 3.0},
		{2, 0, math.Pi, 2.0},
		{3, 0, 1, math.E - 1},
		{4, 1, 2, math.Ln2},
		{5, 0, 2, 4.0},
		{4, -2, -1, -math.Ln2},
	}

	for _, tt := range tests {
		got, err := TrueValue(tt.selector, tt.a, tt.b)
		if err != nil {
			t.Fatalf("selector %d: unexpected error: %v", tt.selector, err)
		}
		if math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("selector %d over [%g, %g]: expected %.12f, got %.12f", tt.selector, tt.a, tt.b, tt.expected, got)
		}
	}
}

func TestTrueValueIdempotent(t *testing.T) {
	for _, f := range All() {
		v1, err := TrueValue(f.Selector(), 0.5, 3.25)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		v2, _ := TrueValue(f.Selector(), 0.5, 3.25)
		if math.Float64bits(v1) != math.Float64bits(v2) {
			t.Errorf("%s: repeated calls differ: %v vs %v", f, v1, v2)
		}
	}
}

func TestParseInvalidSelector(t *testing.T) {
	for _, sel := range []int{0, 6, -1, 42} {
		if _, err := Parse(sel); !errors.Is(err, ErrInvalidSelector) {
			t.Errorf("selector %d: expected ErrInvalidSelector, got %v", sel, err)
		}
		if _, err := TrueValue(sel, 0, 1); !errors.Is(err, ErrInvalidSelector) {
			t.Errorf("TrueValue selector %d: expected ErrInvalidSelector, got %v", sel, err)
		}
	}
}

func TestParseName(t *testing.T) {
	tests := map[string]Integrand{
		"1":      XSquared,
		"x^2":    XSquared,
		"sin":    Sine,
		"sin(x)": Sine,
		"EXP":    Exponential,
		"1/x":    ReciprocalX,
		"recip":  ReciprocalX,
		" x3 ":   XCubed,
	}
	for name, want := range tests {
		got, err := ParseName(name)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("%q: expected %s, got %s", name, want, got)
		}
	}

	if _, err := ParseName("tan"); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("expected ErrInvalidSelector for tan, got %v", err)
	}
}

func TestReciprocalDomain(t *testing.T) {
	if _, err := ReciprocalX.Evaluate(0); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain at x=0, got %v", err)
	}
	if _, err := ReciprocalX.TrueIntegral(0, 2); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain for [0, 2], got %v", err)
	}
	if _, err := ReciprocalX.TrueIntegral(-1, 1); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain for [-1, 1], got %v", err)
	}
	if err := ReciprocalX.CheckDomain(1, 2); err != nil {
		t.Errorf("unexpected error for [1, 2]: %v", err)
	}
	if err := Sine.CheckDomain(-1, 1); err != nil {
		t.Errorf("sine should accept any interval: %v", err)
	}
}

func TestEvaluateAll(t *testing.T) {
	xs := []float64{-2, 0, 1.5}
	ys, err := XCubed.EvaluateAll(xs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ys) != len(xs) {
		t.Fatalf("expected %d values, got %d", len(xs), len(ys))
	}
	for i, x := range xs {
		if ys[i] != x*x*x {
			t.Errorf("index %d: expected %f, got %f", i, x*x*x, ys[i])
		}
	}

	if _, err := ReciprocalX.EvaluateAll([]float64{1, 0.5, 0}); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain, got %v", err)
	}
}

func TestExhaustiveMetadata(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range All() {
		if f.Key() == "" || f.Formula() == "" || f.Antiderivative() == "" {
			t.Errorf("%d: missing display metadata", f.Selector())
		}
		if seen[f.Key()] {
			t.Errorf("duplicate key %s", f.Key())
		}
		seen[f.Key()] = true
		if _, err := f.Func(); err != nil {
			t.Errorf("%s: %v", f, err)
		}
	}

	var bogus Integrand = 9
	if bogus.Valid() || bogus.Key() != "" {
		t.Error("out-of-range integrand should be invalid")
	}
	if _, err := bogus.Evaluate(1); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("expected ErrInvalidSelector, got %v", err)
	}
}
