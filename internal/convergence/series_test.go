package convergence

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quadlab/internal/catalog"
	"github.com/san-kum/quadlab/internal/quad"
)

var _ = Describe("Sweep", func() {
	ctx := context.Background()

	It("covers every count from 2 to maxN in ascending order", func() {
		s, err := Sweep(ctx, 0, 1, catalog.XSquared, DefaultMaxIntervals)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Points).To(HaveLen(DefaultMaxIntervals - MinIntervals + 1))

		for i, p := range s.Points {
			Expect(p.N).To(Equal(MinIntervals + i))
		}
		Expect(s.TrueValue).To(BeNumerically("~", 1.0/3.0, 1e-15))
	})

	It("threads one true value through every point", func() {
		s, err := Sweep(ctx, 0, math.Pi, catalog.Sine, 12)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range s.Points {
			Expect(p.MidpointError).To(Equal(quad.AbsoluteError(s.TrueValue, p.Midpoint)))
			Expect(p.TrapezoidError).To(Equal(quad.AbsoluteError(s.TrueValue, p.Trapezoid)))
		}
	})

	It("matches a sequential evaluation regardless of worker count", func() {
		serial, err := Sweep(ctx, 0, 1, catalog.Exponential, 40, WithWorkers(1))
		Expect(err).NotTo(HaveOccurred())
		parallel, err := Sweep(ctx, 0, 1, catalog.Exponential, 40, WithWorkers(8), WithMinChunk(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(parallel.Points).To(Equal(serial.Points))
	})

	It("shows second-order decay for smooth integrands", func() {
		s, err := Sweep(ctx, 0, 1, catalog.Exponential, 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Monotone(quad.MethodMidpoint)).To(BeTrue())
		Expect(s.Monotone(quad.MethodTrapezoid)).To(BeTrue())
		Expect(s.ObservedOrder(quad.MethodMidpoint)).To(BeNumerically("~", 2.0, 0.05))
		Expect(s.ObservedOrder(quad.MethodTrapezoid)).To(BeNumerically("~", 2.0, 0.05))
	})

	It("treats a zero maximum as the default sweep", func() {
		s, err := Sweep(ctx, 0, 1, catalog.XSquared, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Points).To(HaveLen(DefaultMaxIntervals - MinIntervals + 1))
		Expect(s.Points[len(s.Points)-1].N).To(Equal(DefaultMaxIntervals))
	})

	DescribeTable("rejects a maximum below the first count",
		func(maxN int) {
			_, err := Sweep(ctx, 0, 1, catalog.XSquared, maxN)
			Expect(err).To(MatchError(quad.ErrInvalidSubintervalCount))
		},
		Entry("one", 1),
		Entry("negative", -5),
	)

	It("rejects inverted bounds before evaluating anything", func() {
		_, err := Sweep(ctx, 5, 1, catalog.XSquared, 20)
		Expect(err).To(MatchError(quad.ErrInvalidBounds))
	})

	It("rejects 1/x over an interval containing zero", func() {
		_, err := Sweep(ctx, 0, 2, catalog.ReciprocalX, 20)
		Expect(err).To(MatchError(catalog.ErrDomain))
	})

	It("stops on a canceled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Sweep(cctx, 0, 1, catalog.XSquared, 20)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Compare", func() {
	ctx := context.Background()

	It("uses the default counts when none are given", func() {
		s, err := Compare(ctx, 0, math.Pi, catalog.Sine, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Counts()).To(Equal(DefaultCounts))
	})

	It("sorts and deduplicates counts", func() {
		s, err := Compare(ctx, 1, 2, catalog.ReciprocalX, []int{100, 10, 100, 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Counts()).To(Equal([]int{1, 10, 100}))
		Expect(s.TrueValue).To(BeNumerically("~", math.Ln2, 1e-15))
	})

	It("shows strictly decreasing error for sine over [0, pi]", func() {
		s, err := Compare(ctx, 0, math.Pi, catalog.Sine, DefaultCounts)
		Expect(err).NotTo(HaveOccurred())
		for _, rule := range []string{quad.MethodMidpoint, quad.MethodTrapezoid} {
			errs := s.Errors(rule)
			for i := 1; i < len(errs); i++ {
				Expect(errs[i]).To(BeNumerically("<", errs[i-1]))
			}
		}
	})

	It("rejects non-positive counts", func() {
		_, err := Compare(ctx, 0, 1, catalog.XSquared, []int{10, 0})
		Expect(err).To(MatchError(quad.ErrInvalidSubintervalCount))
	})
})

var _ = Describe("Series analysis", func() {
	s := &Series{
		Points: []Point{
			{N: 2, MidpointError: 1e-2, TrapezoidError: 2e-2},
			{N: 4, MidpointError: 1e-4, TrapezoidError: 2e-6},
			{N: 8, MidpointError: 1e-6, TrapezoidError: 3e-6},
		},
	}

	It("finds the first count under a threshold", func() {
		n, ok := s.FirstBelow(quad.MethodMidpoint, DefaultThreshold)
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(8))

		n, ok = s.FirstBelow(quad.MethodTrapezoid, DefaultThreshold)
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(4))

		_, ok = s.FirstBelow(quad.MethodMidpoint, 1e-9)
		Expect(ok).To(BeFalse())
	})

	It("detects a non-monotone history", func() {
		Expect(s.Monotone(quad.MethodMidpoint)).To(BeTrue())
		Expect(s.Monotone(quad.MethodTrapezoid)).To(BeFalse())
	})

	It("returns NaN for an unknown rule", func() {
		Expect(math.IsNaN(s.ObservedOrder("simpson"))).To(BeTrue())
		Expect(math.IsNaN(s.Points[0].Error("simpson"))).To(BeTrue())
	})
})
