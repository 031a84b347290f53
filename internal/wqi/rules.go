package wqi

import (
	"fmt"
	"math"
)

// Rule maps one raw measurement to a unit-less score.
// Score must be total over finite input; rules clamp instead of failing.
type Rule interface {
	Score(raw float64) float64
	Validate() error
}

// RangeRule scores linearly from Low (0) to High (1), clamped to [0,1]
type RangeRule struct {
	Low  float64
	High float64
}

func (r RangeRule) Score(raw float64) float64 {
	return clamp((raw-r.Low)/(r.High-r.Low), 0, 1)
}

func (r RangeRule) Validate() error {
	if r.High == r.Low {
		return fmt.Errorf("range bounds are equal (%v)", r.Low)
	}
	return nil
}

// DeviationRule scores the absolute distance from Center relative to Span, clamped to [0,1]
type DeviationRule struct {
	Center float64
	Span   float64
}

func (r DeviationRule) Score(raw float64) float64 {
	return clamp(math.Abs(raw-r.Center)/r.Span, 0, 1)
}

func (r DeviationRule) Validate() error {
	if r.Span == 0 {
		return fmt.Errorf("deviation span is zero")
	}
	return nil
}

// InverseRule scores 1 at zero and falls to 0 at Divisor and above
type InverseRule struct {
	Divisor float64
}

func (r InverseRule) Score(raw float64) float64 {
	return 1 - clamp(raw/r.Divisor, 0, 1)
}

func (r InverseRule) Validate() error {
	if r.Divisor == 0 {
		return fmt.Errorf("inverse divisor is zero")
	}
	return nil
}

// IdealRule scores 100 at Ideal, decreasing by the deviation relative to
// (MaxDeviation - Ideal) and floored at 0.
//
// When MaxDeviation is below Ideal the denominator is negative and the
// deviation term is added instead of subtracted. The result is then not
// capped at 100.
type IdealRule struct {
	Ideal        float64
	MaxDeviation float64
}

func (r IdealRule) Score(raw float64) float64 {
	return math.Max(0, 100-math.Abs(raw-r.Ideal)/(r.MaxDeviation-r.Ideal)*100)
}

func (r IdealRule) Validate() error {
	if r.MaxDeviation == r.Ideal {
		return fmt.Errorf("max deviation equals ideal value (%v)", r.Ideal)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
