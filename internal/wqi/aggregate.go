package wqi

import (
	"fmt"
	"math"
)

// Aggregation selects how per-parameter scores combine into one index
type Aggregation int

const (
	// WeightedSum computes Σ weight*score; weights must sum to 1
	WeightedSum Aggregation = iota
	// Mean computes the unweighted arithmetic mean
	Mean
)

// weightTolerance bounds the allowed drift of the weight sum from 1.0
const weightTolerance = 1e-9

func (a Aggregation) String() string {
	switch a {
	case WeightedSum:
		return "weighted_sum"
	case Mean:
		return "mean"
	default:
		return fmt.Sprintf("aggregation(%d)", int(a))
	}
}

// MarshalText renders the aggregation name for JSON and YAML output
func (a Aggregation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// aggregate combines scores in parameter order. Scores must hold every key of params.
func (a Aggregation) aggregate(params []ParameterSpec, scores ScoreSet) float64 {
	switch a {
	case WeightedSum:
		var sum float64
		for _, p := range params {
			sum += p.Weight * scores[p.Key]
		}
		return sum
	default:
		var sum float64
		for _, p := range params {
			sum += scores[p.Key]
		}
		return sum / float64(len(params))
	}
}

// validate checks weight invariants for the aggregation
func (a Aggregation) validate(variant Variant, params []ParameterSpec) error {
	switch a {
	case WeightedSum:
		var total float64
		for _, p := range params {
			if p.Weight < 0 || math.IsNaN(p.Weight) {
				return &ConfigurationError{Variant: variant, Parameter: p.Key, Reason: fmt.Sprintf("invalid weight %v", p.Weight)}
			}
			total += p.Weight
		}
		if math.Abs(total-1.0) > weightTolerance {
			return &ConfigurationError{Variant: variant, Reason: fmt.Sprintf("weights sum to %v, want 1.0", total)}
		}
	case Mean:
	default:
		return &ConfigurationError{Variant: variant, Reason: fmt.Sprintf("unsupported aggregation %s", a)}
	}
	return nil
}
