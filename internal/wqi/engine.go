// Package wqi computes water pollution and water quality indices from raw
// water-quality measurements.
//
// A Scorer runs one variant: normalize each parameter, aggregate the scores,
// classify the index into a severity band. Scorers and the Engine are
// immutable after construction and safe for concurrent use.
package wqi

import (
	"fmt"
	"math"
	"sort"
)

// MeasurementSet maps parameter keys to raw measured values
type MeasurementSet map[string]float64

// ScoreSet maps parameter keys to normalized scores
type ScoreSet map[string]float64

// ParameterScore is the per-parameter breakdown of an evaluation
type ParameterScore struct {
	Key          string  `json:"key"`
	Unit         string  `json:"unit"`
	Raw          float64 `json:"raw"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight,omitempty"`
	Contribution float64 `json:"contribution"`
}

// Result is the outcome of one evaluation
type Result struct {
	Variant   Variant          `json:"variant"`
	Index     float64          `json:"index"`
	Band      Band             `json:"band"`
	Scores    ScoreSet         `json:"scores"`
	Breakdown []ParameterScore `json:"breakdown"`
}

// Scorer evaluates measurements for a single validated variant
type Scorer struct {
	spec       VariantSpec
	classifier classifier
	keys       map[string]struct{}
	order      []string
}

// NewScorer validates spec and returns a scorer for it
func NewScorer(spec VariantSpec) (*Scorer, error) {
	if spec.Variant == "" {
		return nil, &ConfigurationError{Reason: "variant name is empty"}
	}
	if len(spec.Parameters) == 0 {
		return nil, &ConfigurationError{Variant: spec.Variant, Reason: "no parameters"}
	}

	params := make([]ParameterSpec, len(spec.Parameters))
	copy(params, spec.Parameters)

	keys := make(map[string]struct{}, len(params))
	for _, p := range params {
		if p.Key == "" {
			return nil, &ConfigurationError{Variant: spec.Variant, Reason: "parameter with empty key"}
		}
		if _, dup := keys[p.Key]; dup {
			return nil, &ConfigurationError{Variant: spec.Variant, Parameter: p.Key, Reason: "duplicate parameter"}
		}
		if p.Rule == nil {
			return nil, &ConfigurationError{Variant: spec.Variant, Parameter: p.Key, Reason: "no normalization rule"}
		}
		if err := p.Rule.Validate(); err != nil {
			return nil, &ConfigurationError{Variant: spec.Variant, Parameter: p.Key, Reason: err.Error()}
		}
		keys[p.Key] = struct{}{}
	}

	if err := spec.Aggregation.validate(spec.Variant, params); err != nil {
		return nil, err
	}

	cls, err := newClassifier(spec.Variant, spec.Bands)
	if err != nil {
		return nil, err
	}

	spec.Parameters = params
	spec.Bands = append([]Band(nil), spec.Bands...)

	return &Scorer{spec: spec, classifier: cls, keys: keys, order: spec.Keys()}, nil
}

// Variant returns the scorer's variant tag
func (s *Scorer) Variant() Variant {
	return s.spec.Variant
}

// Spec returns a copy of the scorer's configuration
func (s *Scorer) Spec() VariantSpec {
	spec := s.spec
	spec.Parameters = append([]ParameterSpec(nil), s.spec.Parameters...)
	spec.Bands = append([]Band(nil), s.spec.Bands...)
	return spec
}

// Classify maps an index to its band
func (s *Scorer) Classify(index float64) Band {
	return s.classifier.classify(index)
}

// Evaluate scores a measurement set. The set must contain exactly the
// variant's parameter keys with finite values; nothing is scored otherwise.
// A value whose score or index leaves the float64 range is a ScoreRangeError.
func (s *Scorer) Evaluate(m MeasurementSet) (*Result, error) {
	if err := s.check(m); err != nil {
		return nil, err
	}

	scores := make(ScoreSet, len(s.spec.Parameters))
	for _, p := range s.spec.Parameters {
		score := p.Normalize(m[p.Key])
		if !isFinite(score) {
			return nil, &ScoreRangeError{Variant: s.spec.Variant, Parameter: p.Key, Value: m[p.Key]}
		}
		scores[p.Key] = score
	}

	index := s.spec.Aggregation.aggregate(s.spec.Parameters, scores)
	if !isFinite(index) {
		return nil, &ScoreRangeError{Variant: s.spec.Variant}
	}

	breakdown := make([]ParameterScore, len(s.spec.Parameters))
	for i, p := range s.spec.Parameters {
		ps := ParameterScore{
			Key:   p.Key,
			Unit:  p.Unit,
			Raw:   m[p.Key],
			Score: scores[p.Key],
		}
		if s.spec.Aggregation == WeightedSum {
			ps.Weight = p.Weight
			ps.Contribution = p.Weight * ps.Score
		} else {
			ps.Contribution = ps.Score / float64(len(s.spec.Parameters))
		}
		breakdown[i] = ps
	}

	return &Result{
		Variant:   s.spec.Variant,
		Index:     index,
		Band:      s.classifier.classify(index),
		Scores:    scores,
		Breakdown: breakdown,
	}, nil
}

// check rejects missing keys, then unknown keys, then non-finite values
func (s *Scorer) check(m MeasurementSet) error {
	var missing []string
	for _, k := range s.order {
		if _, ok := m[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingParameterError{Variant: s.spec.Variant, Keys: missing}
	}

	var unknown []string
	for k := range m {
		if _, ok := s.keys[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &UnknownParameterError{Variant: s.spec.Variant, Keys: unknown}
	}

	for _, k := range s.order {
		if v := m[k]; !isFinite(v) {
			return &InvalidValueError{Variant: s.spec.Variant, Parameter: k, Value: v}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Engine dispatches evaluations to the scorer registered for a variant
type Engine struct {
	scorers map[Variant]*Scorer
	order   []Variant
}

// NewEngine registers scorers in the given order; a later scorer replaces an
// earlier one for the same variant. Nil scorers are skipped.
func NewEngine(scorers ...*Scorer) *Engine {
	e := &Engine{scorers: make(map[Variant]*Scorer, len(scorers))}
	for _, s := range scorers {
		if s == nil {
			continue
		}
		if _, exists := e.scorers[s.Variant()]; !exists {
			e.order = append(e.order, s.Variant())
		}
		e.scorers[s.Variant()] = s
	}
	return e
}

// DefaultEngine builds an engine with the WPI and WQI variants
func DefaultEngine() (*Engine, error) {
	var scorers []*Scorer
	for _, spec := range []VariantSpec{WPISpec(), WQISpec()} {
		s, err := NewScorer(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to configure %s: %w", spec.Variant, err)
		}
		scorers = append(scorers, s)
	}
	return NewEngine(scorers...), nil
}

// Variants returns registered variants in registration order
func (e *Engine) Variants() []Variant {
	return append([]Variant(nil), e.order...)
}

// Scorer returns the scorer for a variant
func (e *Engine) Scorer(v Variant) (*Scorer, error) {
	s, ok := e.scorers[v]
	if !ok {
		return nil, &UnknownVariantError{Variant: v}
	}
	return s, nil
}

// Evaluate scores a measurement set with the given variant
func (e *Engine) Evaluate(v Variant, m MeasurementSet) (*Result, error) {
	s, err := e.Scorer(v)
	if err != nil {
		return nil, err
	}
	return s.Evaluate(m)
}
