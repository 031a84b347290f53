package models

import (
	"fmt"

	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

// RuleInfo describes a normalization rule for API clients
type RuleInfo struct {
	Type   string             `json:"type"`
	Params map[string]float64 `json:"params"`
}

// ParameterInfo is a parameter spec with its rule made visible
type ParameterInfo struct {
	wqi.ParameterSpec
	Rule RuleInfo `json:"rule"`
}

// VariantInfo describes a scoring variant so a form and legend can be built from it
type VariantInfo struct {
	Variant       wqi.Variant     `json:"variant"`
	Title         string          `json:"title"`
	Aggregation   string          `json:"aggregation"`
	ScoreMin      float64         `json:"score_min"`
	ScoreMax      float64         `json:"score_max"`
	HigherIsWorse bool            `json:"higher_is_worse"`
	Parameters    []ParameterInfo `json:"parameters"`
	Bands         []wqi.Band      `json:"bands"`
}

// NewVariantInfo converts a variant spec into its API description
func NewVariantInfo(spec wqi.VariantSpec) VariantInfo {
	info := VariantInfo{
		Variant:       spec.Variant,
		Title:         spec.Title,
		Aggregation:   spec.Aggregation.String(),
		ScoreMin:      spec.ScoreMin,
		ScoreMax:      spec.ScoreMax,
		HigherIsWorse: spec.HigherIsWorse,
		Bands:         spec.Bands,
	}
	for _, p := range spec.Parameters {
		info.Parameters = append(info.Parameters, ParameterInfo{ParameterSpec: p, Rule: DescribeRule(p.Rule)})
	}
	return info
}

// DescribeRule returns the rule kind and its constants
func DescribeRule(r wqi.Rule) RuleInfo {
	switch rule := r.(type) {
	case wqi.RangeRule:
		return RuleInfo{Type: "range", Params: map[string]float64{"low": rule.Low, "high": rule.High}}
	case wqi.DeviationRule:
		return RuleInfo{Type: "deviation", Params: map[string]float64{"center": rule.Center, "span": rule.Span}}
	case wqi.InverseRule:
		return RuleInfo{Type: "inverse", Params: map[string]float64{"divisor": rule.Divisor}}
	case wqi.IdealRule:
		return RuleInfo{Type: "ideal", Params: map[string]float64{"ideal": rule.Ideal, "max_deviation": rule.MaxDeviation}}
	default:
		return RuleInfo{Type: fmt.Sprintf("%T", r)}
	}
}

// DefaultMeasurements returns the form defaults of a variant
func DefaultMeasurements(spec wqi.VariantSpec) wqi.MeasurementSet {
	m := make(wqi.MeasurementSet, len(spec.Parameters))
	for _, p := range spec.Parameters {
		m[p.Key] = p.InputDefault
	}
	return m
}

func formatRangeWarning(p wqi.ParameterSpec, value float64) string {
	return fmt.Sprintf("%s value %.2f outside expected input range [%g, %g]", p.Key, value, p.InputMin, p.InputMax)
}
