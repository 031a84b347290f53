package models

import (
	"time"

	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

// Evaluation sources
const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"
	SourceCLI  = "cli"
)

// EvaluationRequest is the body accepted by the evaluate and report endpoints
type EvaluationRequest struct {
	DeviceID string             `json:"device_id,omitempty" yaml:"device_id,omitempty"`
	Values   wqi.MeasurementSet `json:"values" yaml:"values"`
}

// ParameterResult is one row of the parameter detail table
type ParameterResult struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Value        float64 `json:"value"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight,omitempty"`
	Contribution float64 `json:"contribution"`
	OutOfRange   bool    `json:"out_of_range,omitempty"`
}

// RadarSeries holds the values a spider chart plots, one axis per parameter
type RadarSeries struct {
	Axes    []string  `json:"axes"`
	Scores  []float64 `json:"scores"`
	Weights []float64 `json:"weights,omitempty"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
}

// Evaluation is an index result prepared for display and broadcast
type Evaluation struct {
	Variant       wqi.Variant       `json:"variant"`
	Title         string            `json:"title"`
	DeviceID      string            `json:"device_id,omitempty"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	Index         float64           `json:"index"`
	Status        string            `json:"status"`
	Level         int               `json:"level"`
	Color         string            `json:"color"`
	HigherIsWorse bool              `json:"higher_is_worse"`
	Parameters    []ParameterResult `json:"parameters"`
	Radar         RadarSeries       `json:"radar"`
	Warnings      []string          `json:"warnings,omitempty"`
}

// NewEvaluation builds the display view of a result. spec must be the
// configuration of the variant that produced res.
func NewEvaluation(spec wqi.VariantSpec, res *wqi.Result, source, deviceID string) *Evaluation {
	eval := &Evaluation{
		Variant:       res.Variant,
		Title:         spec.Title,
		DeviceID:      deviceID,
		Source:        source,
		Timestamp:     time.Now(),
		Index:         res.Index,
		Status:        res.Band.Label,
		Level:         res.Band.Level,
		Color:         res.Band.Color,
		HigherIsWorse: spec.HigherIsWorse,
		Parameters:    make([]ParameterResult, 0, len(res.Breakdown)),
		Radar: RadarSeries{
			Min: spec.ScoreMin,
			Max: spec.ScoreMax,
		},
	}

	params := make(map[string]wqi.ParameterSpec, len(spec.Parameters))
	for _, p := range spec.Parameters {
		params[p.Key] = p
	}

	weighted := spec.Aggregation == wqi.WeightedSum
	for _, b := range res.Breakdown {
		p := params[b.Key]
		outOfRange := b.Raw < p.InputMin || b.Raw > p.InputMax
		if outOfRange {
			eval.Warnings = append(eval.Warnings, formatRangeWarning(p, b.Raw))
		}

		eval.Parameters = append(eval.Parameters, ParameterResult{
			Key:          b.Key,
			Name:         p.Name,
			Unit:         b.Unit,
			Value:        b.Raw,
			Score:        b.Score,
			Weight:       b.Weight,
			Contribution: b.Contribution,
			OutOfRange:   outOfRange,
		})

		eval.Radar.Axes = append(eval.Radar.Axes, b.Key)
		eval.Radar.Scores = append(eval.Radar.Scores, b.Score)
		if weighted {
			eval.Radar.Weights = append(eval.Radar.Weights, b.Weight)
		}
	}

	return eval
}
