package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

func evaluate(t *testing.T, spec wqi.VariantSpec, m wqi.MeasurementSet) *wqi.Result {
	t.Helper()
	scorer, err := wqi.NewScorer(spec)
	if err != nil {
		t.Fatalf("Expected valid spec, got %v", err)
	}
	res, err := scorer.Evaluate(m)
	if err != nil {
		t.Fatalf("Expected evaluation to succeed, got %v", err)
	}
	return res
}

func TestNewEvaluation_WPI(t *testing.T) {
	spec := wqi.WPISpec()
	res := evaluate(t, spec, DefaultMeasurements(spec))

	eval := NewEvaluation(spec, res, SourceHTTP, "stm32_pre")

	if eval.Status != "Very good" {
		t.Errorf("Expected status 'Very good', got '%s'", eval.Status)
	}
	if eval.Color != "#2ECC71" {
		t.Errorf("Expected color #2ECC71, got %s", eval.Color)
	}
	if !eval.HigherIsWorse {
		t.Error("Expected WPI to be marked higher-is-worse")
	}
	if eval.DeviceID != "stm32_pre" || eval.Source != SourceHTTP {
		t.Errorf("Expected device/source to be carried over, got %s/%s", eval.DeviceID, eval.Source)
	}
	if len(eval.Parameters) != 6 {
		t.Fatalf("Expected 6 parameter rows, got %d", len(eval.Parameters))
	}
	if eval.Parameters[0].Name != "Total Dissolved Solids" {
		t.Errorf("Expected TDS long name, got '%s'", eval.Parameters[0].Name)
	}
	if len(eval.Radar.Axes) != 6 || len(eval.Radar.Scores) != 6 || len(eval.Radar.Weights) != 6 {
		t.Errorf("Expected 6 radar axes, scores and weights, got %d/%d/%d",
			len(eval.Radar.Axes), len(eval.Radar.Scores), len(eval.Radar.Weights))
	}
	if eval.Radar.Max != 1 {
		t.Errorf("Expected radar max 1, got %v", eval.Radar.Max)
	}
	if len(eval.Warnings) != 0 {
		t.Errorf("Expected no warnings for defaults, got %v", eval.Warnings)
	}
}

func TestNewEvaluation_WQIHasNoWeightSeries(t *testing.T) {
	spec := wqi.WQISpec()
	res := evaluate(t, spec, DefaultMeasurements(spec))

	eval := NewEvaluation(spec, res, SourceMQTT, "")

	if eval.Index != 100 {
		t.Errorf("Expected index 100 at ideal values, got %v", eval.Index)
	}
	if eval.Radar.Weights != nil {
		t.Errorf("Expected no weight series for mean aggregation, got %v", eval.Radar.Weights)
	}
	if eval.Radar.Max != 100 {
		t.Errorf("Expected radar max 100, got %v", eval.Radar.Max)
	}
}

func TestNewEvaluation_OutOfRangeWarning(t *testing.T) {
	spec := wqi.WPISpec()
	m := DefaultMeasurements(spec)
	m["pH"] = 15.2

	eval := NewEvaluation(spec, evaluate(t, spec, m), SourceCLI, "")

	if len(eval.Warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %v", eval.Warnings)
	}
	if !strings.HasPrefix(eval.Warnings[0], "pH value 15.20") {
		t.Errorf("Unexpected warning: %s", eval.Warnings[0])
	}
	if !eval.Parameters[1].OutOfRange {
		t.Error("Expected pH row to be flagged out of range")
	}
}

func TestNewVariantInfo(t *testing.T) {
	info := NewVariantInfo(wqi.WQISpec())

	if info.Aggregation != "mean" {
		t.Errorf("Expected aggregation 'mean', got '%s'", info.Aggregation)
	}
	if len(info.Bands) != 5 {
		t.Errorf("Expected 5 bands, got %d", len(info.Bands))
	}

	do := info.Parameters[1]
	if do.Key != "DO" || do.Rule.Type != "ideal" {
		t.Fatalf("Expected DO ideal rule, got %s %s", do.Key, do.Rule.Type)
	}
	if do.Rule.Params["max_deviation"] != 0 || do.Rule.Params["ideal"] != 7 {
		t.Errorf("Unexpected DO rule params: %v", do.Rule.Params)
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("Expected variant info to marshal, got %v", err)
	}
	if !strings.Contains(string(data), `"type":"ideal"`) {
		t.Errorf("Expected rule type in JSON, got %s", data)
	}
}

func TestDescribeRule(t *testing.T) {
	tests := []struct {
		name string
		rule wqi.Rule
		want string
	}{
		{"range", wqi.RangeRule{Low: 3, High: 12}, "range"},
		{"deviation", wqi.DeviationRule{Center: 7, Span: 2.5}, "deviation"},
		{"inverse", wqi.InverseRule{Divisor: 8}, "inverse"},
		{"ideal", wqi.IdealRule{Ideal: 1, MaxDeviation: 10}, "ideal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeRule(tt.rule).Type; got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestWaterClassReference(t *testing.T) {
	ref := WaterClassReference()

	if len(ref.Classes) != 3 {
		t.Errorf("Expected 3 classes, got %d", len(ref.Classes))
	}
	if len(ref.Rows) != 6 {
		t.Fatalf("Expected 6 rows, got %d", len(ref.Rows))
	}
	for _, row := range ref.Rows {
		if len(row.Limits) != len(ref.Classes) {
			t.Errorf("Expected %d limits for %s, got %d", len(ref.Classes), row.Parameter, len(row.Limits))
		}
	}
}
