package wqi

import (
	"testing"
)

func TestClassify_WPIBands(t *testing.T) {
	s, err := NewScorer(WPISpec())
	if err != nil {
		t.Fatalf("Expected valid WPI spec, got %v", err)
	}

	tests := []struct {
		name  string
		index float64
		want  string
	}{
		{"zero", 0, "Very good"},
		{"just below 0.25", 0.2499999, "Very good"},
		{"exactly 0.25", 0.25, "Good"},
		{"just below 0.5", 0.4999999, "Good"},
		{"exactly 0.5", 0.5, "Mild pollution"},
		{"just below 0.75", 0.7499999, "Mild pollution"},
		{"exactly 0.75", 0.75, "Heavy pollution"},
		{"one", 1.0, "Heavy pollution"},
		{"beyond range", 3.0, "Heavy pollution"},
		{"negative falls into lowest band", -0.1, "Very good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Classify(tt.index)
			if got.Label != tt.want {
				t.Errorf("Expected %q for index %v, got %q", tt.want, tt.index, got.Label)
			}
		})
	}
}

func TestClassify_WQIBands(t *testing.T) {
	s, err := NewScorer(WQISpec())
	if err != nil {
		t.Fatalf("Expected valid WQI spec, got %v", err)
	}

	tests := []struct {
		name  string
		index float64
		want  string
		level int
	}{
		{"above 100", 114.3, "Very good", 1},
		{"hundred", 100, "Very good", 1},
		{"exactly 80", 80, "Very good", 1},
		{"just below 80", 79.9999, "Good", 2},
		{"exactly 65", 65, "Good", 2},
		{"just below 65", 64.9999, "Mildly polluted", 3},
		{"exactly 45", 45, "Mildly polluted", 3},
		{"just below 45", 44.9999, "Moderately polluted", 4},
		{"exactly 25", 25, "Moderately polluted", 4},
		{"just below 25", 24.9999, "Heavily polluted", 5},
		{"zero", 0, "Heavily polluted", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Classify(tt.index)
			if got.Label != tt.want {
				t.Errorf("Expected %q for index %v, got %q", tt.want, tt.index, got.Label)
			}
			if got.Level != tt.level {
				t.Errorf("Expected level %d for index %v, got %d", tt.level, tt.index, got.Level)
			}
		})
	}
}

func TestClassify_UnsortedBands(t *testing.T) {
	c, err := newClassifier("test", []Band{
		{Level: 2, Label: "mid", Lower: 10},
		{Level: 3, Label: "high", Lower: 20},
		{Level: 1, Label: "low", Lower: 0},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := c.classify(15).Label; got != "mid" {
		t.Errorf("Expected 'mid', got '%s'", got)
	}
	if got := c.classify(20).Label; got != "high" {
		t.Errorf("Expected 'high', got '%s'", got)
	}
	if got := c.classify(-5).Label; got != "low" {
		t.Errorf("Expected 'low', got '%s'", got)
	}
}
