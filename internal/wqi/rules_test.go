package wqi

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeRule(t *testing.T) {
	r := RangeRule{Low: 400, High: 1000}

	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"below low clamps to zero", 0, 0},
		{"at low", 400, 0},
		{"midway", 700, 0.5},
		{"at high", 1000, 1},
		{"above high clamps to one", 5000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.Score(tt.raw), 1e-12)
		})
	}
}

func TestDeviationRule(t *testing.T) {
	r := DeviationRule{Center: 7.0, Span: 2.5}

	assert.Equal(t, 0.0, r.Score(7.0))
	assert.InDelta(t, 0.4, r.Score(8.0), 1e-12)
	assert.InDelta(t, 0.4, r.Score(6.0), 1e-12)
	assert.Equal(t, 1.0, r.Score(9.5))
	assert.Equal(t, 1.0, r.Score(0))
	assert.Equal(t, 1.0, r.Score(14))
}

func TestInverseRule(t *testing.T) {
	r := InverseRule{Divisor: 8.0}

	assert.Equal(t, 1.0, r.Score(0))
	assert.Equal(t, 1.0, r.Score(-3))
	assert.InDelta(t, 0.25, r.Score(6.0), 1e-12)
	assert.Equal(t, 0.0, r.Score(8.0))
	assert.Equal(t, 0.0, r.Score(15.0))
}

func TestIdealRule(t *testing.T) {
	ph := IdealRule{Ideal: 7.0, MaxDeviation: 9.0}

	assert.Equal(t, 100.0, ph.Score(7.0))
	assert.InDelta(t, 50.0, ph.Score(8.0), 1e-12)
	assert.InDelta(t, 50.0, ph.Score(6.0), 1e-12)
	assert.InDelta(t, 0.0, ph.Score(9.0), 1e-12)
	assert.Equal(t, 0.0, ph.Score(14.0), "floored at zero")
}

// DO has its tolerance bound below the ideal value, so the deviation term
// is added: every deviation from 7.0 raises the score above 100.
func TestIdealRule_NegativeDenominator(t *testing.T) {
	do := IdealRule{Ideal: 7.0, MaxDeviation: 0.0}

	assert.Equal(t, 100.0, do.Score(7.0))
	assert.InDelta(t, 200.0, do.Score(0.0), 1e-12)
	assert.InDelta(t, 200.0, do.Score(14.0), 1e-12)
	assert.InDelta(t, 150.0, do.Score(3.5), 1e-12)
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"range ok", RangeRule{Low: 3, High: 12}, false},
		{"range equal bounds", RangeRule{Low: 5, High: 5}, true},
		{"deviation ok", DeviationRule{Center: 7, Span: 2.5}, false},
		{"deviation zero span", DeviationRule{Center: 7}, true},
		{"inverse ok", InverseRule{Divisor: 8}, false},
		{"inverse zero divisor", InverseRule{}, true},
		{"ideal ok", IdealRule{Ideal: 1, MaxDeviation: 10}, false},
		{"ideal below max ok", IdealRule{Ideal: 7, MaxDeviation: 0}, false},
		{"ideal equals max", IdealRule{Ideal: 3, MaxDeviation: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalize_StaysInDeclaredRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	samples := []float64{0, -1, 1e9, -1e9, math.MaxFloat64 / 2, -math.MaxFloat64 / 2}
	for i := 0; i < 500; i++ {
		samples = append(samples, (rng.Float64()-0.5)*4000)
	}

	for _, p := range WPISpec().Parameters {
		for _, v := range samples {
			s := p.Normalize(v)
			if s < 0 || s > 1 {
				t.Fatalf("%s: score %v for raw %v outside [0,1]", p.Key, s, v)
			}
		}
	}

	for _, p := range WQISpec().Parameters {
		rule := p.Rule.(IdealRule)
		for _, v := range samples {
			s := p.Normalize(v)
			if s < 0 {
				t.Fatalf("%s: score %v for raw %v below 0", p.Key, s, v)
			}
			if rule.MaxDeviation > rule.Ideal && s > 100 {
				t.Fatalf("%s: score %v for raw %v above 100", p.Key, s, v)
			}
		}
	}
}
