package mqtt

import (
	"errors"
	"testing"

	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	engine, err := wqi.DefaultEngine()
	if err != nil {
		t.Fatalf("Expected default engine, got %v", err)
	}
	return NewClient(DefaultConfig(), engine)
}

func TestVariantFromTopic(t *testing.T) {
	filter := "aquasmart/wqi/+/measurements"

	tests := []struct {
		name   string
		topic  string
		want   wqi.Variant
		wantOK bool
	}{
		{"wpi", "aquasmart/wqi/wpi/measurements", wqi.VariantWPI, true},
		{"upper case", "aquasmart/wqi/WQI/measurements", wqi.VariantWQI, true},
		{"wrong suffix", "aquasmart/wqi/wpi/results", "", false},
		{"too short", "aquasmart/wqi/measurements", "", false},
		{"empty segment", "aquasmart/wqi//measurements", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := VariantFromTopic(filter, tt.topic)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Expected (%q, %v), got (%q, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}

	if _, ok := VariantFromTopic("aquasmart/wqi/measurements", "aquasmart/wqi/measurements"); ok {
		t.Error("Expected filter without wildcard to yield no variant")
	}
}

func TestResultTopic(t *testing.T) {
	if got := ResultTopic("aquasmart/wqi/%s/results", wqi.VariantWQI); got != "aquasmart/wqi/wqi/results" {
		t.Errorf("Unexpected topic %s", got)
	}
	if got := ResultTopic("aquasmart/results/", wqi.VariantWPI); got != "aquasmart/results/wpi" {
		t.Errorf("Unexpected topic %s", got)
	}
}

func TestProcess_JSON(t *testing.T) {
	c := newTestClient(t)

	payload := []byte(`{"device_id":"stm32_pre","values":{"TDS":500,"pH":7,"DO":6,"BOD":5,"COD":15,"Nitrat":10}}`)
	eval, err := c.process("aquasmart/wqi/wpi/measurements", payload)
	if err != nil {
		t.Fatalf("Expected evaluation, got %v", err)
	}

	if eval.Source != models.SourceMQTT {
		t.Errorf("Expected source mqtt, got %s", eval.Source)
	}
	if eval.DeviceID != "stm32_pre" {
		t.Errorf("Expected device stm32_pre, got %s", eval.DeviceID)
	}
	if eval.Status != "Very good" {
		t.Errorf("Expected 'Very good', got '%s'", eval.Status)
	}
}

func TestProcess_TextFallback(t *testing.T) {
	c := newTestClient(t)

	payload := []byte("pH=7,DO=7,BOD=1,COD=10,TSS=10,Nitrat=0.5,Fosfat=0.1")
	eval, err := c.process("aquasmart/wqi/wqi/measurements", payload)
	if err != nil {
		t.Fatalf("Expected evaluation, got %v", err)
	}
	if eval.Index != 100 {
		t.Errorf("Expected index 100, got %v", eval.Index)
	}
}

func TestProcess_Errors(t *testing.T) {
	c := newTestClient(t)

	_, err := c.process("aquasmart/wqi/wpi/measurements", []byte(`{"TDS":500}`))
	var missing *wqi.MissingParameterError
	if !errors.As(err, &missing) {
		t.Errorf("Expected MissingParameterError, got %v", err)
	}

	_, err = c.process("aquasmart/wqi/ccme/measurements", []byte(`{"TDS":500}`))
	var unknown *wqi.UnknownVariantError
	if !errors.As(err, &unknown) {
		t.Errorf("Expected UnknownVariantError, got %v", err)
	}

	eval, err := c.process("aquasmart/wqi/wqi/measurements",
		[]byte(`{"pH":7,"DO":1.7e308,"BOD":1,"COD":10,"TSS":10,"Nitrat":0.5,"Fosfat":0.1}`))
	var overflow *wqi.ScoreRangeError
	if !errors.As(err, &overflow) || eval != nil {
		t.Errorf("Expected ScoreRangeError and no evaluation, got %v", err)
	}

	if _, err := c.process("other/topic", []byte(`{}`)); err == nil {
		t.Error("Expected error for topic without variant")
	}

	if _, err := c.process("aquasmart/wqi/wpi/measurements", []byte(`???`)); err == nil {
		t.Error("Expected parse error")
	}
}
