package store

import (
	"sync"
	"testing"

	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

func evaluation(variant wqi.Variant, deviceID string, index float64) *models.Evaluation {
	return &models.Evaluation{Variant: variant, DeviceID: deviceID, Index: index}
}

func TestStore_SaveAndGetLatest(t *testing.T) {
	store := NewStore()

	// Initially nothing is stored
	if _, exists := store.GetLatestEvaluation(wqi.VariantWPI, "stm32_pre"); exists {
		t.Error("Expected no evaluation initially")
	}

	store.SaveEvaluation(evaluation(wqi.VariantWPI, "stm32_pre", 0.4))
	store.SaveEvaluation(evaluation(wqi.VariantWPI, "stm32_pre", 0.2))

	eval, exists := store.GetLatestEvaluation(wqi.VariantWPI, "stm32_pre")
	if !exists {
		t.Fatal("Expected evaluation to exist")
	}
	if eval.Index != 0.2 {
		t.Errorf("Expected latest index 0.2, got %v", eval.Index)
	}
	if store.GetEvaluationCount() != 2 {
		t.Errorf("Expected count 2, got %d", store.GetEvaluationCount())
	}

	// Same device under another variant is a separate slot
	if _, exists := store.GetLatestEvaluation(wqi.VariantWQI, "stm32_pre"); exists {
		t.Error("Expected no WQI evaluation for device")
	}
}

func TestStore_GetLatestReturnsCopy(t *testing.T) {
	store := NewStore()
	store.SaveEvaluation(evaluation(wqi.VariantWQI, "", 90))

	eval, _ := store.GetLatestEvaluation(wqi.VariantWQI, "")
	eval.Index = 0

	again, _ := store.GetLatestEvaluation(wqi.VariantWQI, "")
	if again.Index != 90 {
		t.Errorf("Expected stored index to stay 90, got %v", again.Index)
	}
}

func TestStore_GetLatestEvaluations(t *testing.T) {
	store := NewStore()
	store.SaveEvaluation(evaluation(wqi.VariantWQI, "b", 70))
	store.SaveEvaluation(evaluation(wqi.VariantWPI, "b", 0.3))
	store.SaveEvaluation(evaluation(wqi.VariantWPI, "a", 0.1))
	store.SaveEvaluation(nil)

	all := store.GetLatestEvaluations("")
	if len(all) != 3 {
		t.Fatalf("Expected 3 evaluations, got %d", len(all))
	}
	if all[0].Variant != wqi.VariantWPI || all[0].DeviceID != "a" {
		t.Errorf("Expected wpi/a first, got %s/%s", all[0].Variant, all[0].DeviceID)
	}
	if all[2].Variant != wqi.VariantWQI {
		t.Errorf("Expected wqi last, got %s", all[2].Variant)
	}

	if wpi := store.GetLatestEvaluations(wqi.VariantWPI); len(wpi) != 2 {
		t.Errorf("Expected 2 WPI evaluations, got %d", len(wpi))
	}
}

func TestStore_GetActiveDevices(t *testing.T) {
	store := NewStore()

	if devices := store.GetActiveDevices(); len(devices) != 0 {
		t.Errorf("Expected no devices, got %v", devices)
	}

	store.SaveEvaluation(evaluation(wqi.VariantWPI, "stm32_post", 0.1))
	store.SaveEvaluation(evaluation(wqi.VariantWQI, "stm32_post", 90))
	store.SaveEvaluation(evaluation(wqi.VariantWPI, "stm32_pre", 0.5))
	store.SaveEvaluation(evaluation(wqi.VariantWPI, "", 0.5))

	devices := store.GetActiveDevices()
	if len(devices) != 2 || devices[0] != "stm32_post" || devices[1] != "stm32_pre" {
		t.Errorf("Expected [stm32_post stm32_pre], got %v", devices)
	}
}

func TestStore_Concurrent(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.SaveEvaluation(evaluation(wqi.VariantWPI, "dev", float64(i)))
		}(i)
		go func() {
			defer wg.Done()
			store.GetLatestEvaluations("")
		}()
	}
	wg.Wait()

	if store.GetEvaluationCount() != 50 {
		t.Errorf("Expected 50 evaluations, got %d", store.GetEvaluationCount())
	}
}
