package store

import (
	"sort"
	"sync"

	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

// key identifies the latest evaluation slot; DeviceID "" holds anonymous submissions
type key struct {
	variant  wqi.Variant
	deviceID string
}

// Store keeps the most recent evaluation per variant and device in memory.
// Saved evaluations are shared with readers and must not be modified afterwards.
type Store struct {
	mu     sync.RWMutex
	latest map[key]*models.Evaluation
	count  int // Evaluations saved since start
}

// NewStore creates a new in-memory store
func NewStore() *Store {
	return &Store{
		latest: make(map[key]*models.Evaluation),
	}
}

// SaveEvaluation replaces the latest evaluation for the evaluation's variant and device
func (s *Store) SaveEvaluation(eval *models.Evaluation) {
	if eval == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[key{variant: eval.Variant, deviceID: eval.DeviceID}] = eval
	s.count++
}

// GetLatestEvaluation returns the most recent evaluation for a variant and device
func (s *Store) GetLatestEvaluation(variant wqi.Variant, deviceID string) (*models.Evaluation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	eval, exists := s.latest[key{variant: variant, deviceID: deviceID}]
	if !exists {
		return nil, false
	}

	evalCopy := *eval
	return &evalCopy, true
}

// GetLatestEvaluations returns the latest evaluation of every device, sorted by
// variant then device. An empty variant matches all variants.
func (s *Store) GetLatestEvaluations(variant wqi.Variant) []models.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Evaluation, 0, len(s.latest))
	for k, eval := range s.latest {
		if variant != "" && k.variant != variant {
			continue
		}
		result = append(result, *eval)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Variant != result[j].Variant {
			return result[i].Variant < result[j].Variant
		}
		return result[i].DeviceID < result[j].DeviceID
	})
	return result
}

// GetActiveDevices returns the sorted IDs of devices that have reported
func (s *Store) GetActiveDevices() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	devices := []string{}
	for k := range s.latest {
		if k.deviceID != "" && !seen[k.deviceID] {
			seen[k.deviceID] = true
			devices = append(devices, k.deviceID)
		}
	}
	sort.Strings(devices)
	return devices
}

// GetEvaluationCount returns the number of evaluations saved since start
func (s *Store) GetEvaluationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.count
}
