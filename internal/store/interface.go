package store

import (
	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

// DataStore defines the interface for evaluation storage operations
type DataStore interface {
	SaveEvaluation(*models.Evaluation)
	GetLatestEvaluation(variant wqi.Variant, deviceID string) (*models.Evaluation, bool)
	GetLatestEvaluations(variant wqi.Variant) []models.Evaluation
	GetActiveDevices() []string
	GetEvaluationCount() int
}
