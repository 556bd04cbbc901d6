package services

import (
	"errors"
	"strings"
	"time"

	"backend/config"
	"backend/models"
)

var ErrFoodNameRequired = errors.New("food name is required")

// LogStore persists and lists nutrition logs.
type LogStore interface {
	Create(entry *models.NutritionLog) error
	List() ([]models.NutritionLog, error)
}

type LogService struct{}

func NewLogService() *LogService {
	return &LogService{}
}

func (s *LogService) Create(entry *models.NutritionLog) error {
	if strings.TrimSpace(entry.FoodName) == "" {
		return ErrFoodNameRequired
	}
	stampEntry(entry)
	return config.DB.Create(entry).Error
}

func (s *LogService) List() ([]models.NutritionLog, error) {
	var logs []models.NutritionLog
	err := config.DB.Order("timestamp DESC").Find(&logs).Error
	return logs, err
}

// stampEntry fills the creation time if absent; either way the stored
// timestamp has whole-second precision.
func stampEntry(entry *models.NutritionLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.Truncate(time.Second)
}
