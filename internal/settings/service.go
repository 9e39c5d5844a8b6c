// Package settings is the key/value store for service-wide tunables, such as
// the max_card_count page ceiling.
package settings

import (
	"context"
	"strconv"

	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) All(ctx context.Context) (map[string]string, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to load settings", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Set upserts one setting. Numeric settings are validated as positive
// integers before they hit the store.
func (s *Service) Set(ctx context.Context, key, value string) error {
	switch key {
	case models.SettingMaxCardCount:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return apperr.Validation("max_card_count must be a positive integer")
		}
	default:
		return apperr.NotFound("unknown setting")
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&models.Setting{Key: key, Value: value}).Error
	if err != nil {
		return apperr.Internal("failed to save setting", err)
	}
	return nil
}
