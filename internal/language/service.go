package language

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kyz7/lingopress/internal/models"

	"gorm.io/gorm"
)

var ErrLanguageNotFound = errors.New("language not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns every language ordered by English display name.
func (s *Service) List(ctx context.Context) ([]models.Language, error) {
	var langs []models.Language
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&langs).Error; err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return langs, nil
}

func (s *Service) SetActive(ctx context.Context, code string, active bool) (*models.Language, error) {
	db := s.db.WithContext(ctx)

	res := db.Model(&models.Language{}).Where("code = ?", code).Update("is_active", active)
	if res.Error != nil {
		return nil, fmt.Errorf("update language: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrLanguageNotFound
	}

	var lang models.Language
	if err := db.First(&lang, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &lang, nil
}
