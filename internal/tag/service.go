package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/models"
	"github.com/Kyz7/lingopress/internal/utils"

	"gorm.io/gorm"
)

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrInvalidTranslation = errors.New("invalid translation")
	ErrSlugTaken          = errors.New("slug already in use")
)

type TranslationInput struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, slug, name string) (*models.Tag, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Tag{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	t := models.Tag{Slug: slug, Name: utils.SanitizeText(name)}
	if err := db.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

func (s *Service) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("language_code") }).
		Order("name").
		Find(&tags).Error
	return tags, err
}

func (s *Service) Translations(ctx context.Context, id string) ([]models.TagTranslation, error) {
	db := s.db.WithContext(ctx)
	if err := s.exists(db, id); err != nil {
		return nil, err
	}

	var rows []models.TagTranslation
	err := db.Where("tag_id = ?", id).Order("language_code").Find(&rows).Error
	return rows, err
}

// ReplaceTranslations deletes every translation of the tag and inserts the
// given set in one transaction. Replaying the same payload leaves the same
// rows behind.
func (s *Service) ReplaceTranslations(ctx context.Context, id string, in []TranslationInput) error {
	rows, err := buildRows(id, in)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.exists(tx, id); err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", id).Delete(&models.TagTranslation{}).Error; err != nil {
			return fmt.Errorf("delete tag translations: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert tag translations: %w", err)
		}
		return nil
	})
}

func buildRows(id string, in []TranslationInput) ([]models.TagTranslation, error) {
	rows := make([]models.TagTranslation, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		code, ok := locale.Parse(t.LanguageCode)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported language %q", ErrInvalidTranslation, t.LanguageCode)
		}
		if seen[string(code)] {
			return nil, fmt.Errorf("%w: duplicate language %q", ErrInvalidTranslation, code)
		}
		name := utils.SanitizeText(t.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required for %q", ErrInvalidTranslation, code)
		}
		seen[string(code)] = true
		rows = append(rows, models.TagTranslation{
			TagID:        id,
			LanguageCode: string(code),
			Name:         strings.TrimSpace(name),
		})
	}
	return rows, nil
}

func (s *Service) exists(db *gorm.DB, id string) error {
	var t models.Tag
	err := db.Select("id").First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTagNotFound
	}
	return err
}
