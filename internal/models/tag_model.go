package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID           string           `gorm:"primaryKey;size:36" json:"id"`
	Slug         string           `gorm:"size:100;uniqueIndex" json:"slug"`
	Name         string           `gorm:"size:100" json:"name"`
	Translations []TagTranslation `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TagTranslation is unique per (tag, language).
type TagTranslation struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	TagID        string    `gorm:"size:36;not null;uniqueIndex:idx_tag_translation_lang" json:"-"`
	LanguageCode string    `gorm:"size:8;not null;uniqueIndex:idx_tag_translation_lang" json:"languageCode"`
	Name         string    `gorm:"size:100" json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}
