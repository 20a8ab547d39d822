package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Article struct {
	ID           string               `gorm:"primaryKey;size:36" json:"id"`
	Slug         string               `gorm:"size:200;uniqueIndex" json:"slug"`
	LanguageCode string               `gorm:"size:8;index" json:"languageCode"`
	Title        string               `gorm:"size:255" json:"title"`
	Summary      string               `gorm:"type:text" json:"summary"`
	Body         string               `gorm:"type:text" json:"body"`
	Keywords     datatypes.JSON       `json:"keywords,omitempty"`
	CoverURL     string               `gorm:"size:500" json:"coverUrl,omitempty"`
	Status       WorkflowStatus       `gorm:"size:20;default:'draft';index" json:"status"`
	PublishedAt  *time.Time           `json:"publishedAt,omitempty"`
	Translations []ArticleTranslation `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	Tags         []Tag                `gorm:"many2many:article_tags" json:"tags,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// HasLanguage reports whether the article is readable in code, either as its
// primary language or through a loaded translation.
func (a *Article) HasLanguage(code string) bool {
	if a.LanguageCode == code {
		return true
	}
	for _, t := range a.Translations {
		if t.LanguageCode == code {
			return true
		}
	}
	return false
}

// Localized returns the title and summary for code, falling back to the
// primary language.
func (a *Article) Localized(code string) (title, summary string) {
	for _, t := range a.Translations {
		if t.LanguageCode == code {
			return t.Title, t.Summary
		}
	}
	return a.Title, a.Summary
}

// ArticleTranslation is unique per (article, language).
type ArticleTranslation struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	ArticleID    string    `gorm:"size:36;not null;uniqueIndex:idx_article_translation_lang" json:"-"`
	LanguageCode string    `gorm:"size:8;not null;uniqueIndex:idx_article_translation_lang" json:"languageCode"`
	Title        string    `gorm:"size:255" json:"title"`
	Summary      string    `gorm:"type:text" json:"summary,omitempty"`
	Body         string    `gorm:"type:text" json:"body,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
