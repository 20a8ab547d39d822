package database

import (
	"errors"

	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gorm.io/gorm"
)

// SeedLanguages makes sure every supported language has a row. Existing rows
// are left alone so admins can keep their activation choices.
func SeedLanguages(db *gorm.DB) error {
	englishNames := display.English.Languages()

	for _, code := range locale.Supported() {
		var existing models.Language
		err := db.Where("code = ?", string(code)).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		tag := language.MustParse(string(code))
		lang := models.Language{
			Code:       string(code),
			Name:       englishNames.Name(tag),
			NativeName: display.Self.Name(tag),
			Direction:  string(locale.DirectionOf(code)),
			IsActive:   true,
		}
		if err := db.Create(&lang).Error; err != nil {
			return err
		}
	}
	return nil
}
