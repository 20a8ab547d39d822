package server

import (
	"github.com/Kyz7/lingopress/internal/config"
	"github.com/Kyz7/lingopress/internal/notify"
	"github.com/Kyz7/lingopress/internal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps are the process-wide resources built once in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Storage  *utils.Storage
	Notifier notify.Notifier
}

func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    20 * 1024 * 1024,
		UnescapePath: true,
	})

	if deps.Storage != nil && deps.Storage.Mode() == "local" {
		app.Static("/uploads", deps.Storage.BaseDir(), fiber.Static{
			Compress:  true,
			ByteRange: true,
			Browse:    false,
			MaxAge:    3600,
		})
	}

	if deps.Notifier == nil {
		deps.Notifier = notify.Disabled{}
	}

	SetupRoutes(app, deps)

	return app
}
