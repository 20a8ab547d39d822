// Package health exposes liveness and readiness probes.
package health

import (
	"context"
	"log"
	"time"

	"github.com/Kyz7/lingopress/internal/database"
	"github.com/Kyz7/lingopress/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// Live always answers 200 OK, even when something inside it panics.
func (h *Handler) Live(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  Health check recovered: %v", r)
			c.Set(fiber.HeaderCacheControl, "no-cache")
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			err = c.Status(fiber.StatusOK).SendString("OK")
		}
	}()

	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString("OK")
}

// Ready checks that a pooled connection can reach the database.
func (h *Handler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		log.Printf("❌ Database readiness check failed: %v", err)
		return response.Unavailable(c, "Database unavailable")
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "up"})
}
