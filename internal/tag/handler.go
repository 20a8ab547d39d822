package tag

import (
	"errors"
	"log"
	"strings"

	"github.com/Kyz7/lingopress/internal/response"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type CreateTagRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type ReplaceTranslationsRequest struct {
	Translations []TranslationInput `json:"translations"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body CreateTagRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Slug == "" || body.Name == "" {
		return response.ValidationError(c, map[string]string{
			"slug": "slug is required",
			"name": "name is required",
		})
	}

	t, err := h.svc.Create(c.UserContext(), strings.ToLower(body.Slug), body.Name)
	if errors.Is(err, ErrSlugTaken) {
		return response.Conflict(c, err.Error())
	}
	if err != nil {
		log.Printf("❌ Failed to create tag: %v", err)
		return response.InternalError(c, "Failed to create tag")
	}
	return response.Created(c, t, "Tag created successfully")
}

func (h *Handler) List(c *fiber.Ctx) error {
	tags, err := h.svc.List(c.UserContext())
	if err != nil {
		log.Printf("❌ Failed to list tags: %v", err)
		return response.Unavailable(c, "Tags are temporarily unavailable")
	}
	return response.Success(c, tags, "")
}

func (h *Handler) Translations(c *fiber.Ctx) error {
	rows, err := h.svc.Translations(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrTagNotFound) {
		return response.NotFound(c, "Tag")
	}
	if err != nil {
		return response.InternalError(c, "Failed to load translations")
	}
	return c.JSON(fiber.Map{"translations": rows})
}

// ReplaceTranslations handles POST /api/admin/tags/:id/translations.
func (h *Handler) ReplaceTranslations(c *fiber.Ctx) error {
	var body ReplaceTranslationsRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Translations == nil {
		return response.BadRequest(c, "translations is required", nil)
	}

	err := h.svc.ReplaceTranslations(c.UserContext(), c.Params("id"), body.Translations)
	switch {
	case errors.Is(err, ErrInvalidTranslation):
		return response.BadRequest(c, err.Error(), nil)
	case errors.Is(err, ErrTagNotFound):
		return response.NotFound(c, "Tag")
	case err != nil:
		log.Printf("❌ Failed to replace tag translations: %v", err)
		return response.InternalError(c, "Failed to replace translations")
	}
	return c.JSON(fiber.Map{"success": true})
}
