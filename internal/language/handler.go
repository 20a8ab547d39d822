package language

import (
	"errors"
	"log"

	"github.com/Kyz7/lingopress/internal/response"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

// List handles GET /api/admin/languages.
func (h *Handler) List(c *fiber.Ctx) error {
	langs, err := h.svc.List(c.UserContext())
	if err != nil {
		log.Printf("❌ Failed to load languages: %v", err)
		return response.Unavailable(c, "Language catalog unavailable")
	}
	return c.JSON(fiber.Map{"languages": langs})
}

func (h *Handler) SetActive(c *fiber.Ctx) error {
	var body SetActiveRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.IsActive == nil {
		return response.ValidationError(c, map[string]string{
			"isActive": "isActive is required",
		})
	}

	lang, err := h.svc.SetActive(c.UserContext(), c.Params("code"), *body.IsActive)
	if errors.Is(err, ErrLanguageNotFound) {
		return response.NotFound(c, "Language")
	}
	if err != nil {
		log.Printf("❌ Failed to update language: %v", err)
		return response.InternalError(c, "Failed to update language")
	}
	return response.Success(c, lang, "Language updated")
}
