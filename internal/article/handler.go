package article

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

type ReplaceTranslationsRequest struct {
	Translations []TranslationInput `json:"translations"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body Input
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := body.Validate(); errs != nil {
		return response.ValidationError(c, errs)
	}

	a, err := h.svc.Create(c.UserContext(), body)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Created(c, a, "Article created successfully")
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	var body Input
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := body.Validate(); errs != nil {
		return response.ValidationError(c, errs)
	}

	a, err := h.svc.Update(c.UserContext(), id, body)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, a, "Article updated successfully")
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return response.NoContent(c)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	a, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, a, "")
}

func (h *Handler) List(c *fiber.Ctx) error {
	f := Filter{
		Status: c.Query("status"),
		Lang:   c.Query("lang"),
		Query:  c.Query("q"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	}
	articles, total, err := h.svc.List(c.UserContext(), f)
	if err != nil {
		return h.fail(c, err)
	}
	f.normalize()
	return response.SuccessWithMeta(c, articles, response.CalculateMeta(f.Page, f.Limit, total), "")
}

func (h *Handler) ReplaceTranslations(c *fiber.Ctx) error {
	var body ReplaceTranslationsRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Translations == nil {
		return response.BadRequest(c, "translations is required", nil)
	}

	rows, err := h.svc.ReplaceTranslations(c.UserContext(), c.Params("id"), body.Translations)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, rows, "Translations replaced")
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return response.NotFound(c, "Article")
	case errors.Is(err, ErrSlugTaken):
		return response.Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidTranslation), errors.Is(err, ErrInvalidInput):
		return response.BadRequest(c, err.Error(), nil)
	default:
		log.Printf("❌ Article operation failed: %v", err)
		return response.InternalError(c, "Failed to process article")
	}
}
