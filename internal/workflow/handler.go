package workflow

import (
	"errors"
	"log"

	"github.com/Kyz7/lingopress/internal/middleware"
	"github.com/Kyz7/lingopress/internal/response"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	publisher *Publisher
}

func NewHandler(publisher *Publisher) *Handler {
	return &Handler{publisher: publisher}
}

// Publish handles POST /api/articles/:id/publish. The route is gated by
// rbac.CanPublish before this runs.
func (h *Handler) Publish(c *fiber.Ctx) error {
	res, err := h.publisher.Publish(c.UserContext(), c.Params("id"), middleware.RoleFromCtx(c))
	switch {
	case errors.Is(err, ErrMissingID):
		return response.BadRequest(c, "Article ID is required", nil)
	case errors.Is(err, ErrArticleNotFound):
		return response.NotFound(c, "Article")
	case err != nil:
		log.Printf("❌ Publish failed: %v", err)
		return response.InternalError(c, "Failed to publish article")
	}

	message := "Article published successfully"
	if res.AlreadyPublished {
		message = "Article is already published"
	}
	return c.JSON(fiber.Map{
		"success":     res.Success,
		"message":     message,
		"article":     res.Article,
		"emailResult": res.Email,
	})
}

func (h *Handler) History(c *fiber.Ctx) error {
	history, err := h.publisher.History(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrArticleNotFound) {
		return response.NotFound(c, "Article")
	}
	if err != nil {
		return response.InternalError(c, "Failed to load history")
	}
	return response.Success(c, history, "")
}
