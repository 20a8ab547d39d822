package newsletter

import (
	"errors"
	"log"
	"time"

	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type SubscribeRequest struct {
	Email        string `json:"email"`
	LanguageCode string `json:"languageCode"`
}

// RateLimit throttles public subscription endpoints per client IP.
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, try again later", nil)
		},
	})
}

func (h *Handler) Subscribe(c *fiber.Ctx) error {
	var body SubscribeRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	lang, ok := locale.Parse(body.LanguageCode)
	if !ok {
		lang = locale.Negotiate(c.Get(fiber.HeaderAcceptLanguage))
	}

	sub, err := h.svc.Subscribe(c.UserContext(), body.Email, lang)
	if errors.Is(err, ErrInvalidEmail) {
		return response.ValidationError(c, map[string]string{"email": "a valid email address is required"})
	}
	if err != nil {
		log.Printf("❌ Failed to subscribe: %v", err)
		return response.InternalError(c, "Failed to subscribe")
	}
	return response.Created(c, sub, "Subscribed successfully")
}

func (h *Handler) Unsubscribe(c *fiber.Ctx) error {
	var body SubscribeRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	err := h.svc.Unsubscribe(c.UserContext(), body.Email)
	switch {
	case errors.Is(err, ErrInvalidEmail):
		return response.ValidationError(c, map[string]string{"email": "a valid email address is required"})
	case errors.Is(err, ErrSubscriberNotFound):
		return response.NotFound(c, "Subscriber")
	case err != nil:
		log.Printf("❌ Failed to unsubscribe: %v", err)
		return response.InternalError(c, "Failed to unsubscribe")
	}
	return response.Success(c, nil, "Unsubscribed successfully")
}
