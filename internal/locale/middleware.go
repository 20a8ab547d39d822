package locale

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
)

const localsKey = "locale"

// DirectionHeader carries the text direction of the resolved language.
const DirectionHeader = "X-Content-Direction"

// Middleware resolves the language for every request path and exposes it to
// handlers through FromCtx.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := Resolve(c.Path())
		c.Locals(localsKey, res)
		c.Set(fiber.HeaderContentLanguage, string(res.Code))
		c.Set(DirectionHeader, string(res.Direction))
		return c.Next()
	}
}

// FromCtx returns the resolved language, resolving on the fly when the
// middleware did not run.
func FromCtx(c *fiber.Ctx) Result {
	if res, ok := c.Locals(localsKey).(Result); ok {
		return res
	}
	return Resolve(c.Path())
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(supported))
	for _, code := range supported {
		tags = append(tags, language.MustParse(string(code)))
	}
	return language.NewMatcher(tags)
}()

// Negotiate picks the best supported language for an Accept-Language header.
func Negotiate(acceptLanguage string) Code {
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	return supported[index]
}
