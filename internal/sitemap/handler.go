package sitemap

import (
	"log"

	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/response"

	"github.com/gofiber/fiber/v2"
)

const cacheControl = "public, max-age=1800, s-maxage=1800"

type Handler struct {
	gen     *Generator
	catalog Catalog
	langs   []locale.Code
}

// NewHandler serves per-language sitemaps only for langs.
func NewHandler(gen *Generator, catalog Catalog, langs []locale.Code) *Handler {
	return &Handler{gen: gen, catalog: catalog, langs: langs}
}

// Index serves the aggregate sitemap. A catalog outage degrades it to the
// static pages; crawlers still get a 200.
func (h *Handler) Index(c *fiber.Ctx) error {
	entries, err := h.gen.All(c.UserContext())
	if err != nil {
		log.Printf("⚠️  Sitemap served without articles: %v", err)
	}
	return h.send(c, entries)
}

// Language serves /sitemap-:lang.xml.
func (h *Handler) Language(c *fiber.Ctx) error {
	lang, ok := locale.Parse(c.Params("lang"))
	if !ok || !h.enabled(lang) {
		return c.Status(fiber.StatusNotFound).SendString("Sitemap not found")
	}

	entries, err := h.gen.ForLanguage(c.UserContext(), lang)
	if err != nil {
		log.Printf("❌ Sitemap for %s failed: %v", lang, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error generating sitemap")
	}
	return h.send(c, entries)
}

// Articles lists published articles for the language prefix of the path.
func (h *Handler) Articles(c *fiber.Ctx) error {
	if !locale.IsSupported(locale.Code(c.Params("lang"))) {
		return c.Next()
	}
	res := locale.FromCtx(c)

	articles, err := h.catalog.PublishedArticles(c.UserContext(), res.Code)
	if err != nil {
		log.Printf("❌ Article listing for %s failed: %v", res.Code, err)
		return response.Unavailable(c, "Articles are temporarily unavailable")
	}
	if articles == nil {
		articles = []ArticleRef{}
	}

	return c.JSON(fiber.Map{
		"language":  res.Code,
		"direction": res.Direction,
		"articles":  articles,
	})
}

func (h *Handler) enabled(lang locale.Code) bool {
	for _, l := range h.langs {
		if l == lang {
			return true
		}
	}
	return false
}

func (h *Handler) send(c *fiber.Ctx, entries []Entry) error {
	body, err := Render(entries)
	if err != nil {
		log.Printf("❌ Sitemap render failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error generating sitemap")
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, cacheControl)
	return c.Send(body)
}
