package server

import (
	"time"

	"github.com/Kyz7/lingopress/internal/article"
	"github.com/Kyz7/lingopress/internal/health"
	"github.com/Kyz7/lingopress/internal/language"
	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/media"
	"github.com/Kyz7/lingopress/internal/middleware"
	"github.com/Kyz7/lingopress/internal/newsletter"
	"github.com/Kyz7/lingopress/internal/rbac"
	"github.com/Kyz7/lingopress/internal/sitemap"
	"github.com/Kyz7/lingopress/internal/tag"
	"github.com/Kyz7/lingopress/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRoutes(app *fiber.App, deps Deps) {
	db, cfg := deps.DB, deps.Config

	articles := article.NewService(db)
	subscribers := newsletter.NewService(db)

	healthHandler := health.NewHandler(db)
	sitemapHandler := sitemap.NewHandler(sitemap.NewGenerator(articles, cfg.SiteURL), articles, cfg.SitemapCodes())
	articleHandler := article.NewHandler(articles)
	tagHandler := tag.NewHandler(tag.NewService(db))
	languageHandler := language.NewHandler(language.NewService(db))
	newsletterHandler := newsletter.NewHandler(subscribers)
	workflowHandler := workflow.NewHandler(workflow.NewPublisher(db, deps.Notifier, subscribers, cfg.SiteURL))

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + rbac.HeaderName,
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS, PATCH",
		ExposeHeaders: fiber.HeaderContentLanguage + ", " + locale.DirectionHeader,
	}))
	app.Use(locale.Middleware())
	app.Use(middleware.ResolveRole(cfg.RoleResolver()))

	canWrite := middleware.Require("create or update content", rbac.CanCreateOrUpdate)
	canDelete := middleware.Require("delete content", rbac.CanDelete)
	canPublish := middleware.Require("publish content", rbac.CanPublish)

	// Probes and crawler surfaces
	app.Get("/api/health", healthHandler.Live)
	app.Get("/api/health/db", healthHandler.Ready)
	app.Get("/sitemap.xml", sitemapHandler.Index)
	app.Get("/sitemap-:lang.xml", sitemapHandler.Language)

	api := app.Group("/api")

	// ==========================================
	// ADMIN: languages, tags, media
	// ==========================================
	admin := api.Group("/admin")
	admin.Get("/languages", canWrite, languageHandler.List)
	admin.Patch("/languages/:code", canDelete, languageHandler.SetActive)

	admin.Get("/tags", canWrite, tagHandler.List)
	admin.Post("/tags", canWrite, tagHandler.Create)
	admin.Get("/tags/:id/translations", canWrite, tagHandler.Translations)
	admin.Post("/tags/:id/translations", canWrite, tagHandler.ReplaceTranslations)

	if deps.Storage != nil {
		mediaHandler := media.NewHandler(db, deps.Storage)
		admin.Get("/media", canWrite, mediaHandler.List)
		admin.Post("/media", canWrite, mediaHandler.Upload)
		admin.Delete("/media/:id", canDelete, mediaHandler.Delete)
	}

	// ==========================================
	// ARTICLES
	// ==========================================
	articleGroup := api.Group("/articles")
	articleGroup.Get("/", canWrite, articleHandler.List)
	articleGroup.Post("/", canWrite, articleHandler.Create)
	articleGroup.Get("/:id", canWrite, articleHandler.Get)
	articleGroup.Put("/:id", canWrite, articleHandler.Update)
	articleGroup.Delete("/:id", canDelete, articleHandler.Delete)
	articleGroup.Post("/:id/translations", canWrite, articleHandler.ReplaceTranslations)
	articleGroup.Post("/:id/publish", canPublish, workflowHandler.Publish)
	articleGroup.Get("/:id/history", canWrite, workflowHandler.History)

	// ==========================================
	// NEWSLETTER (public)
	// ==========================================
	nl := api.Group("/newsletter", newsletter.RateLimit(5, time.Minute))
	nl.Post("/subscribe", newsletterHandler.Subscribe)
	nl.Post("/unsubscribe", newsletterHandler.Unsubscribe)

	// ==========================================
	// PUBLIC SITE
	// ==========================================
	app.Get("/:lang/articles", sitemapHandler.Articles)
	app.Get("/", func(c *fiber.Ctx) error {
		c.Vary(fiber.HeaderAcceptLanguage)
		lang := locale.Negotiate(c.Get(fiber.HeaderAcceptLanguage))
		return c.Redirect("/"+string(lang), fiber.StatusFound)
	})
}
