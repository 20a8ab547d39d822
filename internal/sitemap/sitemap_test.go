package sitemap_test

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/sitemap"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	articles map[locale.Code][]sitemap.ArticleRef
	err      error
	panics   bool
}

func (f *fakeCatalog) PublishedArticles(ctx context.Context, lang locale.Code) ([]sitemap.ArticleRef, error) {
	if f.panics {
		panic("connection reset")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.articles[lang], nil
}

var (
	fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	updated  = time.Date(2024, 4, 20, 8, 30, 0, 0, time.UTC)
)

func newGenerator(cat sitemap.Catalog) *sitemap.Generator {
	return sitemap.NewGenerator(cat, "https://example.com/").WithClock(func() time.Time { return fixedNow })
}

func healthyCatalog() *fakeCatalog {
	return &fakeCatalog{articles: map[locale.Code][]sitemap.ArticleRef{
		locale.English: {{ID: "A1", Slug: "hello", Title: "Hello", UpdatedAt: updated}},
		locale.Arabic:  {{ID: "A1", Slug: "hello", Title: "مرحبا", UpdatedAt: updated}},
	}}
}

func TestStatic(t *testing.T) {
	entries := newGenerator(&fakeCatalog{err: errors.New("must not be called")}).Static(locale.English, locale.Arabic)
	require.Len(t, entries, 6)

	assert.Equal(t, sitemap.Entry{Loc: "https://example.com/en", LastMod: fixedNow, ChangeFreq: sitemap.Daily, Priority: 1.0}, entries[0])
	assert.Equal(t, "https://example.com/en/articles", entries[1].Loc)
	assert.Equal(t, 0.9, entries[1].Priority)
	assert.Equal(t, "https://example.com/en/newsletter", entries[2].Loc)
	assert.Equal(t, sitemap.Monthly, entries[2].ChangeFreq)
	assert.Equal(t, "https://example.com/ar", entries[3].Loc)
}

func TestForLanguage(t *testing.T) {
	t.Run("Success - Static pages followed by articles", func(t *testing.T) {
		entries, err := newGenerator(healthyCatalog()).ForLanguage(context.Background(), locale.English)
		require.NoError(t, err)
		require.Len(t, entries, 4)

		article := entries[3]
		assert.Equal(t, "https://example.com/en/articles/hello", article.Loc)
		assert.Equal(t, updated, article.LastMod)
		assert.Equal(t, sitemap.Weekly, article.ChangeFreq)
		assert.Equal(t, 0.7, article.Priority)
	})

	t.Run("Error - Catalog failure keeps static pages only", func(t *testing.T) {
		entries, err := newGenerator(&fakeCatalog{err: errors.New("db down")}).ForLanguage(context.Background(), locale.English)
		assert.ErrorIs(t, err, sitemap.ErrCatalogUnavailable)
		require.Len(t, entries, 3)
		for _, e := range entries {
			assert.NotContains(t, e.Loc, "/articles/")
		}
	})

	t.Run("Error - Catalog panic is contained", func(t *testing.T) {
		entries, err := newGenerator(&fakeCatalog{panics: true}).ForLanguage(context.Background(), locale.German)
		assert.ErrorIs(t, err, sitemap.ErrCatalogUnavailable)
		assert.Len(t, entries, 3)
	})
}

func TestAll(t *testing.T) {
	t.Run("Success - Every language plus articles", func(t *testing.T) {
		entries, err := newGenerator(healthyCatalog()).All(context.Background())
		require.NoError(t, err)
		assert.Len(t, entries, len(locale.Supported())*3+2)
	})

	t.Run("Error - Degrades to static pages", func(t *testing.T) {
		entries, err := newGenerator(&fakeCatalog{err: errors.New("db down")}).All(context.Background())
		assert.ErrorIs(t, err, sitemap.ErrCatalogUnavailable)
		assert.Len(t, entries, len(locale.Supported())*3)
	})
}

type parsedSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	} `xml:"url"`
}

func TestRender(t *testing.T) {
	body, err := sitemap.Render([]sitemap.Entry{
		{Loc: "https://example.com/en", LastMod: fixedNow, ChangeFreq: sitemap.Daily, Priority: 1},
	})
	require.NoError(t, err)

	out := string(body)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)

	var set parsedSet
	require.NoError(t, xml.Unmarshal(body, &set))
	require.Len(t, set.URLs, 1)
	assert.Equal(t, "2024-05-01T12:00:00Z", set.URLs[0].LastMod)
	assert.Equal(t, "daily", set.URLs[0].ChangeFreq)
	assert.Equal(t, "1.0", set.URLs[0].Priority)
}

func setupApp(cat sitemap.Catalog) *fiber.App {
	app := fiber.New()
	app.Use(locale.Middleware())
	h := sitemap.NewHandler(newGenerator(cat), cat, []locale.Code{locale.English, locale.Arabic})
	app.Get("/sitemap.xml", h.Index)
	app.Get("/sitemap-:lang.xml", h.Language)
	app.Get("/:lang/articles", h.Articles)
	return app
}

func get(t *testing.T, app *fiber.App, url string) (int, string, map[string]string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), map[string]string{
		"Content-Type":  resp.Header.Get("Content-Type"),
		"Cache-Control": resp.Header.Get("Cache-Control"),
	}
}

func TestHandler(t *testing.T) {
	t.Run("Success - Aggregate sitemap", func(t *testing.T) {
		status, body, headers := get(t, setupApp(healthyCatalog()), "/sitemap.xml")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "application/xml; charset=utf-8", headers["Content-Type"])
		assert.Equal(t, "public, max-age=1800, s-maxage=1800", headers["Cache-Control"])
		assert.Contains(t, body, "https://example.com/hi/newsletter")
		assert.Contains(t, body, "https://example.com/ar/articles/hello")
	})

	t.Run("Success - Aggregate sitemap survives catalog outage", func(t *testing.T) {
		status, body, _ := get(t, setupApp(&fakeCatalog{err: errors.New("db down")}), "/sitemap.xml")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, body, "https://example.com/en/articles</loc>")
		assert.NotContains(t, body, "/articles/")
	})

	t.Run("Success - Language sitemap", func(t *testing.T) {
		status, body, headers := get(t, setupApp(healthyCatalog()), "/sitemap-en.xml")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "public, max-age=1800, s-maxage=1800", headers["Cache-Control"])
		assert.Contains(t, body, "https://example.com/en/articles/hello")
		assert.NotContains(t, body, "https://example.com/ar")
	})

	t.Run("Error - Language sitemap outside the configured subset", func(t *testing.T) {
		status, _, _ := get(t, setupApp(healthyCatalog()), "/sitemap-de.xml")
		assert.Equal(t, fiber.StatusNotFound, status)
	})

	t.Run("Error - Language sitemap with catalog outage", func(t *testing.T) {
		status, body, _ := get(t, setupApp(&fakeCatalog{err: errors.New("db down")}), "/sitemap-en.xml")
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, "Error generating sitemap", body)
	})

	t.Run("Success - Localized article listing", func(t *testing.T) {
		status, body, _ := get(t, setupApp(healthyCatalog()), "/ar/articles")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, body, `"language":"ar"`)
		assert.Contains(t, body, `"direction":"rtl"`)
		assert.Contains(t, body, "مرحبا")
	})

	t.Run("Error - Unknown language prefix", func(t *testing.T) {
		status, _, _ := get(t, setupApp(healthyCatalog()), "/xx/articles")
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}
