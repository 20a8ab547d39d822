// Package sitemap enumerates the crawlable surfaces of the site per language
// and renders them in the sitemaps.org format.
package sitemap

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Kyz7/lingopress/internal/locale"
)

const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

var ErrCatalogUnavailable = errors.New("content catalog unavailable")

type ChangeFreq string

const (
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
)

// Entry is one surface. Entries are built per request and never cached.
type Entry struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq ChangeFreq
	Priority   float64
}

// ArticleRef is a published article as seen from one language.
type ArticleRef struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Catalog lists published articles whose primary language or translations
// include lang.
type Catalog interface {
	PublishedArticles(ctx context.Context, lang locale.Code) ([]ArticleRef, error)
}

type Generator struct {
	catalog Catalog
	siteURL string
	now     func() time.Time
}

func NewGenerator(catalog Catalog, siteURL string) *Generator {
	return &Generator{
		catalog: catalog,
		siteURL: strings.TrimRight(siteURL, "/"),
		now:     time.Now,
	}
}

type staticPage struct {
	path       string
	changeFreq ChangeFreq
	priority   float64
}

var staticPages = []staticPage{
	{"", Daily, 1.0},
	{"/articles", Daily, 0.9},
	{"/newsletter", Monthly, 0.5},
}

// Static returns home, listing and newsletter entries for each language.
// It never touches the catalog.
func (g *Generator) Static(langs ...locale.Code) []Entry {
	now := g.now()
	entries := make([]Entry, 0, len(langs)*len(staticPages))
	for _, lang := range langs {
		for _, p := range staticPages {
			entries = append(entries, Entry{
				Loc:        g.siteURL + "/" + string(lang) + p.path,
				LastMod:    now,
				ChangeFreq: p.changeFreq,
				Priority:   p.priority,
			})
		}
	}
	return entries
}

// ForLanguage returns the static entries of lang followed by one entry per
// published article readable in lang. When the catalog fails the static
// entries are still returned together with an error wrapping
// ErrCatalogUnavailable.
func (g *Generator) ForLanguage(ctx context.Context, lang locale.Code) ([]Entry, error) {
	entries := g.Static(lang)

	articles, err := g.articles(ctx, lang)
	if err != nil {
		return entries, err
	}
	return append(entries, articles...), nil
}

// All returns the static entries of every supported language followed by
// whatever article entries could be loaded. Languages whose catalog query
// failed contribute no articles; their errors are joined.
func (g *Generator) All(ctx context.Context) ([]Entry, error) {
	langs := locale.Supported()
	entries := g.Static(langs...)

	var errs []error
	for _, lang := range langs {
		articles, err := g.articles(ctx, lang)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, articles...)
	}
	return entries, errors.Join(errs...)
}

func (g *Generator) articles(ctx context.Context, lang locale.Code) (entries []Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entries = nil
			err = fmt.Errorf("%w: %s: %v", ErrCatalogUnavailable, lang, r)
		}
	}()

	refs, err := g.catalog.PublishedArticles(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCatalogUnavailable, lang, err)
	}

	entries = make([]Entry, 0, len(refs))
	for _, ref := range refs {
		entries = append(entries, Entry{
			Loc:        g.siteURL + "/" + string(lang) + "/articles/" + ref.Slug,
			LastMod:    ref.UpdatedAt,
			ChangeFreq: Weekly,
			Priority:   0.7,
		})
	}
	return entries, nil
}

type urlEntry struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Render serializes entries into a UTF-8 sitemap document.
func Render(entries []Entry) ([]byte, error) {
	set := urlSet{XMLNS: XMLNamespace, URLs: make([]urlEntry, 0, len(entries))}
	for _, e := range entries {
		u := urlEntry{
			Loc:        e.Loc,
			ChangeFreq: e.ChangeFreq,
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
		if !e.LastMod.IsZero() {
			u.LastMod = e.LastMod.UTC().Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, u)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
