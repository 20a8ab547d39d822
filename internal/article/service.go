// Package article stores articles and their translations and serves as the
// published-content catalog for sitemaps and listings.
package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/models"
	"github.com/Kyz7/lingopress/internal/sitemap"
	"github.com/Kyz7/lingopress/internal/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("article not found")
	ErrInvalidInput       = errors.New("invalid article")
	ErrInvalidTranslation = errors.New("invalid translation")
	ErrSlugTaken          = errors.New("slug already in use")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Input struct {
	Slug         string   `json:"slug"`
	LanguageCode string   `json:"languageCode"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Body         string   `json:"body"`
	Keywords     []string `json:"keywords"`
	CoverURL     string   `json:"coverUrl"`
	TagIDs       []string `json:"tagIds"`
}

// Validate returns field errors keyed by JSON name, or nil.
func (in *Input) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "title is required"
	}
	if in.Slug == "" {
		in.Slug = Slugify(in.Title)
	}
	if !slugPattern.MatchString(in.Slug) {
		errs["slug"] = "slug must be lowercase letters, numbers and hyphens"
	}
	if in.LanguageCode == "" {
		in.LanguageCode = string(locale.Default)
	}
	if code, ok := locale.Parse(in.LanguageCode); ok {
		in.LanguageCode = string(code)
	} else {
		errs["languageCode"] = "unsupported language"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type TranslationInput struct {
	LanguageCode string `json:"languageCode"`
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	Body         string `json:"body"`
}

type Filter struct {
	Status string
	Lang   string
	Query  string
	Page   int
	Limit  int
}

func (f *Filter) normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// Slugify lowercases s and joins its ASCII letter and digit runs with
// hyphens. Titles without any ASCII alphanumerics produce an empty slug.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return b.String()
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Article, error) {
	db := s.db.WithContext(ctx)

	if err := s.checkSlug(db, in.Slug, ""); err != nil {
		return nil, err
	}
	tags, err := s.loadTags(db, in.TagIDs)
	if err != nil {
		return nil, err
	}

	a := models.Article{
		Slug:         in.Slug,
		LanguageCode: in.LanguageCode,
		Title:        utils.SanitizeText(in.Title),
		Summary:      utils.SanitizeText(in.Summary),
		Body:         utils.SanitizeHTML(in.Body),
		Keywords:     keywordsJSON(in.Keywords),
		CoverURL:     in.CoverURL,
		Status:       models.StatusDraft,
		Tags:         tags,
	}
	if err := db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return s.Get(ctx, a.ID)
}

// Update replaces the editable fields. Status only changes through the
// publication workflow.
func (s *Service) Update(ctx context.Context, id string, in Input) (*models.Article, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Article
		if err := tx.First(&a, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if err := s.checkSlug(tx, in.Slug, id); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"slug":          in.Slug,
			"language_code": in.LanguageCode,
			"title":         utils.SanitizeText(in.Title),
			"summary":       utils.SanitizeText(in.Summary),
			"body":          utils.SanitizeHTML(in.Body),
			"keywords":      keywordsJSON(in.Keywords),
			"cover_url":     in.CoverURL,
		}
		if err := tx.Model(&a).Updates(updates).Error; err != nil {
			return fmt.Errorf("update article: %w", err)
		}

		if in.TagIDs != nil {
			tags, err := s.loadTags(tx, in.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&a).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("replace article tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Article{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Article, error) {
	var a models.Article
	err := s.db.WithContext(ctx).
		Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("language_code") }).
		Preload("Tags").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// List returns one page of articles matching f and the total match count.
func (s *Service) List(ctx context.Context, f Filter) ([]models.Article, int64, error) {
	f.normalize()

	q := s.db.WithContext(ctx).Model(&models.Article{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Lang != "" {
		q = q.Where("language_code = ? OR id IN (?)", f.Lang, s.translatedInto(f.Lang))
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ?", like, like)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	var articles []models.Article
	err := q.Preload("Translations").Preload("Tags").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return articles, total, nil
}

// ReplaceTranslations swaps the whole translation set of an article in one
// transaction, so readers never observe a partial or empty set.
func (s *Service) ReplaceTranslations(ctx context.Context, id string, in []TranslationInput) ([]models.ArticleTranslation, error) {
	rows := make([]models.ArticleTranslation, 0, len(in))
	seen := map[string]bool{}
	for _, t := range in {
		code, ok := locale.Parse(t.LanguageCode)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported language %q", ErrInvalidTranslation, t.LanguageCode)
		}
		if seen[string(code)] {
			return nil, fmt.Errorf("%w: duplicate language %q", ErrInvalidTranslation, code)
		}
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("%w: title is required for %q", ErrInvalidTranslation, code)
		}
		seen[string(code)] = true
		rows = append(rows, models.ArticleTranslation{
			ArticleID:    id,
			LanguageCode: string(code),
			Title:        utils.SanitizeText(t.Title),
			Summary:      utils.SanitizeText(t.Summary),
			Body:         utils.SanitizeHTML(t.Body),
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Article
		if err := tx.Select("id").First(&a, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleTranslation{}).Error; err != nil {
			return fmt.Errorf("delete translations: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert translations: %w", err)
		}
		// Touch the article so sitemap lastmod reflects the new translations.
		return tx.Model(&a).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PublishedArticles implements sitemap.Catalog.
func (s *Service) PublishedArticles(ctx context.Context, lang locale.Code) ([]sitemap.ArticleRef, error) {
	var articles []models.Article
	err := s.db.WithContext(ctx).
		Preload("Translations", "language_code = ?", string(lang)).
		Where("status = ?", models.StatusPublished).
		Where("language_code = ? OR id IN (?)", string(lang), s.translatedInto(string(lang))).
		Order("published_at DESC").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("published articles for %s: %w", lang, err)
	}

	refs := make([]sitemap.ArticleRef, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		title, summary := a.Localized(string(lang))
		refs = append(refs, sitemap.ArticleRef{
			ID:          a.ID,
			Slug:        a.Slug,
			Title:       title,
			Summary:     summary,
			PublishedAt: a.PublishedAt,
			UpdatedAt:   a.UpdatedAt,
		})
	}
	return refs, nil
}

func (s *Service) translatedInto(lang string) *gorm.DB {
	return s.db.Model(&models.ArticleTranslation{}).Select("article_id").Where("language_code = ?", lang)
}

func (s *Service) checkSlug(db *gorm.DB, slug, exceptID string) error {
	q := db.Unscoped().Model(&models.Article{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func (s *Service) loadTags(db *gorm.DB, ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(uniq(ids)) {
		return nil, fmt.Errorf("%w: unknown tag", ErrInvalidInput)
	}
	return tags, nil
}

func keywordsJSON(keywords []string) datatypes.JSON {
	if len(keywords) == 0 {
		return nil
	}
	b, _ := json.Marshal(keywords)
	return datatypes.JSON(b)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func uniq(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
