// Package workflow moves articles from draft to published and announces the
// publication to subscribers.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Kyz7/lingopress/internal/models"
	"github.com/Kyz7/lingopress/internal/notify"
	"github.com/Kyz7/lingopress/internal/rbac"

	"gorm.io/gorm"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrMissingID       = errors.New("article id is required")
)

// Recipients supplies the addresses to notify after a publication.
type Recipients interface {
	ActiveEmails(ctx context.Context) ([]string, error)
}

// Result reports the durable transition and the notification separately. A
// failed notification after a successful publish is still a success.
type Result struct {
	Success          bool            `json:"success"`
	Article          *models.Article `json:"article"`
	AlreadyPublished bool            `json:"alreadyPublished"`
	Email            notify.Result   `json:"emailResult"`
}

type Publisher struct {
	db         *gorm.DB
	notifier   notify.Notifier
	recipients Recipients
	siteURL    string
}

func NewPublisher(db *gorm.DB, notifier notify.Notifier, recipients Recipients, siteURL string) *Publisher {
	return &Publisher{
		db:         db,
		notifier:   notifier,
		recipients: recipients,
		siteURL:    strings.TrimRight(siteURL, "/"),
	}
}

// Publish commits draft -> published and only then notifies subscribers.
// Publishing an already published article is a no-op success and sends
// nothing. The caller is responsible for the publish permission check.
func (p *Publisher) Publish(ctx context.Context, id string, by rbac.Role) (*Result, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingID
	}

	var article models.Article
	transitioned := false

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Article{}).
			Where("id = ? AND status = ?", id, models.StatusDraft).
			Updates(map[string]interface{}{
				"status":       models.StatusPublished,
				"published_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("publish article: %w", res.Error)
		}
		transitioned = res.RowsAffected == 1

		if transitioned {
			history := models.WorkflowHistory{
				ArticleID:  id,
				FromStatus: models.StatusDraft,
				ToStatus:   models.StatusPublished,
				Role:       string(by),
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("record workflow history: %w", err)
			}
		}

		err := tx.Preload("Translations").First(&article, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Success: true, Article: &article, AlreadyPublished: !transitioned}
	if !transitioned {
		result.Email = notify.Skip("article was already published")
		return result, nil
	}

	result.Email = p.announce(ctx, &article)
	return result, nil
}

func (p *Publisher) announce(ctx context.Context, a *models.Article) (res notify.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Notification for article %s panicked: %v", a.ID, r)
			res = notify.Result{Error: fmt.Sprintf("notification failed: %v", r)}
		}
	}()

	recipients, err := p.recipients.ActiveEmails(ctx)
	if err != nil {
		log.Printf("⚠️  Could not load subscribers for article %s: %v", a.ID, err)
		return notify.Result{Error: "load subscribers: " + err.Error()}
	}

	res = p.notifier.NotifyPublished(ctx, notify.Message{
		ArticleID:    a.ID,
		LanguageCode: a.LanguageCode,
		Title:        a.Title,
		Summary:      a.Summary,
		URL:          p.siteURL + "/" + a.LanguageCode + "/articles/" + a.Slug,
	}, recipients)
	if !res.Success && !res.Skipped {
		log.Printf("⚠️  Article %s published but notification failed: %s", a.ID, res.Error)
	}
	return res
}

// History lists the transitions of an article, newest first.
func (p *Publisher) History(ctx context.Context, id string) ([]models.WorkflowHistory, error) {
	db := p.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Article{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrArticleNotFound
	}

	var history []models.WorkflowHistory
	err := db.Where("article_id = ?", id).
		Order("created_at DESC").
		Order("id DESC").
		Find(&history).Error
	return history, err
}
