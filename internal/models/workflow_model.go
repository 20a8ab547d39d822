package models

import "time"

type WorkflowStatus string

const (
	StatusDraft     WorkflowStatus = "draft"
	StatusPublished WorkflowStatus = "published"
)

// WorkflowHistory records one status transition of an article.
type WorkflowHistory struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ArticleID  string         `gorm:"size:36;index" json:"articleId"`
	FromStatus WorkflowStatus `gorm:"size:20" json:"fromStatus"`
	ToStatus   WorkflowStatus `gorm:"size:20" json:"toStatus"`
	Role       string         `gorm:"size:20" json:"role"`
	CreatedAt  time.Time      `json:"createdAt"`
}
