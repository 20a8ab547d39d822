package models

import "time"

type MediaFile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FileName   string    `gorm:"size:255" json:"fileName"`
	URL        string    `gorm:"size:500" json:"url"`
	Type       string    `gorm:"size:100;index" json:"type"`
	Size       int64     `json:"size"`
	Width      *int      `json:"width,omitempty"`
	Height     *int      `json:"height,omitempty"`
	Alt        string    `gorm:"size:255" json:"alt"`
	UploadedBy string    `gorm:"size:20" json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
