package models

import "time"

type Language struct {
	Code       string    `gorm:"primaryKey;size:8" json:"code"`
	Name       string    `gorm:"size:100;index" json:"name"`
	NativeName string    `gorm:"size:100" json:"nativeName"`
	Direction  string    `gorm:"size:3;default:'ltr'" json:"direction"`
	IsActive   bool      `gorm:"default:true" json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Subscriber struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex" json:"email"`
	LanguageCode string    `gorm:"size:8;index" json:"languageCode"`
	Active       bool      `gorm:"default:true;index" json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
