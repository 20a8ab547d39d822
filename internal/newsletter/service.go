// Package newsletter manages the subscribers that are notified when an
// article is published.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Subscribe creates or reactivates a subscription. Repeating the call with
// the same address is harmless.
func (s *Service) Subscribe(ctx context.Context, email string, lang locale.Code) (*models.Subscriber, error) {
	addr, err := normalize(email)
	if err != nil {
		return nil, err
	}
	if !locale.IsSupported(lang) {
		lang = locale.Default
	}

	db := s.db.WithContext(ctx)
	var sub models.Subscriber
	err = db.Where("email = ?", addr).First(&sub).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.Subscriber{Email: addr, LanguageCode: string(lang), Active: true}
		if err := db.Create(&sub).Error; err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}
		return &sub, nil
	case err != nil:
		return nil, err
	}

	err = db.Model(&sub).Updates(map[string]interface{}{
		"active":        true,
		"language_code": string(lang),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("reactivate subscriber: %w", err)
	}
	return &sub, nil
}

func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	addr, err := normalize(email)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(&models.Subscriber{}).
		Where("email = ? AND active = ?", addr, true).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("unsubscribe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

// ActiveEmails returns the addresses of every active subscriber.
func (s *Service) ActiveEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := s.db.WithContext(ctx).Model(&models.Subscriber{}).
		Where("active = ?", true).
		Order("id").
		Pluck("email", &emails).Error
	return emails, err
}

func normalize(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
