// Package notify delivers best-effort announcements for newly published
// articles.
package notify

import "context"

// Result is the outcome of one notification attempt. It is reported next to
// the publication outcome and never replaces it.
type Result struct {
	Success    bool   `json:"success"`
	Skipped    bool   `json:"skipped,omitempty"`
	Recipients int    `json:"recipients"`
	Failed     int    `json:"failed,omitempty"`
	Error      string `json:"error,omitempty"`
}

type Message struct {
	ArticleID    string
	LanguageCode string
	Title        string
	Summary      string
	URL          string
}

type Notifier interface {
	NotifyPublished(ctx context.Context, msg Message, recipients []string) Result
}

// Disabled is used when no mail transport is configured.
type Disabled struct{}

func (Disabled) NotifyPublished(ctx context.Context, msg Message, recipients []string) Result {
	return Result{
		Skipped:    true,
		Recipients: len(recipients),
		Error:      "email delivery is not configured",
	}
}

// Skip builds the result for a publish call that sent nothing.
func Skip(reason string) Result {
	return Result{Success: true, Skipped: true, Error: reason}
}
