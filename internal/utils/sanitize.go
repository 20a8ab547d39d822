package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// SanitizeHTML keeps safe formatting markup in article bodies.
func SanitizeHTML(input string) string {
	return richPolicy.Sanitize(input)
}

// SanitizeText strips all markup from titles, names and summaries.
func SanitizeText(input string) string {
	return strings.TrimSpace(plainPolicy.Sanitize(input))
}
