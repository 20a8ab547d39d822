package sitemap

import "time"

// WithClock replaces the timestamp source used for static entries.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}
