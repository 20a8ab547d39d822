package models

// All lists every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Language{},
		&Tag{},
		&TagTranslation{},
		&Article{},
		&ArticleTranslation{},
		&Subscriber{},
		&WorkflowHistory{},
		&MediaFile{},
	}
}
