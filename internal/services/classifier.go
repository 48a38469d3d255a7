package services

import (
	"strings"

	"filesorter/internal/domain"
)

// Classify maps an extension to the name of its destination folder.
func Classify(ext string, mode domain.Mode, table domain.CategoryTable, locale domain.Locale) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if mode == domain.ModeCategory {
		return table.Match(ext).Label(locale)
	}
	if ext == "" {
		return domain.NoExtensionLabel(locale)
	}
	return ext
}
