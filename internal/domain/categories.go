package domain

import "strings"

const FallbackKey = "others"

// Category groups extensions under a label per locale. Extensions are stored
// lower-cased without dots.
type Category struct {
	Key        string
	Labels     map[Locale]string
	Extensions map[string]struct{}
}

func NewCategory(key string, labels map[Locale]string, extensions []string) Category {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return Category{Key: key, Labels: labels, Extensions: set}
}

func (category Category) Label(locale Locale) string {
	if label, ok := category.Labels[locale]; ok && label != "" {
		return label
	}
	if label, ok := category.Labels[LocaleEnglish]; ok && label != "" {
		return label
	}
	return category.Key
}

func (category Category) Contains(ext string) bool {
	_, ok := category.Extensions[strings.ToLower(ext)]
	return ok
}

// CategoryTable is matched in declaration order; Fallback claims everything
// the ordered categories do not.
type CategoryTable struct {
	Categories []Category
	Fallback   Category
}

// Match returns the first category claiming ext, or the fallback.
func (table CategoryTable) Match(ext string) Category {
	if ext != "" {
		for _, category := range table.Categories {
			if category.Contains(ext) {
				return category
			}
		}
	}
	return table.Fallback
}
