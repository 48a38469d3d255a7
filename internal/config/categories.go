package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"filesorter/internal/domain"
)

//go:embed categories.toml
var defaultCategories []byte

type categoryFile struct {
	Key        string            `toml:"key"`
	Labels     map[string]string `toml:"labels"`
	Extensions []string          `toml:"extensions"`
}

type tableFile struct {
	Categories []categoryFile `toml:"categories"`
	Fallback   categoryFile   `toml:"fallback"`
}

var (
	defaultTableOnce sync.Once
	defaultTable     domain.CategoryTable
	defaultTableErr  error
)

// DefaultCategoryTable returns the built-in table.
func DefaultCategoryTable() domain.CategoryTable {
	defaultTableOnce.Do(func() {
		defaultTable, defaultTableErr = ParseCategoryTable(defaultCategories)
	})
	if defaultTableErr != nil {
		panic(fmt.Sprintf("embedded categories: %v", defaultTableErr))
	}
	return defaultTable
}

// LoadCategoryTable reads a table from path, or returns the built-in one when
// path is empty.
func LoadCategoryTable(path string) (domain.CategoryTable, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCategoryTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CategoryTable{}, fmt.Errorf("read categories %s: %w", path, err)
	}
	table, err := ParseCategoryTable(data)
	if err != nil {
		return domain.CategoryTable{}, fmt.Errorf("categories %s: %w", path, err)
	}
	return table, nil
}

func ParseCategoryTable(data []byte) (domain.CategoryTable, error) {
	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.CategoryTable{}, err
	}
	if len(file.Categories) == 0 {
		return domain.CategoryTable{}, fmt.Errorf("no categories defined")
	}
	if len(file.Fallback.Extensions) > 0 {
		return domain.CategoryTable{}, fmt.Errorf("fallback category must not list extensions")
	}
	if file.Fallback.Key == "" {
		file.Fallback.Key = domain.FallbackKey
	}

	seen := make(map[string]struct{}, len(file.Categories))
	table := domain.CategoryTable{Categories: make([]domain.Category, 0, len(file.Categories))}
	for index, category := range file.Categories {
		key := strings.ToLower(strings.TrimSpace(category.Key))
		if key == "" {
			return domain.CategoryTable{}, fmt.Errorf("category %d: key required", index+1)
		}
		if _, ok := seen[key]; ok {
			return domain.CategoryTable{}, fmt.Errorf("category %q defined twice", key)
		}
		seen[key] = struct{}{}
		table.Categories = append(table.Categories, domain.NewCategory(key, labelsFor(key, category.Labels), category.Extensions))
	}
	table.Fallback = domain.NewCategory(file.Fallback.Key, labelsFor(file.Fallback.Key, file.Fallback.Labels), nil)
	return table, nil
}

func labelsFor(key string, raw map[string]string) map[domain.Locale]string {
	labels := make(map[domain.Locale]string, len(raw)+1)
	for locale, label := range raw {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		labels[domain.Locale(strings.ToLower(locale))] = label
	}
	if _, ok := labels[domain.LocaleEnglish]; !ok {
		labels[domain.LocaleEnglish] = cases.Title(language.Und).String(key)
	}
	return labels
}
