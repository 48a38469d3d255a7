package config

import (
	"os"
	"strings"

	"golang.org/x/text/language"

	"filesorter/internal/domain"
)

var localeMatcher = language.NewMatcher([]language.Tag{language.English, language.Turkish})

// ResolveLocale maps a BCP 47 language setting such as "tr" or "en-GB" to a
// supported locale, defaulting to English. Empty or "auto" consults $LANG.
func ResolveLocale(value string) domain.Locale {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "auto") {
		value = localeFromEnv()
	}
	tag, err := language.Parse(value)
	if err != nil {
		return domain.LocaleEnglish
	}
	_, index, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return domain.LocaleEnglish
	}
	return domain.SupportedLocales[index]
}

func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := os.Getenv(key)
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		if index := strings.IndexAny(value, ".@"); index >= 0 {
			value = value[:index]
		}
		return strings.ReplaceAll(value, "_", "-")
	}
	return "en"
}
