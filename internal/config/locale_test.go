package config

import (
	"testing"

	"filesorter/internal/domain"
)

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		value string
		want  domain.Locale
	}{
		{"en", domain.LocaleEnglish},
		{"tr", domain.LocaleTurkish},
		{"TR", domain.LocaleTurkish},
		{"tr-TR", domain.LocaleTurkish},
		{"en-GB", domain.LocaleEnglish},
		{"de", domain.LocaleEnglish},
		{"not a tag", domain.LocaleEnglish},
	}
	for _, tc := range cases {
		if got := ResolveLocale(tc.value); got != tc.want {
			t.Errorf("ResolveLocale(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestResolveLocaleFromEnvironment(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "tr_TR.UTF-8")
	if got := ResolveLocale("auto"); got != domain.LocaleTurkish {
		t.Fatalf("expected turkish from LANG, got %q", got)
	}

	t.Setenv("LANG", "C")
	if got := ResolveLocale(""); got != domain.LocaleEnglish {
		t.Fatalf("expected english fallback, got %q", got)
	}
}
