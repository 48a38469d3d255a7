package domain

type Mode string

const (
	ModeExtension Mode = "extension"
	ModeCategory  Mode = "category"
)

func ModeFor(useCategories bool) Mode {
	if useCategories {
		return ModeCategory
	}
	return ModeExtension
}

type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleTurkish Locale = "tr"
)

var SupportedLocales = []Locale{LocaleEnglish, LocaleTurkish}

// NoExtensionLabel names the folder for files without an extension.
func NoExtensionLabel(locale Locale) string {
	if locale == LocaleTurkish {
		return "uzantisiz"
	}
	return "no_extension"
}
