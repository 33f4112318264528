package domain

const unknownDescription = "Unknown"

// Language is a best-guess language code for extracted text.
type Language string

// Supported languages. Detection degrades to LanguageUnknown rather than
// failing when text is too short or ambiguous.
const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"
	LanguageGerman  Language = "de"
	LanguageUnknown Language = "unknown"
)

// IsValid returns true if the language code is recognised.
func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageChinese, LanguageSpanish,
		LanguageFrench, LanguageGerman, LanguageUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// Description returns a human-readable description of the language.
func (l Language) Description() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageChinese:
		return "Mandarin Chinese"
	case LanguageSpanish:
		return "Spanish"
	case LanguageFrench:
		return "French"
	case LanguageGerman:
		return "German"
	case LanguageUnknown:
		return unknownDescription
	default:
		return unknownDescription
	}
}
