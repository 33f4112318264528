package driven

import "github.com/custodia-labs/archivist-cli/internal/core/domain"

// LanguageDetector guesses the primary language of extracted text.
// Detection never fails: short or ambiguous text yields domain.LanguageUnknown.
type LanguageDetector interface {
	// Detect returns the best-guess language for the text.
	Detect(text string) domain.Language
}
