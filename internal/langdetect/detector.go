// Package langdetect guesses the primary language of extracted text using
// script and stop-word heuristics over a fixed language set. It never fails:
// short or ambiguous text degrades to domain.LanguageUnknown.
package langdetect

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
)

// Ensure Detector implements the interface.
var _ driven.LanguageDetector = (*Detector)(nil)

// minTextLength is the minimum rune count for a confident guess.
const minTextLength = 20

// hanThreshold is the Han rune share above which text is classified Chinese.
const hanThreshold = 0.15

// minStopwordHits is the minimum distinct stop-word matches for a
// Latin-script classification.
const minStopwordHits = 3

// stopwords maps each Latin-script language to high-frequency words that
// rarely appear in the others.
var stopwords = map[domain.Language][]string{
	domain.LanguageEnglish: {"the", "and", "of", "to", "is", "that", "with", "for", "was", "this"},
	domain.LanguageSpanish: {"el", "la", "los", "las", "es", "una", "por", "como", "pero", "más"},
	domain.LanguageFrench:  {"le", "les", "des", "est", "une", "dans", "que", "pour", "avec", "pas"},
	domain.LanguageGerman:  {"der", "die", "das", "und", "ist", "nicht", "ein", "mit", "für", "auch"},
}

// Detector guesses languages from text samples.
type Detector struct {
	// sampleLimit caps how many runes are inspected. Zero means the
	// package default.
	sampleLimit int
}

// defaultSampleLimit bounds work on very large documents; the opening of a
// document is as good a language sample as the whole.
const defaultSampleLimit = 2000

// New creates a detector with the default sample limit.
func New() *Detector {
	return &Detector{sampleLimit: defaultSampleLimit}
}

// Detect returns the best-guess language for the text.
func (d *Detector) Detect(text string) domain.Language {
	sample := truncateRunes(text, d.limit())

	runes := 0
	han := 0
	for _, r := range sample {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		runes++
		if unicode.Is(unicode.Han, r) {
			han++
		}
	}
	if runes < minTextLength {
		return domain.LanguageUnknown
	}

	if float64(han)/float64(runes) >= hanThreshold {
		return domain.LanguageChinese
	}

	return detectLatin(sample)
}

// detectLatin scores stop-word hits per language and returns the clear
// winner, or Unknown when no language reaches the minimum.
func detectLatin(sample string) domain.Language {
	words := tokenize(sample)
	if len(words) == 0 {
		return domain.LanguageUnknown
	}

	best := domain.LanguageUnknown
	bestHits := 0
	tied := false
	for lang, candidates := range stopwords {
		hits := 0
		for _, w := range candidates {
			if _, ok := words[w]; ok {
				hits++
			}
		}
		switch {
		case hits > bestHits:
			best, bestHits, tied = lang, hits, false
		case hits == bestHits && hits > 0:
			tied = true
		}
	}

	if bestHits < minStopwordHits || tied {
		return domain.LanguageUnknown
	}
	return best
}

// tokenize lowercases the sample and returns the set of distinct words.
func tokenize(sample string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(sample), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		words[w] = struct{}{}
	}
	return words
}

func (d *Detector) limit() int {
	if d.sampleLimit > 0 {
		return d.sampleLimit
	}
	return defaultSampleLimit
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
