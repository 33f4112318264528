// Package naming builds standardised, filesystem-safe filenames from
// analysis results. Building is deterministic: the same inputs always yield
// the same name, which keeps batch runs idempotent and testable.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
)

// DefaultMaxLength is the default cap on the generated filename length,
// in bytes, including the extension.
const DefaultMaxLength = 120

// maxSlugWords bounds how many summary words feed the fallback slug.
const maxSlugWords = 6

// datePattern matches the YYYY-MM-DD date the metadata prompt asks for.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Inputs are everything the builder needs. No field is read from disk.
type Inputs struct {
	// Extension is the original file extension including the dot.
	Extension string

	// Analysis supplies language, tags, summary, and metadata.
	Analysis domain.Analysis

	// Timestamp supplies the date component when the extracted metadata
	// carries no usable publication date.
	Timestamp time.Time
}

// Builder constructs standardised filenames.
type Builder struct {
	maxLength int
}

// NewBuilder creates a builder. maxLength <= 0 selects DefaultMaxLength.
func NewBuilder(maxLength int) *Builder {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Builder{maxLength: maxLength}
}

// Build produces a name of the form YYYY-MM-DD_lang_slug.ext.
// The slug prefers the extracted document title (with the first author when
// present) and falls back to the primary tag plus leading summary words.
func (b *Builder) Build(in Inputs) string {
	date := in.Analysis.Metadata.Date
	if !datePattern.MatchString(date) {
		date = in.Timestamp.Format("2006-01-02")
	}

	lang := in.Analysis.Language
	if !lang.IsValid() || lang == "" {
		lang = domain.LanguageUnknown
	}

	slug := Slugify(slugSource(in.Analysis))
	if slug == "" {
		slug = "document"
	}

	ext := strings.ToLower(in.Extension)
	stem := date + "_" + lang.String() + "_" + slug
	stem = truncateBytes(stem, b.maxLength-len(ext))
	stem = strings.TrimRight(stem, "-_")
	return stem + ext
}

// Unique resolves collisions against dir by appending a numeric
// disambiguator before the extension: name.pdf, name-2.pdf, name-3.pdf.
// Resolution is local to one invocation; the tool is single-process.
func Unique(dir, name string) string {
	return UniqueWith(name, func(candidate string) bool {
		return exists(filepath.Join(dir, candidate))
	})
}

// UniqueWith resolves collisions against an arbitrary predicate. Callers
// that assign names before any file exists (a batch run planning its moves)
// fold their own issued-name set into taken.
func UniqueWith(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !taken(candidate) {
			return candidate
		}
	}
}

// Slugify normalises free text into a lowercase, hyphen-separated slug.
// Only letters and digits survive; everything else, including characters
// illegal in filenames, becomes a separator.
func Slugify(text string) string {
	var out strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			out.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.Trim(out.String(), "-")
}

// slugSource picks the text the slug is derived from.
func slugSource(a domain.Analysis) string {
	if a.Metadata.Title != "" {
		if a.Metadata.Authors != "" {
			return firstAuthor(a.Metadata.Authors) + " " + a.Metadata.Title
		}
		return a.Metadata.Title
	}

	parts := make([]string, 0, 2)
	if tag := a.PrimaryTag(); tag != "" {
		parts = append(parts, tag)
	}
	if len(a.Summary) > 0 {
		words := strings.Fields(a.Summary[0])
		if len(words) > maxSlugWords {
			words = words[:maxSlugWords]
		}
		parts = append(parts, strings.Join(words, " "))
	}
	return strings.Join(parts, " ")
}

// firstAuthor reduces an author list to its first entry.
func firstAuthor(authors string) string {
	for _, sep := range []string{",", ";", " and "} {
		if idx := strings.Index(authors, sep); idx >= 0 {
			return strings.TrimSpace(authors[:idx])
		}
	}
	return strings.TrimSpace(authors)
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
