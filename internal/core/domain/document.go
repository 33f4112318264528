package domain

import "time"

// RawDocument identifies a file on disk before any processing.
type RawDocument struct {
	// Path is the absolute or working-directory-relative file path.
	Path string

	// Extension is the lowercased file extension including the dot (".pdf").
	Extension string

	// Size is the file size in bytes.
	Size int64
}

// ExtractedText is the plain-text rendering of a document's content.
// It is transient; nothing persists it.
type ExtractedText struct {
	// Content is the full extracted text.
	Content string

	// Metadata holds format-level properties when the format carries them
	// (DOCX core properties, for example). Keys: "title", "creator", "created".
	Metadata map[string]string
}

// DocMetadata is the structured metadata the model extracts from a document.
type DocMetadata struct {
	// Authors is the author name or names as a single display string.
	Authors string

	// Title is the document title.
	Title string

	// Date is the publication date, YYYY-MM-DD when the model can determine it.
	Date string

	// Subject is the primary subject matter.
	Subject string
}

// IsZero returns true when no metadata field is populated.
func (m DocMetadata) IsZero() bool {
	return m.Authors == "" && m.Title == "" && m.Date == "" && m.Subject == ""
}

// Analysis is the per-document result of summarisation, tagging, metadata
// extraction, and language detection. Immutable once produced.
type Analysis struct {
	// Summary holds up to three bullet points describing the document.
	Summary []string

	// Tags is an ordered list of 3-5 kebab-case topic tags.
	Tags []string

	// Language is the detected primary language.
	Language Language

	// Metadata is the structured metadata, zero-valued when the model
	// returned nothing usable.
	Metadata DocMetadata
}

// PrimaryTag returns the first tag, or empty when none were produced.
func (a Analysis) PrimaryTag() string {
	if len(a.Tags) == 0 {
		return ""
	}
	return a.Tags[0]
}

// Record binds a document to its analysis outcome for one pipeline run.
type Record struct {
	// ID is the unique identifier for this processing record.
	ID string

	// Path is the original file path.
	Path string

	// NewName is the proposed standardised filename.
	NewName string

	// Analysis is the analysis result. Only meaningful when Status is
	// StatusAnalyzed.
	Analysis Analysis

	// Status records how processing ended for this document.
	Status Status

	// Err is the failure behind a non-Analyzed status, nil otherwise.
	Err error

	// ProcessedAt is when the pipeline finished with this document.
	ProcessedAt time.Time
}
