package driven

import (
	"context"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
)

// Extractor produces a plain-text rendering of a document.
// Each extractor handles specific file extensions (e.g., PDF, DOCX).
type Extractor interface {
	// Extensions returns the lowercased extensions this extractor handles,
	// including the dot (".pdf").
	Extensions() []string

	// Extract reads the file at path and returns its plain-text content.
	// Returns domain.ErrExtraction when the file is corrupt or unreadable.
	Extract(ctx context.Context, path string) (*domain.ExtractedText, error)
}
