package plaintext

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text and Markdown documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".md"}
}

// Extract reads the file at path. Content is decoded as UTF-8 when valid,
// otherwise re-decoded as Windows-1252 with ISO 8859-1 as the final fallback,
// matching the decode cascade scanned archives commonly need.
func (e *Extractor) Extract(_ context.Context, path string) (*domain.ExtractedText, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrExtraction, path, err)
	}

	return &domain.ExtractedText{Content: decode(raw)}, nil
}

// decode converts raw bytes to a string, trying UTF-8, then Windows-1252,
// then ISO 8859-1 (which accepts every byte value).
func decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	if out, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		return string(out)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// ISO 8859-1 maps all 256 byte values; this path is unreachable
		// but the compiler cannot know that.
		return string(raw)
	}
	return string(out)
}
