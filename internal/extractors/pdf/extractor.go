package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/archivist-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents via github.com/ledongthuc/pdf.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract reads the PDF at path and returns the concatenated page text.
// A page that fails text extraction is skipped; a file that cannot be
// opened or parsed at all fails with domain.ErrExtraction.
func (e *Extractor) Extract(_ context.Context, path string) (result *domain.ExtractedText, err error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	// The pdf package panics on some malformed files instead of returning
	// an error.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: parse pdf %s: %v", domain.ErrExtraction, path, r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf %s: %v", domain.ErrExtraction, path, err)
	}
	defer file.Close()

	var text strings.Builder
	pageCount := reader.NumPage()
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf %s: page %d text extraction failed: %v", path, i, err)
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	return &domain.ExtractedText{
		Content: strings.TrimSpace(text.String()),
	}, nil
}
