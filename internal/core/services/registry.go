package services

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
)

// ExtractorRegistry resolves the text extractor for a file by extension.
type ExtractorRegistry struct {
	byExtension map[string]driven.Extractor
}

// NewExtractorRegistry creates a registry over the given extractors.
// Later extractors win on extension conflicts.
func NewExtractorRegistry(extractors ...driven.Extractor) *ExtractorRegistry {
	r := &ExtractorRegistry{byExtension: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor for all its extensions.
func (r *ExtractorRegistry) Register(e driven.Extractor) {
	for _, ext := range e.Extensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
}

// ForPath returns the extractor for the path's extension.
// Unknown extensions fail with domain.ErrUnsupportedFormat before any other
// pipeline stage runs.
func (r *ExtractorRegistry) ForPath(path string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return e, nil
}

// Supports reports whether the path's extension has an extractor.
func (r *ExtractorRegistry) Supports(path string) bool {
	_, err := r.ForPath(path)
	return err == nil
}

// Extensions returns the sorted list of supported extensions.
func (r *ExtractorRegistry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
