package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents. A DOCX file is a ZIP archive; the text
// lives in word/document.xml and document properties in docProps/core.xml.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// Extract reads the DOCX at path and returns its paragraph text plus any
// core document properties.
func (e *Extractor) Extract(_ context.Context, path string) (*domain.ExtractedText, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open docx %s: %v", domain.ErrExtraction, path, err)
	}
	defer reader.Close()

	content, err := extractDocumentText(&reader.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read docx %s: %v", domain.ErrExtraction, path, err)
	}

	return &domain.ExtractedText{
		Content:  content,
		Metadata: extractCoreProperties(&reader.Reader),
	}, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	raw, found, err := readArchiveFile(reader, "word/document.xml")
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}

	var doc documentXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", err
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, text := range r.Text {
				result.WriteString(text.Content)
			}
		}
	}
	return strings.TrimSpace(result.String()), nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
	Created string `xml:"created"`
}

// extractCoreProperties pulls title, creator, and creation date from
// docProps/core.xml when present. Missing or malformed properties are not an
// error: the pipeline only uses them as naming hints.
func extractCoreProperties(reader *zip.Reader) map[string]string {
	raw, found, err := readArchiveFile(reader, "docProps/core.xml")
	if err != nil || !found {
		return nil
	}

	var core coreXML
	if err := xml.Unmarshal(raw, &core); err != nil {
		return nil
	}

	meta := make(map[string]string)
	if v := strings.TrimSpace(core.Title); v != "" {
		meta["title"] = v
	}
	if v := strings.TrimSpace(core.Creator); v != "" {
		meta["creator"] = v
	}
	if v := strings.TrimSpace(core.Created); v != "" {
		meta["created"] = v
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

// readArchiveFile returns the contents of a named file within the archive.
func readArchiveFile(reader *zip.Reader, name string) ([]byte, bool, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, true, err
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, true, err
		}
		return raw, true, nil
	}
	return nil, false, nil
}
