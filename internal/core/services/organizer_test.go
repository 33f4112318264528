package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivist-cli/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/archivist-cli/internal/naming"
)

// stubExtractor serves fixed content for a set of extensions.
type stubExtractor struct {
	exts    []string
	content string
	meta    map[string]string
	err     error
}

var _ driven.Extractor = (*stubExtractor)(nil)

func (e *stubExtractor) Extensions() []string { return e.exts }

func (e *stubExtractor) Extract(context.Context, string) (*domain.ExtractedText, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &domain.ExtractedText{Content: e.content, Metadata: e.meta}, nil
}

// stubDetector always reports the same language.
type stubDetector struct{ lang domain.Language }

var _ driven.LanguageDetector = (*stubDetector)(nil)

func (d *stubDetector) Detect(string) domain.Language { return d.lang }

var fixedNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func happyLLM() *scriptedLLM {
	return &scriptedLLM{replies: []string{
		"- Sales grew strongly\n- Costs fell\n- Outlook positive",
		"quarterly-sales, finance, reporting",
		`{"authors": "", "title": "", "date": "", "subject": ""}`,
	}}
}

func newTestOrganizer(extractor driven.Extractor, llm driven.LLMService, store driven.IndexStore) *OrganizerService {
	svc := NewOrganizerService(
		NewExtractorRegistry(extractor),
		&stubDetector{lang: domain.LanguageEnglish},
		NewAnalysisService(llm, AnalysisConfig{}),
		naming.NewBuilder(0),
		store,
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("raw bytes"), 0o644))
	return path
}

func TestProcessFileAppendsAnalyzedRow(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "report.txt")
	store := memory.New()
	svc := newTestOrganizer(
		&stubExtractor{exts: []string{".txt"}, content: "quarterly sales text"},
		happyLLM(),
		store,
	)

	rec, err := svc.ProcessFile(context.Background(), path, driving.ProcessOptions{})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAnalyzed, rec.Status)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "2026-08-25_en_quarterly-sales-sales-grew-strongly.txt", rec.NewName)

	rows, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, path, rows[0].OriginalPath)
	assert.Equal(t, rec.NewName, rows[0].NewFilename)
	assert.Equal(t, domain.StatusAnalyzed, rows[0].Status)
	assert.Equal(t, domain.LanguageEnglish, rows[0].Language)
}

func TestProcessFileRejectsUnsupportedBeforeInference(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "image.png")
	store := memory.New()
	llm := happyLLM()
	svc := newTestOrganizer(&stubExtractor{exts: []string{".txt"}}, llm, store)

	rec, err := svc.ProcessFile(context.Background(), path, driving.ProcessOptions{})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Nil(t, rec)
	assert.Empty(t, llm.systems, "no inference call for an unsupported file")
	rows, _ := store.ReadAll(context.Background())
	assert.Empty(t, rows, "no index row for an unsupported file")
}

func TestProcessFilePropagatesExtractionFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "broken.txt")
	extractErr := domain.ErrExtraction
	svc := newTestOrganizer(
		&stubExtractor{exts: []string{".txt"}, err: extractErr},
		happyLLM(),
		memory.New(),
	)

	rec, err := svc.ProcessFile(context.Background(), path, driving.ProcessOptions{})

	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Nil(t, rec)
}

func TestProcessFileTreatsEmptyContentAsExtractionFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "empty.txt")
	svc := newTestOrganizer(
		&stubExtractor{exts: []string{".txt"}, content: ""},
		happyLLM(),
		memory.New(),
	)

	_, err := svc.ProcessFile(context.Background(), path, driving.ProcessOptions{})

	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestProcessFileReportsIndexFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "report.txt")
	store := memory.New()
	store.AppendErr = domain.ErrIndexWrite
	svc := newTestOrganizer(
		&stubExtractor{exts: []string{".txt"}, content: "quarterly sales text"},
		happyLLM(),
		store,
	)

	rec, err := svc.ProcessFile(context.Background(), path, driving.ProcessOptions{})

	assert.ErrorIs(t, err, domain.ErrIndexWrite)
	require.NotNil(t, rec, "the analysis result survives an index failure")
	assert.Equal(t, domain.StatusIndexFailed, rec.Status)
}

func TestProcessFileRenamesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "report.txt")
	svc := newTestOrganizer(
		&stubExtractor{exts: []string{".txt"}, content: "quarterly sales text"},
		happyLLM(),
		memory.New(),
	)

	rec, err := svc.ProcessFile(context.Background(), path, driving.ProcessOptions{Rename: true})

	require.NoError(t, err)
	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(dir, rec.NewName))
}

func TestProcessFileMergesFormatMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "memo.txt")
	svc := newTestOrganizer(
		&stubExtractor{
			exts:    []string{".txt"},
			content: "board meeting minutes",
			meta: map[string]string{
				"title":   "Board Minutes",
				"creator": "Jane Doe",
				"created": "2026-05-01T09:30:00Z",
			},
		},
		happyLLM(),
		memory.New(),
	)

	rec, err := svc.ProcessFile(context.Background(), path, driving.ProcessOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Board Minutes", rec.Analysis.Metadata.Title)
	assert.Equal(t, "Jane Doe", rec.Analysis.Metadata.Authors)
	assert.Equal(t, "2026-05-01", rec.Analysis.Metadata.Date)
	assert.Equal(t, "2026-05-01_en_jane-doe-board-minutes.txt", rec.NewName)
}

func TestRecordFailureWritesFailureRow(t *testing.T) {
	store := memory.New()
	svc := newTestOrganizer(&stubExtractor{exts: []string{".txt"}}, happyLLM(), store)

	rec := svc.RecordFailure(context.Background(), "/in/broken.pdf", fmt.Errorf("%w: bad xref table", domain.ErrExtraction))

	assert.Equal(t, domain.StatusExtractionFailed, rec.Status)
	rows, _ := store.ReadAll(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, domain.StatusExtractionFailed, rows[0].Status)
	assert.Empty(t, rows[0].NewFilename)
	assert.Empty(t, rows[0].Summary)
}
