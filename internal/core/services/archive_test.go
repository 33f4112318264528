package services

import (
	"context"
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

// repeatingLLM answers every document with the same canned analysis,
// dispatching on the system prompt.
type repeatingLLM struct{ calls int }

var _ driven.LLMService = (*repeatingLLM)(nil)

func (m *repeatingLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.calls++
	switch messages[0].Content {
	case summarySystemPrompt:
		return "- A document about money\n- Figures included\n- Nothing unusual", nil
	case tagsSystemPrompt:
		return "finance, reporting, numbers", nil
	default:
		return `{"authors": "", "title": "", "date": "", "subject": ""}`, nil
	}
}

func (m *repeatingLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "", nil
}

func (m *repeatingLLM) ModelName() string          { return "repeating" }
func (m *repeatingLLM) Ping(context.Context) error { return nil }
func (m *repeatingLLM) Close() error               { return nil }

// newBatchFixture builds a directory with two good files, one corrupt file,
// and one unsupported file, plus the services wired over a memory store.
func newBatchFixture(t *testing.T) (string, *ArchiveService, *memory.Store) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.bad", "c.txt", "d.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("raw"), 0o644))
	}

	store := memory.New()
	registry := NewExtractorRegistry(
		&stubExtractor{exts: []string{".txt"}, content: "annual finance report text"},
		&stubExtractor{exts: []string{".bad"}, err: domain.ErrExtraction},
	)
	organizer := NewOrganizerService(
		registry,
		&stubDetector{lang: domain.LanguageEnglish},
		NewAnalysisService(&repeatingLLM{}, AnalysisConfig{}),
		naming.NewBuilder(0),
		store,
	)
	organizer.now = func() time.Time { return fixedNow }
	return dir, NewArchiveService(organizer, registry), store
}

func TestArchiveAnalyzeOnlyIsolatesFailures(t *testing.T) {
	dir, svc, store := newBatchFixture(t)

	report, err := svc.Run(context.Background(), dir, driving.ArchiveOptions{AnalyzeOnly: true})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.StructurePath)
	assert.Empty(t, report.PlanPath)
	assert.False(t, report.Executed)

	// One row per attempted document; the skipped file writes nothing.
	rows, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.StatusAnalyzed, rows[0].Status)
	assert.Equal(t, domain.StatusExtractionFailed, rows[1].Status)
	assert.Equal(t, domain.StatusAnalyzed, rows[2].Status)
}

func TestArchiveWalksInLexicalOrder(t *testing.T) {
	dir, svc, _ := newBatchFixture(t)

	report, err := svc.Run(context.Background(), dir, driving.ArchiveOptions{AnalyzeOnly: true})

	require.NoError(t, err)
	require.Len(t, report.Records, 4)
	var names []string
	for _, rec := range report.Records {
		names = append(names, filepath.Base(rec.Path))
	}
	assert.Equal(t, []string{"a.txt", "b.bad", "c.txt", "d.png"}, names)
}

func TestArchiveFullRunMovesFiles(t *testing.T) {
	dir, svc, _ := newBatchFixture(t)

	report, err := svc.Run(context.Background(), dir, driving.ArchiveOptions{AssumeYes: true})

	require.NoError(t, err)
	assert.True(t, report.Executed)
	assert.FileExists(t, report.StructurePath)
	assert.FileExists(t, report.PlanPath)

	// Both analysed documents land in the primary-tag folder; the second
	// name carries a collision disambiguator.
	folder := filepath.Join(dir, "finance")
	entries, err := os.ReadDir(folder)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	require.Len(t, report.Records, 4)
	assert.NotEqual(t, report.Records[0].NewName, report.Records[2].NewName,
		"identical analyses must still yield distinct filenames")
	assert.NoFileExists(t, filepath.Join(dir, "a.txt"))
	assert.FileExists(t, filepath.Join(dir, "b.bad"), "failed files stay in place")
}

func TestArchiveDryRunWritesPlanWithoutMoving(t *testing.T) {
	dir, svc, _ := newBatchFixture(t)

	report, err := svc.Run(context.Background(), dir, driving.ArchiveOptions{DryRun: true})

	require.NoError(t, err)
	assert.False(t, report.Executed)
	assert.FileExists(t, report.PlanPath)
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
	assert.NoDirExists(t, filepath.Join(dir, "finance"))
}

func TestArchiveDeclinedConfirmationDoesNotExecute(t *testing.T) {
	dir, svc, _ := newBatchFixture(t)
	var prompted string

	report, err := svc.Run(context.Background(), dir, driving.ArchiveOptions{
		Confirm: func(prompt string) bool {
			prompted = prompt
			return false
		},
	})

	require.NoError(t, err)
	assert.False(t, report.Executed)
	assert.NotEmpty(t, prompted)
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
}

func TestArchiveNilConfirmDoesNotExecute(t *testing.T) {
	dir, svc, _ := newBatchFixture(t)

	report, err := svc.Run(context.Background(), dir, driving.ArchiveOptions{})

	require.NoError(t, err)
	assert.False(t, report.Executed)
}

func TestArchiveWithNoSuccessesWritesNoArtifacts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.bad"), []byte("raw"), 0o644))

	store := memory.New()
	registry := NewExtractorRegistry(&stubExtractor{exts: []string{".bad"}, err: domain.ErrExtraction})
	organizer := NewOrganizerService(
		registry,
		&stubDetector{lang: domain.LanguageUnknown},
		NewAnalysisService(&repeatingLLM{}, AnalysisConfig{}),
		naming.NewBuilder(0),
		store,
	)
	svc := NewArchiveService(organizer, registry)

	report, err := svc.Run(context.Background(), dir, driving.ArchiveOptions{AssumeYes: true})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, report.StructurePath)
	assert.NoFileExists(t, filepath.Join(dir, StructureFileName))
}

func TestArchiveRejectsNonDirectory(t *testing.T) {
	dir, svc, _ := newBatchFixture(t)
	file := filepath.Join(dir, "a.txt")

	_, err := svc.Run(context.Background(), file, driving.ArchiveOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
