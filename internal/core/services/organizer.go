package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/archivist-cli/internal/logger"
	"github.com/custodia-labs/archivist-cli/internal/naming"
)

// Ensure OrganizerService implements the interface.
var _ driving.Organizer = (*OrganizerService)(nil)

// OrganizerService runs the per-document pipeline.
type OrganizerService struct {
	registry *ExtractorRegistry
	detector driven.LanguageDetector
	analyzer *AnalysisService
	builder  *naming.Builder
	index    driven.IndexStore

	// issued tracks names assigned during this session. Batch runs assign
	// every name before any file moves, so the filesystem alone cannot
	// reveal collisions between documents with similar analyses.
	mu     sync.Mutex
	issued map[string]struct{}

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewOrganizerService creates the pipeline service.
func NewOrganizerService(
	registry *ExtractorRegistry,
	detector driven.LanguageDetector,
	analyzer *AnalysisService,
	builder *naming.Builder,
	index driven.IndexStore,
) *OrganizerService {
	return &OrganizerService{
		registry: registry,
		detector: detector,
		analyzer: analyzer,
		builder:  builder,
		index:    index,
		issued:   make(map[string]struct{}),
		now:      time.Now,
	}
}

// ProcessFile runs extract, detect, analyze, name, and append for one path.
// The stages fail fast: an unsupported extension is rejected before any
// inference call, and no index row is written for it.
func (s *OrganizerService) ProcessFile(ctx context.Context, path string, opts driving.ProcessOptions) (*domain.Record, error) {
	extractor, err := s.registry.ForPath(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, err)
	}

	logger.Debug("extracting text from %s", path)
	extracted, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	if extracted.Content == "" {
		return nil, fmt.Errorf("%w: %s: no text content", domain.ErrExtraction, path)
	}

	lang := s.detector.Detect(extracted.Content)
	logger.Debug("detected language %s for %s", lang, path)

	analysis, err := s.analyzer.Analyze(ctx, extracted.Content, lang)
	if err != nil {
		return nil, err
	}
	mergeFormatMetadata(&analysis, extracted.Metadata)

	processedAt := s.now()
	dir := filepath.Dir(path)
	name := s.builder.Build(naming.Inputs{
		Extension: filepath.Ext(path),
		Analysis:  analysis,
		Timestamp: processedAt,
	})
	name = s.uniqueName(dir, name)

	record := &domain.Record{
		ID:          uuid.New().String(),
		Path:        path,
		NewName:     name,
		Analysis:    analysis,
		Status:      domain.StatusAnalyzed,
		ProcessedAt: processedAt,
	}

	if err := s.index.Append(ctx, domain.NewIndexRow(*record)); err != nil {
		record.Status = domain.StatusIndexFailed
		record.Err = err
		return record, err
	}

	if opts.Rename {
		dest := filepath.Join(dir, name)
		if err := os.Rename(path, dest); err != nil {
			return record, fmt.Errorf("%w: rename %s: %v", domain.ErrFilesystem, path, err)
		}
		logger.Info("renamed %s -> %s", path, dest)
	}

	return record, nil
}

// RecordFailure appends a failure row for a document that could not be
// processed. Used by batch runs; failures there must not abort the batch.
func (s *OrganizerService) RecordFailure(ctx context.Context, path string, cause error) *domain.Record {
	record := &domain.Record{
		ID:          uuid.New().String(),
		Path:        path,
		Status:      domain.StatusForError(cause),
		Err:         cause,
		ProcessedAt: s.now(),
	}
	if err := s.index.Append(ctx, domain.NewIndexRow(*record)); err != nil {
		logger.Error("failure row for %s could not be written: %v", path, err)
	}
	return record
}

// uniqueName disambiguates against both the filesystem and the names this
// session has already handed out under dir.
func (s *OrganizerService) uniqueName(dir, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	unique := naming.UniqueWith(name, func(candidate string) bool {
		path := filepath.Join(dir, candidate)
		if _, ok := s.issued[path]; ok {
			return true
		}
		_, err := os.Stat(path)
		return err == nil
	})
	s.issued[filepath.Join(dir, unique)] = struct{}{}
	return unique
}

// mergeFormatMetadata fills metadata gaps from format-level properties
// (a DOCX title beats nothing, but never beats what the model extracted).
func mergeFormatMetadata(a *domain.Analysis, meta map[string]string) {
	if meta == nil {
		return
	}
	if a.Metadata.Title == "" {
		a.Metadata.Title = meta["title"]
	}
	if a.Metadata.Authors == "" {
		a.Metadata.Authors = meta["creator"]
	}
	if a.Metadata.Date == "" {
		if created := meta["created"]; len(created) >= 10 {
			a.Metadata.Date = created[:10]
		}
	}
}
