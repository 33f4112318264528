package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/archivist-cli/internal/logger"
	"github.com/custodia-labs/archivist-cli/internal/plan"
)

// Names of the review artifacts a batch run writes into the target directory.
const (
	StructureFileName = "folder_structure.json"
	PlanFileName      = "execution_plan.md"
)

// Ensure ArchiveService implements the interface.
var _ driving.Archiver = (*ArchiveService)(nil)

// ArchiveService runs the multi-phase batch flow: analyse every document in
// a directory, propose a folder structure, write an execution plan, and
// apply it after confirmation.
type ArchiveService struct {
	organizer *OrganizerService
	registry  *ExtractorRegistry
}

// NewArchiveService creates the batch service.
func NewArchiveService(organizer *OrganizerService, registry *ExtractorRegistry) *ArchiveService {
	return &ArchiveService{organizer: organizer, registry: registry}
}

// Run executes the archive phases over dir. A failure on one document writes
// a failure row and moves on; only a cancelled context or an unreadable
// directory aborts the batch.
func (s *ArchiveService) Run(ctx context.Context, dir string, opts driving.ArchiveOptions) (*driving.BatchReport, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFilesystem, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	docs, err := s.discover(dir)
	if err != nil {
		return nil, err
	}
	logger.Info("discovered %d file(s) under %s", len(docs), dir)

	logger.Section("Phase 1: Analyze")
	report := &driving.BatchReport{}
	for _, doc := range docs {
		if ctx.Err() != nil {
			return report, fmt.Errorf("batch aborted: %w", ctx.Err())
		}

		if !s.registry.Supports(doc.Path) {
			logger.Debug("skipping unsupported file %s", doc.Path)
			report.Records = append(report.Records, domain.Record{
				Path:   doc.Path,
				Status: domain.StatusUnsupported,
			})
			report.Skipped++
			continue
		}

		rec, err := s.organizer.ProcessFile(ctx, doc.Path, driving.ProcessOptions{})
		if err != nil {
			if rec == nil {
				rec = s.organizer.RecordFailure(ctx, doc.Path, err)
			}
			logger.Error("processing %s failed: %v", doc.Path, err)
			report.Records = append(report.Records, *rec)
			report.Failed++
			continue
		}
		report.Records = append(report.Records, *rec)
		report.Succeeded++
	}

	if opts.AnalyzeOnly {
		return report, nil
	}
	if report.Succeeded == 0 {
		logger.Warn("no documents analysed; nothing to organise")
		return report, nil
	}

	logger.Section("Phase 2: Synthesize")
	structure := plan.BuildStructure(dir, report.Records)
	report.StructurePath = filepath.Join(dir, StructureFileName)
	if err := structure.WriteJSON(report.StructurePath); err != nil {
		return report, err
	}

	logger.Section("Phase 3: Plan")
	p := plan.NewPlan(dir, report.Records)
	report.PlanPath = filepath.Join(dir, PlanFileName)
	if err := p.WriteMarkdown(report.PlanPath); err != nil {
		return report, err
	}

	if opts.DryRun {
		logger.Info("dry run; plan written to %s", report.PlanPath)
		return report, nil
	}

	if !opts.AssumeYes {
		prompt := fmt.Sprintf("Apply %d move(s) into %d folder(s)?", p.Moves(), len(structure.Folders))
		if opts.Confirm == nil || !opts.Confirm(prompt) {
			logger.Info("execution declined; plan left at %s", report.PlanPath)
			return report, nil
		}
	}

	logger.Section("Phase 4: Execute")
	if err := p.Execute(); err != nil {
		return report, err
	}
	report.Executed = true
	return report, nil
}

// discover lists the candidate documents in lexical path order. Hidden
// files and this tool's own review artifacts are never candidates.
func (s *ArchiveService) discover(dir string) ([]domain.RawDocument, error) {
	var docs []domain.RawDocument
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walk %s: %v", domain.ErrFilesystem, path, err)
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || name == StructureFileName || name == PlanFileName {
			return nil
		}
		doc := domain.RawDocument{
			Path:      path,
			Extension: strings.ToLower(filepath.Ext(path)),
		}
		if info, err := d.Info(); err == nil {
			doc.Size = info.Size()
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
