package driving

import (
	"context"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
)

// Organizer runs the per-document pipeline:
// extract, detect language, summarise/tag, build filename, append index row.
type Organizer interface {
	// ProcessFile runs the pipeline once for one path. It fails fast,
	// propagating the first stage error, except that the index row for a
	// successful analysis is always attempted before returning.
	ProcessFile(ctx context.Context, path string, opts ProcessOptions) (*domain.Record, error)
}

// ProcessOptions configures a single-document run.
type ProcessOptions struct {
	// Rename applies the standardised name in place after a successful run.
	Rename bool
}

// Archiver runs the multi-phase batch flow over a directory tree.
type Archiver interface {
	// Run executes the archive phases. Per-file failures during analysis are
	// isolated: they produce failure rows and the batch continues.
	Run(ctx context.Context, dir string, opts ArchiveOptions) (*BatchReport, error)
}

// ArchiveOptions configures a batch run.
type ArchiveOptions struct {
	// AnalyzeOnly stops after the analysis phase; no structure, plan,
	// or file moves.
	AnalyzeOnly bool

	// DryRun prints the execution plan without applying it.
	DryRun bool

	// AssumeYes skips the interactive confirmation before execution.
	AssumeYes bool

	// Confirm is called before executing the plan when AssumeYes is false.
	// A nil Confirm with AssumeYes false aborts execution.
	Confirm func(prompt string) bool
}

// BatchReport summarises a batch run.
type BatchReport struct {
	// Records holds one entry per discovered document, in traversal order.
	Records []domain.Record

	// Succeeded counts fully analysed documents.
	Succeeded int

	// Failed counts documents that hit a pipeline error.
	Failed int

	// Skipped counts files whose extension no extractor claims.
	Skipped int

	// StructurePath is where the folder structure JSON was written,
	// empty in analyze-only mode.
	StructurePath string

	// PlanPath is where the execution plan was written,
	// empty in analyze-only mode.
	PlanPath string

	// Executed reports whether the plan was applied to the filesystem.
	Executed bool
}

// Watcher processes newly created documents in a directory as they appear.
type Watcher interface {
	// Watch blocks until ctx is cancelled, running the per-document
	// pipeline for each new supported file.
	Watch(ctx context.Context, dir string) error
}
