package driven

import (
	"context"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
)

// IndexStore persists master index rows. Rows are append-only.
type IndexStore interface {
	// Append writes one row, creating the index with a header first if it
	// does not exist yet. Returns domain.ErrIndexWrite on filesystem errors.
	Append(ctx context.Context, row domain.IndexRow) error

	// ReadAll returns every row in append order. Batch runs keep their
	// phase-1 results in memory; this exists for inspection and tests.
	ReadAll(ctx context.Context) ([]domain.IndexRow, error)
}
