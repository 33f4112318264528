// Package memory provides an in-memory IndexStore for tests.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store is an in-memory, append-only IndexStore.
type Store struct {
	mu   sync.Mutex
	rows []domain.IndexRow

	// AppendErr, when set, is returned by Append. Lets tests exercise
	// index failure paths.
	AppendErr error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Append stores the row.
func (s *Store) Append(_ context.Context, row domain.IndexRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.rows = append(s.rows, row)
	return nil
}

// ReadAll returns a copy of the rows in append order.
func (s *Store) ReadAll(_ context.Context) ([]domain.IndexRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.IndexRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}
