// Package csvfile persists the master index as an append-only CSV file.
// The file is created with a header on first use, then opened, appended,
// and closed once per row so a crash never loses previously written rows.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// header is the master index column set. Written exactly once.
var header = []string{
	"original_path",
	"new_filename",
	"summary",
	"tags",
	"language",
	"status",
	"timestamp",
}

// Store is a CSV-backed IndexStore. Appends are serialised with a mutex:
// watch mode runs the pipeline from settle-timer goroutines, and two
// unsynchronised appends on a fresh index could both write the header.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store writing to the CSV file at path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}
	return &Store{path: path}, nil
}

// Path returns the index file location.
func (s *Store) Path() string {
	return s.path
}

// Append writes one row, creating the file with a header if absent.
func (s *Store) Append(_ context.Context, row domain.IndexRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrIndexWrite, s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", domain.ErrIndexWrite, s.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("%w: write header: %v", domain.ErrIndexWrite, err)
		}
	}

	if err := w.Write(encode(row)); err != nil {
		return fmt.Errorf("%w: write row for %s: %v", domain.ErrIndexWrite, row.OriginalPath, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", domain.ErrIndexWrite, s.path, err)
	}
	return nil
}

// ReadAll returns every row in append order. A missing file is an empty
// index, not an error.
func (s *Store) ReadAll(_ context.Context) ([]domain.IndexRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrIndexWrite, s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	var rows []domain.IndexRow
	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrIndexWrite, s.path, err)
		}
		if first {
			first = false
			continue // header
		}
		rows = append(rows, decode(record))
	}
}

// encode serialises a row into CSV cells.
func encode(row domain.IndexRow) []string {
	return []string{
		row.OriginalPath,
		row.NewFilename,
		row.JoinedSummary(),
		row.JoinedTags(),
		row.Language.String(),
		row.Status.String(),
		row.Timestamp.UTC().Format(time.RFC3339),
	}
}

// decode parses CSV cells back into a row. Best effort: a bad timestamp
// cell yields a zero time rather than failing the whole read.
func decode(record []string) domain.IndexRow {
	ts, _ := time.Parse(time.RFC3339, record[6])
	row := domain.IndexRow{
		OriginalPath: record[0],
		NewFilename:  record[1],
		Tags:         domain.SplitTags(record[3]),
		Language:     domain.Language(record[4]),
		Status:       domain.Status(record[5]),
		Timestamp:    ts,
	}
	if record[2] != "" {
		row.Summary = splitBullets(record[2])
	}
	return row
}

func splitBullets(cell string) []string {
	var bullets []string
	for _, b := range strings.Split(cell, " | ") {
		if b != "" {
			bullets = append(bullets, b)
		}
	}
	return bullets
}
