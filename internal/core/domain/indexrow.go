package domain

import (
	"strings"
	"time"
)

// Tag and summary separators used when serialising lists into CSV cells.
const (
	tagSeparator    = ","
	bulletSeparator = " | "
)

// IndexRow is one persisted record in the master index. Rows are append-only;
// nothing mutates or deletes them.
type IndexRow struct {
	// OriginalPath is the document's path at processing time.
	OriginalPath string

	// NewFilename is the standardised filename, empty for failure rows.
	NewFilename string

	// Summary is the bullet summary, empty for failure rows.
	Summary []string

	// Tags is the ordered tag list, empty for failure rows.
	Tags []string

	// Language is the detected language code.
	Language Language

	// Status is the processing outcome.
	Status Status

	// Timestamp is when the row was produced.
	Timestamp time.Time
}

// NewIndexRow builds the row for a finished processing record.
func NewIndexRow(rec Record) IndexRow {
	row := IndexRow{
		OriginalPath: rec.Path,
		NewFilename:  rec.NewName,
		Status:       rec.Status,
		Timestamp:    rec.ProcessedAt,
	}
	if rec.Status == StatusAnalyzed {
		row.Summary = rec.Analysis.Summary
		row.Tags = rec.Analysis.Tags
		row.Language = rec.Analysis.Language
	}
	return row
}

// JoinedSummary returns the summary bullets as a single CSV cell value.
func (r IndexRow) JoinedSummary() string {
	return strings.Join(r.Summary, bulletSeparator)
}

// JoinedTags returns the tags as a single CSV cell value.
func (r IndexRow) JoinedTags() string {
	return strings.Join(r.Tags, tagSeparator)
}

// SplitTags parses a serialised tag cell back into a tag list.
func SplitTags(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, tagSeparator)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
