package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/naming"
)

// fallbackFolder collects documents whose analysis produced no usable tag.
const fallbackFolder = "uncategorized"

// Structure is the proposed folder layout: one folder per primary tag,
// each holding the standardised filenames assigned to it.
type Structure struct {
	// Root is the directory the folders are created under.
	Root string `json:"root"`

	// Folders maps folder name to the standardised filenames it receives.
	Folders map[string][]string `json:"folders"`
}

// BuildStructure groups the analysed records by slugified primary tag.
// Failure and skipped records carry no analysis and are left out.
func BuildStructure(root string, records []domain.Record) *Structure {
	s := &Structure{Root: root, Folders: make(map[string][]string)}
	for _, a := range assignDestinations(root, records) {
		s.Folders[a.folder] = append(s.Folders[a.folder], a.name)
	}
	for _, names := range s.Folders {
		sort.Strings(names)
	}
	return s
}

// destAssignment binds one analysed document to its destination folder and
// a filename unique within that folder.
type destAssignment struct {
	source string
	folder string
	name   string
}

// assignDestinations resolves each analysed record to a destination. Names
// are unique per destination folder: documents from different source
// directories can carry identical generated names, and a move must never
// land on top of an earlier one. Disambiguation checks both the destination
// filesystem and the names already assigned in this batch.
func assignDestinations(root string, records []domain.Record) []destAssignment {
	taken := make(map[string]struct{})
	var out []destAssignment
	for _, rec := range records {
		if rec.Status != domain.StatusAnalyzed {
			continue
		}
		folder := FolderFor(rec.Analysis)
		name := naming.UniqueWith(rec.NewName, func(candidate string) bool {
			dest := filepath.Join(root, folder, candidate)
			if _, ok := taken[dest]; ok {
				return true
			}
			_, err := os.Stat(dest)
			return err == nil
		})
		taken[filepath.Join(root, folder, name)] = struct{}{}
		out = append(out, destAssignment{source: rec.Path, folder: folder, name: name})
	}
	return out
}

// FolderFor picks the destination folder for one analysis result.
func FolderFor(a domain.Analysis) string {
	if folder := naming.Slugify(a.PrimaryTag()); folder != "" {
		return folder
	}
	return fallbackFolder
}

// FolderNames returns the folder names in sorted order.
func (s *Structure) FolderNames() []string {
	names := make([]string, 0, len(s.Folders))
	for name := range s.Folders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteJSON persists the structure for review before execution.
func (s *Structure) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal folder structure: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrFilesystem, path, err)
	}
	return nil
}
