package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".txt", ".md"}, New().Extensions())
}

func TestExtractUTF8(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("quarterly sales summary — très bien"))

	result, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "quarterly sales summary — très bien", result.Content)
}

func TestExtractWindows1252(t *testing.T) {
	// "café" with 0xE9, plus a 0x93 curly quote that only CP1252 defines.
	path := writeFile(t, "legacy.txt", []byte{'c', 'a', 'f', 0xE9, ' ', 0x93, 'q', 0x94})

	result, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, result.Content, "café")
	assert.Contains(t, result.Content, "“q”")
}

func TestExtractMissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtractEmptyPath(t *testing.T) {
	_, err := New().Extract(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
