package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
)

func TestDefaultsWhenFileMissing(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
	assert.Equal(t, "master_index.csv", cfg.Index.Path)
	assert.Equal(t, 15000, cfg.Analysis.MaxExcerptChars)
	assert.Equal(t, 120, cfg.Naming.MaxLength)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[ollama]\nmodel = \"phi4\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, "phi4", cfg.Ollama.Model)
	// Unset keys keep their defaults.
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 120, cfg.Ollama.TimeoutSeconds)
}

func TestSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("ollama.model", "phi4"))
	require.NoError(t, store.Set("index.path", "/tmp/idx.csv"))
	require.NoError(t, store.Set("naming.max_length", "80"))

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	cfg := reloaded.Config()
	assert.Equal(t, "phi4", cfg.Ollama.Model)
	assert.Equal(t, "/tmp/idx.csv", cfg.Index.Path)
	assert.Equal(t, 80, cfg.Naming.MaxLength)
}

func TestSetUnknownKey(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	err = store.Set("nope.nothing", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetInvalidInt(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.ErrorIs(t, store.Set("naming.max_length", "zero"), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Set("naming.max_length", "-5"), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Set("analysis.rate_per_minute", "-1"), domain.ErrInvalidInput)
}
