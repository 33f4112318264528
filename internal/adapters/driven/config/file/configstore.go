// Package file provides the TOML-backed configuration store.
// Configuration lives in a single file inside the archivist config
// directory, ~/.archivist/config.toml by default.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
)

// Config is the full archivist configuration.
type Config struct {
	Ollama   OllamaConfig   `toml:"ollama"`
	Index    IndexConfig    `toml:"index"`
	Analysis AnalysisConfig `toml:"analysis"`
	Naming   NamingConfig   `toml:"naming"`
}

// OllamaConfig configures the local inference endpoint.
type OllamaConfig struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// IndexConfig configures the master index location.
type IndexConfig struct {
	Path string `toml:"path"`
}

// AnalysisConfig bounds what is sent to the model.
type AnalysisConfig struct {
	// MaxExcerptChars caps the document excerpt in analysis prompts.
	MaxExcerptChars int `toml:"max_excerpt_chars"`

	// RatePerMinute caps inference calls during batch runs. Zero disables
	// the limiter.
	RatePerMinute int `toml:"rate_per_minute"`
}

// NamingConfig configures the filename builder.
type NamingConfig struct {
	MaxLength int `toml:"max_length"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "llama3.2",
			TimeoutSeconds: 120,
		},
		Index: IndexConfig{
			Path: "master_index.csv",
		},
		Analysis: AnalysisConfig{
			MaxExcerptChars: 15000,
			RatePerMinute:   0,
		},
		Naming: NamingConfig{
			MaxLength: 120,
		},
	}
}

// Store loads and persists the configuration file.
type Store struct {
	path string
	cfg  Config
}

// NewStore creates a store backed by the TOML file at path.
// An empty path selects ~/.archivist/config.toml, creating the directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(home, ".archivist")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.toml")
	}

	s := &Store{path: path, cfg: Defaults()}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

// Config returns the current configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// Path returns the configuration file location.
func (s *Store) Path() string {
	return s.path
}

// load reads the TOML file over the defaults, so absent keys keep their
// default values.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	return toml.Unmarshal(data, &s.cfg)
}

// Save persists the current configuration to disk.
func (s *Store) Save() error {
	data, err := toml.Marshal(s.cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Set updates one configuration value by dotted key and persists
// immediately. Unknown keys fail with domain.ErrInvalidInput.
func (s *Store) Set(key, value string) error {
	switch key {
	case "ollama.base_url":
		s.cfg.Ollama.BaseURL = value
	case "ollama.model":
		s.cfg.Ollama.Model = value
	case "ollama.timeout_seconds":
		n, err := parsePositiveInt(value)
		if err != nil {
			return err
		}
		s.cfg.Ollama.TimeoutSeconds = n
	case "index.path":
		s.cfg.Index.Path = value
	case "analysis.max_excerpt_chars":
		n, err := parsePositiveInt(value)
		if err != nil {
			return err
		}
		s.cfg.Analysis.MaxExcerptChars = n
	case "analysis.rate_per_minute":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		s.cfg.Analysis.RatePerMinute = n
	case "naming.max_length":
		n, err := parsePositiveInt(value)
		if err != nil {
			return err
		}
		s.cfg.Naming.MaxLength = n
	default:
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	return s.Save()
}

func parsePositiveInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: expected a positive integer, got %q", domain.ErrInvalidInput, value)
	}
	return n, nil
}
