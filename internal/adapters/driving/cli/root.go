// Package cli implements the archivist command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/archivist-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/archivist-cli/internal/adapters/driven/index/csvfile"
	"github.com/custodia-labs/archivist-cli/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/archivist-cli/internal/core/services"
	"github.com/custodia-labs/archivist-cli/internal/extractors/docx"
	"github.com/custodia-labs/archivist-cli/internal/extractors/pdf"
	"github.com/custodia-labs/archivist-cli/internal/extractors/plaintext"
	"github.com/custodia-labs/archivist-cli/internal/langdetect"
	"github.com/custodia-labs/archivist-cli/internal/logger"
	"github.com/custodia-labs/archivist-cli/internal/naming"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Services wired by initServices before any subcommand runs.
var (
	organizerService driving.Organizer
	archiverService  driving.Archiver
	watcherService   driving.Watcher
	llmService       driven.LLMService
	configStore      *configfile.Store
)

// Persistent flag values.
var (
	flagVerbose    bool
	flagConfigPath string
	flagIndexPath  string
)

var rootCmd = &cobra.Command{
	Use:   "archivist",
	Short: "Analyse, name, and index documents with a local language model",
	Long: `Archivist extracts text from documents, asks a local Ollama model for a
summary, topic tags, and metadata, detects the language, and appends the
result to a CSV master index under a standardised filename.

All analysis runs locally. No document content leaves the machine.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(*cobra.Command, []string) {
		if llmService != nil {
			llmService.Close() //nolint:errcheck // nothing to do on close failure
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "",
		"path to the config file (default ~/.archivist/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagIndexPath, "index", "",
		"path to the master index CSV (overrides config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the adapter and service graph from configuration.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	store, err := configfile.NewStore(flagConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configStore = store
	cfg := store.Config()

	indexPath := cfg.Index.Path
	if flagIndexPath != "" {
		indexPath = flagIndexPath
	}

	llmService = ollama.New(ollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.Model,
		Timeout: time.Duration(cfg.Ollama.TimeoutSeconds) * time.Second,
	})

	indexStore, err := csvfile.New(indexPath)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}

	registry := services.NewExtractorRegistry(
		plaintext.New(),
		pdf.New(),
		docx.New(),
	)
	organizer := services.NewOrganizerService(
		registry,
		langdetect.New(),
		services.NewAnalysisService(llmService, services.AnalysisConfig{
			MaxExcerptChars: cfg.Analysis.MaxExcerptChars,
			RatePerMinute:   cfg.Analysis.RatePerMinute,
		}),
		naming.NewBuilder(cfg.Naming.MaxLength),
		indexStore,
	)

	organizerService = organizer
	archiverService = services.NewArchiveService(organizer, registry)
	watcherService = services.NewWatchService(organizer, registry, 0)
	return nil
}
