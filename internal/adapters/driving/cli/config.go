package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage archivist configuration",
	Long: `View and change configuration values. Configuration lives in a TOML file,
~/.archivist/config.toml by default.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets one configuration value by dotted key and saves the file.

Keys:
  ollama.base_url            Ollama API endpoint
  ollama.model               model name
  ollama.timeout_seconds     per-request timeout
  index.path                 master index CSV location
  analysis.max_excerpt_chars excerpt size sent to the model
  analysis.rate_per_minute   inference rate cap (0 disables)
  naming.max_length          generated filename length cap`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	cfg := configStore.Config()

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	cmd.Println("[ollama]")
	cmd.Printf("  base_url        = %s\n", cfg.Ollama.BaseURL)
	cmd.Printf("  model           = %s\n", cfg.Ollama.Model)
	cmd.Printf("  timeout_seconds = %d\n", cfg.Ollama.TimeoutSeconds)
	cmd.Println()
	cmd.Println("[index]")
	cmd.Printf("  path = %s\n", cfg.Index.Path)
	cmd.Println()
	cmd.Println("[analysis]")
	cmd.Printf("  max_excerpt_chars = %d\n", cfg.Analysis.MaxExcerptChars)
	cmd.Printf("  rate_per_minute   = %d\n", cfg.Analysis.RatePerMinute)
	cmd.Println()
	cmd.Println("[naming]")
	cmd.Printf("  max_length = %d\n", cfg.Naming.MaxLength)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	if err := configStore.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("set %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}
