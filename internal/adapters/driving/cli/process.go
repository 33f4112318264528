package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driving"
)

var flagRename bool

var processCmd = &cobra.Command{
	Use:   "process <path>",
	Short: "Analyse and index a single document",
	Long: `Runs the full pipeline for one document: extract its text, ask the local
model for a summary, tags, and metadata, detect the language, and append
the result to the master index. The file itself is not touched unless
--rename is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&flagRename, "rename", false,
		"rename the file in place to its standardised name")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if organizerService == nil {
		return errors.New("organizer service not configured")
	}

	ctx := context.Background()
	if err := pingModel(ctx); err != nil {
		return err
	}

	rec, err := organizerService.ProcessFile(ctx, args[0], driving.ProcessOptions{
		Rename: flagRename,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			return fmt.Errorf("cannot process %s: %w", args[0], err)
		}
		return fmt.Errorf("processing failed: %w", err)
	}

	printRecord(cmd, rec)
	return nil
}

// pingModel fails fast with a readable message when the endpoint is down,
// before any extraction work happens.
func pingModel(ctx context.Context) error {
	if llmService == nil {
		return errors.New("llm service not configured")
	}
	if err := llmService.Ping(ctx); err != nil {
		return fmt.Errorf("%w: is Ollama running? (%v)", domain.ErrInferenceUnavailable, err)
	}
	return nil
}

func printRecord(cmd *cobra.Command, rec *domain.Record) {
	cmd.Printf("Analysed: %s\n", rec.Path)
	cmd.Printf("  New name: %s\n", rec.NewName)
	cmd.Printf("  Language: %s\n", rec.Analysis.Language.Description())
	cmd.Printf("  Tags:     %s\n", strings.Join(rec.Analysis.Tags, ", "))
	cmd.Println("  Summary:")
	for _, bullet := range rec.Analysis.Summary {
		cmd.Printf("    - %s\n", bullet)
	}
	if !rec.Analysis.Metadata.IsZero() {
		m := rec.Analysis.Metadata
		if m.Title != "" {
			cmd.Printf("  Title:    %s\n", m.Title)
		}
		if m.Authors != "" {
			cmd.Printf("  Authors:  %s\n", m.Authors)
		}
		if m.Date != "" {
			cmd.Printf("  Date:     %s\n", m.Date)
		}
	}
}
