package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/archivist-cli/internal/core/ports/driving"
)

var (
	flagDryRun      bool
	flagAssumeYes   bool
	flagAnalyzeOnly bool
)

// Summary block styles.
var (
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var archiveCmd = &cobra.Command{
	Use:   "archive <directory>",
	Short: "Analyse a directory and reorganise it by topic",
	Long: `Runs the batch flow over a directory: every supported document is
analysed and indexed, a folder structure grouped by primary tag is
proposed, and an execution plan is written for review. After
confirmation the documents are renamed and moved into their folders.

A failure on one document is recorded in the index and the batch
continues; the run only aborts when the directory itself is unreadable.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().BoolVar(&flagDryRun, "dry-run", false,
		"write the plan but do not move any files")
	archiveCmd.Flags().BoolVarP(&flagAssumeYes, "yes", "y", false,
		"skip the confirmation prompt before executing the plan")
	archiveCmd.Flags().BoolVar(&flagAnalyzeOnly, "analyze-only", false,
		"stop after analysis; no structure, plan, or moves")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	if archiverService == nil {
		return errors.New("archive service not configured")
	}

	ctx := context.Background()
	if err := pingModel(ctx); err != nil {
		return err
	}

	report, err := archiverService.Run(ctx, args[0], driving.ArchiveOptions{
		AnalyzeOnly: flagAnalyzeOnly,
		DryRun:      flagDryRun,
		AssumeYes:   flagAssumeYes,
		Confirm:     confirmOnTerminal(cmd),
	})
	if report != nil {
		printBatchSummary(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("archive failed: %w", err)
	}

	// Partial failure is expected operation; the run only signals failure
	// when nothing at all was analysed.
	if report.Succeeded == 0 && report.Failed > 0 {
		return errors.New("no documents could be analysed")
	}
	return nil
}

// confirmOnTerminal returns the confirmation callback for plan execution.
// Without a terminal on stdin there is nobody to ask, so it declines.
func confirmOnTerminal(cmd *cobra.Command) func(string) bool {
	return func(prompt string) bool {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			cmd.Println("stdin is not a terminal; pass --yes to execute the plan")
			return false
		}
		cmd.Printf("%s [y/N]: ", prompt)
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n') //nolint:errcheck // prompt fallback is decline
		answer := strings.ToLower(strings.TrimSpace(input))
		return answer == "y" || answer == "yes"
	}
}

func printBatchSummary(cmd *cobra.Command, report *driving.BatchReport) {
	lines := []string{
		fmt.Sprintf("Analysed  %s", successStyle.Render(fmt.Sprintf("%d", report.Succeeded))),
		fmt.Sprintf("Failed    %s", failureStyle.Render(fmt.Sprintf("%d", report.Failed))),
		fmt.Sprintf("Skipped   %s", mutedStyle.Render(fmt.Sprintf("%d", report.Skipped))),
	}
	if report.StructurePath != "" {
		lines = append(lines, fmt.Sprintf("Structure %s", report.StructurePath))
	}
	if report.PlanPath != "" {
		lines = append(lines, fmt.Sprintf("Plan      %s", report.PlanPath))
	}
	if report.Executed {
		lines = append(lines, successStyle.Render("Plan executed."))
	} else if report.PlanPath != "" {
		lines = append(lines, mutedStyle.Render("Plan not executed."))
	}
	cmd.Println(summaryBoxStyle.Render(strings.Join(lines, "\n")))
}
