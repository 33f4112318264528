package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Process new documents as they appear in a directory",
	Long: `Watches a directory and runs the analysis pipeline for every supported
document created or modified under it. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watcherService == nil {
		return errors.New("watch service not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pingModel(ctx); err != nil {
		return err
	}

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", args[0])
	err := watcherService.Watch(ctx, args[0])
	if errors.Is(err, context.Canceled) {
		cmd.Println("Stopped.")
		return nil
	}
	return err
}
