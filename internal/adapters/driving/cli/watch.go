package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/watcher"
	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
)

// watchDebounce is a flag for the watch command.
var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and upload new PDFs",
	Long: `Watches a drop directory and uploads PDF documents as they appear.

Without an argument, the configured drop directory is used (set it with
'assistant config drop-dir'). Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"Quiet period before a new file is uploaded")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := ""
	if len(args) > 0 {
		dir = args[0]
	} else if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		dir = settings.Ingest.DropDir
	}
	if dir == "" {
		return errors.New("no directory given and no drop directory configured")
	}

	ctx := cmd.Context()
	go reportSettled(ctx, cmd, ingestService)

	w := watcher.New(ingestService, watcher.Config{Dir: dir, Debounce: watchDebounce})

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", dir)
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	ingestService.Wait()
	cmd.Println("Stopped.")
	return nil
}

// reportSettled prints each upload outcome as it lands.
func reportSettled(ctx context.Context, cmd *cobra.Command, ingestor driving.Ingestor) {
	seen := make(map[string]bool)
	for _, record := range ingestor.Snapshot() {
		if record.Status.IsTerminal() {
			seen[record.ID] = true
		}
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, record := range ingestor.Snapshot() {
				if seen[record.ID] || !record.Status.IsTerminal() {
					continue
				}
				seen[record.ID] = true
				switch record.Status {
				case domain.UploadCompleted:
					cmd.Printf("  uploaded %s: %s\n", record.DisplayName, record.Detail)
				case domain.UploadFailed:
					cmd.Printf("  failed %s: %s\n", record.DisplayName, record.FailureDetail)
				}
			}
		}
	}
}
