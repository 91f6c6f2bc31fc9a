package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Upload PDF documents to the assistant",
	Long: `Uploads one or more PDF documents into the assistant's knowledge base.

Only PDF files are accepted; anything else is skipped. A file with the
same name and size as one already uploading is skipped as a duplicate.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()

	inputs := make([]domain.RawInput, 0, len(args))
	for _, path := range args {
		input, err := domain.RawInputFromPath(path)
		if err != nil {
			cmd.Printf("Skipping %s: %v\n", path, err)
			continue
		}
		inputs = append(inputs, input)
	}
	if len(inputs) == 0 {
		return errors.New("no readable files to upload")
	}

	records, err := ingestService.Submit(ctx, inputs)
	if err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("Nothing to upload: the files were refused or are already uploading.")
		return nil
	}

	cmd.Printf("Uploading %d file(s)...\n", len(records))
	uploadWithProgress(ctx, cmd, ingestService, records)

	// Report per-file outcomes in submission order
	byID := make(map[string]domain.DocumentRecord)
	for _, record := range ingestService.Snapshot() {
		byID[record.ID] = record
	}

	completed, failed := 0, 0
	for _, submitted := range records {
		record, ok := byID[submitted.ID]
		if !ok {
			continue
		}
		switch record.Status {
		case domain.UploadCompleted:
			completed++
			cmd.Printf("  %s: %s\n", record.DisplayName, record.Detail)
		case domain.UploadFailed:
			failed++
			cmd.Printf("  %s: failed (%s)\n", record.DisplayName, record.FailureDetail)
		}
	}

	cmd.Printf("Done: %d uploaded, %d failed.\n", completed, failed)

	if completed == 0 {
		return errors.New("all uploads failed")
	}
	return nil
}

// uploadWithProgress blocks until the batch settles, printing progress
// as uploads finish.
func uploadWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	ingestor driving.Ingestor,
	submitted []domain.DocumentRecord,
) {
	ids := make(map[string]struct{}, len(submitted))
	for _, record := range submitted {
		ids[record.ID] = struct{}{}
	}

	// Wait for the batch in a goroutine so progress can tick alongside
	done := make(chan struct{})
	go func() {
		ingestor.Wait()
		close(done)
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastSettled := 0
	for {
		select {
		case <-done:
			if lastSettled > 0 {
				cmd.Printf("\r")
			}
			return
		case <-ticker.C:
			settled := settledCount(ingestor.Snapshot(), ids)
			if settled > lastSettled {
				cmd.Printf("\rUploaded %d of %d...", settled, len(submitted))
				lastSettled = settled
			}
		case <-ctx.Done():
			// In-flight uploads fail fast once the context ends; keep
			// draining until the batch settles
			<-done
			cmd.Println("\nCancelled.")
			return
		}
	}
}

// settledCount counts submitted records that have reached a terminal
// state.
func settledCount(snapshot []domain.DocumentRecord, ids map[string]struct{}) int {
	count := 0
	for _, record := range snapshot {
		if _, ok := ids[record.ID]; ok && record.Status.IsTerminal() {
			count++
		}
	}
	return count
}
