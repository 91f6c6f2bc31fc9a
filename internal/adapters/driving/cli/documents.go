package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List documents in the assistant's knowledge base",
	Long:  `Lists every document the assistant has ingested, with chunk and page counts.`,
	RunE:  runDocuments,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docs, err := ingestService.ListRemote(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet. Upload one with 'assistant ingest <file>'.")
		return nil
	}

	cmd.Println("Ingested documents:")
	cmd.Println()
	for _, doc := range docs {
		cmd.Printf("  %s\n", doc.Filename)
		cmd.Printf("    Chunks: %s\n", domain.FormatChunkCount(doc.ChunkCount))
		if doc.TotalPages > 0 {
			cmd.Printf("    Pages:  %d\n", doc.TotalPages)
		}
		if doc.Title != "" && doc.Title != "Unknown" {
			cmd.Printf("    Title:  %s\n", doc.Title)
		}
		if doc.Author != "" && doc.Author != "Unknown" {
			cmd.Printf("    Author: %s\n", doc.Author)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d document(s)\n", len(docs))
	return nil
}
