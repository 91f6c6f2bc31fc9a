package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Asks the assistant a question and prints the answer with its sources.

The answer is grounded in the ingested documents; when the assistant
cannot ground an answer, it says so rather than inventing one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	query := strings.Join(args, " ")

	answer, err := assistantService.Ask(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	printAnswer(cmd, answer)
	return nil
}

// printAnswer renders an answer with its citations.
func printAnswer(cmd *cobra.Command, answer domain.Answer) {
	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, source := range answer.Sources {
			cmd.Printf("  %s (relevance %.2f)\n", source.Citation, source.Relevance)
		}
	}

	cmd.Println()
	cmd.Printf("Confidence: %.0f%%\n", answer.Confidence*100)
	if !answer.Grounded {
		cmd.Println("Note: this answer could not be grounded in your documents.")
	}
}
