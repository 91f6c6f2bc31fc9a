package driving

import (
	"context"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// Assistant answers questions against the ingested corpus and keeps
// the session conversation history.
type Assistant interface {
	// Ask sends a question and records both turns in the history.
	Ask(ctx context.Context, query string) (domain.Answer, error)

	// AskAudio sends an audio file containing a spoken question. The
	// exchange is not threaded into the session history: the backend
	// does not echo the transcribed question back.
	AskAudio(ctx context.Context, path string) (domain.Answer, error)

	// Transcribe converts an audio file to text without asking.
	Transcribe(ctx context.Context, path string) (domain.Transcription, error)

	// History returns a copy of the session conversation so far.
	History() []domain.ChatMessage

	// Reset clears the session conversation.
	Reset()

	// Health probes the backend.
	Health(ctx context.Context) error
}
