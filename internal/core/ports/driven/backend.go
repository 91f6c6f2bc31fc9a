package driven

import (
	"context"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// UploadClient transfers one file into the backend corpus.
type UploadClient interface {
	// Ingest uploads the described file and returns the backend's
	// acknowledgement. Failures are classified: transport errors and
	// server rejections unwrap to *domain.UploadError.
	Ingest(ctx context.Context, file domain.FileDescriptor) (domain.IngestReceipt, error)
}

// SnapshotLoader fetches the backend's current corpus listing.
type SnapshotLoader interface {
	// LoadDocuments returns every document the backend has ingested,
	// in the backend's listing order.
	LoadDocuments(ctx context.Context) ([]domain.RemoteDocument, error)
}

// AnswerClient performs question answering and speech-to-text against
// the backend.
type AnswerClient interface {
	// Ask sends a question and returns the grounded answer.
	Ask(ctx context.Context, req domain.AskRequest) (domain.Answer, error)

	// AskAudio uploads a spoken question and returns the answer.
	AskAudio(ctx context.Context, path string) (domain.Answer, error)

	// Transcribe uploads an audio file and returns its transcript.
	Transcribe(ctx context.Context, path string) (domain.Transcription, error)

	// Health probes the backend's liveness endpoint.
	Health(ctx context.Context) error
}
