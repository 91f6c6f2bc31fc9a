package driven

import "github.com/shashanksh04/RAG-Assistant/internal/core/domain"

// UploadNotifier observes the ingestion pipeline. Implementations must
// be cheap and non-blocking: the controller invokes them from upload
// worker goroutines.
type UploadNotifier interface {
	// UploadFinished fires exactly once per settled upload.
	UploadFinished(event domain.UploadEvent)

	// UploadRejected fires when intake refuses a file. Only invoked
	// when rejection notifications are enabled in settings.
	UploadRejected(event domain.RejectionEvent)

	// SnapshotFailed fires when the startup corpus fetch fails.
	SnapshotFailed(err error)
}
