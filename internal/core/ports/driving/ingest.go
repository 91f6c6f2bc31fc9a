package driving

import (
	"context"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// Ingestor coordinates document uploads into the backend corpus.
//
// Submissions are asynchronous: Submit registers records and returns
// immediately while uploads proceed in a bounded worker pool. Observers
// track progress through Snapshot polling or the notifier.
type Ingestor interface {
	// Start triggers the one-time startup snapshot fetch. Safe to call
	// more than once; only the first call has effect.
	Start(ctx context.Context)

	// Submit normalises the given inputs, registers one pending record
	// per accepted file and schedules its upload. It returns the
	// created records without waiting for any upload to finish.
	//
	// Files refused by the intake filter or deduplicated against live
	// uploads produce no record; a submission where every input was
	// refused returns an empty slice and no error. Submitting an empty
	// input list returns ErrEmptyBatch.
	Submit(ctx context.Context, inputs []domain.RawInput) ([]domain.DocumentRecord, error)

	// Remove deletes the record with the given identity from the local
	// registry. The backend corpus is not touched. Returns ErrNotFound
	// if no such record exists.
	Remove(id string) error

	// Snapshot returns a copy of all records in display order.
	Snapshot() []domain.DocumentRecord

	// ListRemote fetches the backend's current corpus listing.
	ListRemote(ctx context.Context) ([]domain.RemoteDocument, error)

	// Wait blocks until every in-flight upload has settled.
	Wait()

	// Close stops accepting submissions. Uploads that settle after
	// Close are dropped.
	Close()
}
