package services

import (
	"sync"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// uploadRegistry is the identity-keyed, ordered record store behind the
// ingestion service. All mutation goes through one mutex, so a batch
// insert or an outcome merge is observed atomically by Snapshot callers.
//
// Records only move forward through the upload lifecycle. An outcome
// whose status ranks below the record's current status is dropped, which
// makes merges commutative across tasks and idempotent per task.
type uploadRegistry struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*domain.DocumentRecord
}

func newUploadRegistry() *uploadRegistry {
	return &uploadRegistry{
		records: make(map[string]*domain.DocumentRecord),
	}
}

// insert appends records in the given order. Existing identities are
// overwritten in place without disturbing their position.
func (r *uploadRegistry) insert(records ...domain.DocumentRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		record := record
		if _, exists := r.records[record.ID]; !exists {
			r.order = append(r.order, record.ID)
		}
		r.records[record.ID] = &record
	}
}

// markUploading transitions a record to the uploading state. Returns
// false if the record no longer exists or the transition would move
// backwards.
func (r *uploadRegistry) markUploading(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return false
	}
	if domain.UploadUploading.Rank() < record.Status.Rank() {
		return false
	}
	record.Status = domain.UploadUploading
	return true
}

// apply merges a terminal outcome into the registry by identity.
// Returns false when the outcome was dropped: the record was removed
// mid-flight, or the outcome would move the status backwards.
func (r *uploadRegistry) apply(outcome domain.UploadOutcome) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[outcome.ID]
	if !ok {
		return false
	}
	if outcome.Status.Rank() < record.Status.Rank() {
		return false
	}

	record.Status = outcome.Status
	switch outcome.Status {
	case domain.UploadCompleted:
		record.Detail = domain.FormatChunkCount(outcome.ChunksIngested)
		record.FailureDetail = ""
	case domain.UploadFailed:
		record.FailureDetail = outcome.FailureDetail
	}
	return true
}

// remove deletes a record by identity.
func (r *uploadRegistry) remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// get returns a copy of the record with the given identity.
func (r *uploadRegistry) get(id string) (domain.DocumentRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return domain.DocumentRecord{}, false
	}
	return *record, true
}

// snapshot returns a copy of every record in insertion order.
func (r *uploadRegistry) snapshot() []domain.DocumentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.DocumentRecord, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, *r.records[id])
	}
	return records
}

// hasLive reports whether a non-terminal record with the same display
// name and size exists. Used by intake to deduplicate files that are
// already queued or uploading.
func (r *uploadRegistry) hasLive(name string, size int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.records {
		if record.Status.IsTerminal() {
			continue
		}
		if record.DisplayName == name && record.Size == size {
			return true
		}
	}
	return false
}

// len returns the number of records.
func (r *uploadRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
