package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driven"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
	"github.com/shashanksh04/RAG-Assistant/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.Ingestor = (*IngestionService)(nil)

// IngestionService coordinates document uploads into the backend corpus.
//
// Every submission gets a synthetic identity, a pending registry record
// and an upload task. Tasks run concurrently under a weighted semaphore
// so a large batch cannot open one connection per file, and each task
// settles its own record independently: one failure never disturbs the
// rest of the batch.
type IngestionService struct {
	uploads   driven.UploadClient
	snapshots driven.SnapshotLoader
	notifier  driven.UploadNotifier
	settings  domain.IngestSettings

	registry *uploadRegistry
	slots    *semaphore.Weighted

	// Lifecycle tracking
	wg        sync.WaitGroup
	startOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewIngestionService creates a new ingestion service.
// The notifier is optional - if nil, settled uploads are only logged.
func NewIngestionService(
	uploads driven.UploadClient,
	snapshots driven.SnapshotLoader,
	notifier driven.UploadNotifier,
	settings domain.IngestSettings,
) *IngestionService {
	concurrency := settings.Concurrency
	if concurrency < 1 {
		concurrency = domain.DefaultSettings().Ingest.Concurrency
	}
	return &IngestionService{
		uploads:   uploads,
		snapshots: snapshots,
		notifier:  notifier,
		settings:  settings,
		registry:  newUploadRegistry(),
		slots:     semaphore.NewWeighted(int64(concurrency)),
	}
}

// Start triggers the one-time startup snapshot fetch. The fetch runs in
// the background: submissions never wait for it, and its failure only
// surfaces as a notification.
func (s *IngestionService) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.loadSnapshot(ctx)
	})
}

// Submit normalises the given inputs, registers one pending record per
// accepted file and schedules its upload. Returns the created records
// without waiting for any upload to finish.
func (s *IngestionService) Submit(ctx context.Context, inputs []domain.RawInput) ([]domain.DocumentRecord, error) {
	if s.isClosed() {
		return nil, domain.ErrIngestorClosed
	}
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	// 1. Normalise: filter to accepted types, drop duplicates
	intake := normaliseInputs(inputs, s.settings, s.registry.hasLive)
	s.reportRejections(intake.rejected)

	if len(intake.accepted) == 0 {
		return []domain.DocumentRecord{}, nil
	}

	// 2. Register one pending record per accepted file, in one pass so
	// observers see the whole batch appear at once
	records := make([]domain.DocumentRecord, 0, len(intake.accepted))
	for _, file := range intake.accepted {
		records = append(records, domain.DocumentRecord{
			ID:          uuid.New().String(),
			DisplayName: file.Name,
			Detail:      domain.FormatByteSize(file.Size),
			Size:        file.Size,
			Status:      domain.UploadPending,
		})
	}
	s.registry.insert(records...)

	// 3. Schedule one upload task per record
	for i, file := range intake.accepted {
		s.wg.Add(1)
		go s.runUpload(ctx, records[i].ID, file)
	}

	logger.Debug("Submitted %d of %d files", len(records), len(inputs))
	return records, nil
}

// Remove deletes a record from the local registry. The backend corpus
// keeps the document: the server exposes no delete endpoint, so removal
// is a local act only.
func (s *IngestionService) Remove(id string) error {
	if err := s.registry.remove(id); err != nil {
		return fmt.Errorf("remove record: %w", err)
	}
	return nil
}

// Snapshot returns a copy of all records in display order.
func (s *IngestionService) Snapshot() []domain.DocumentRecord {
	return s.registry.snapshot()
}

// ListRemote fetches the backend's current corpus listing.
func (s *IngestionService) ListRemote(ctx context.Context) ([]domain.RemoteDocument, error) {
	docs, err := s.snapshots.LoadDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Wait blocks until every in-flight upload has settled.
func (s *IngestionService) Wait() {
	s.wg.Wait()
}

// Close stops accepting submissions. Tasks that settle after Close are
// dropped rather than applied to the registry.
func (s *IngestionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// runUpload executes one upload task from queue slot to settled record.
func (s *IngestionService) runUpload(ctx context.Context, id string, file domain.FileDescriptor) {
	defer s.wg.Done()

	// 1. Wait for an upload slot
	if err := s.slots.Acquire(ctx, 1); err != nil {
		s.settle(domain.UploadOutcome{
			ID:            id,
			Status:        domain.UploadFailed,
			FailureDetail: "upload cancelled",
		}, file.Name)
		return
	}
	defer s.slots.Release(1)

	// 2. Transition to uploading; a false return means the record was
	// removed while queued, so the work is moot
	if !s.registry.markUploading(id) {
		logger.Debug("Skipping upload of %s: record removed while queued", file.Name)
		return
	}

	// 3. Transfer
	receipt, err := s.uploads.Ingest(ctx, file)

	// 4. Settle the record
	outcome := domain.UploadOutcome{ID: id}
	if err != nil {
		outcome.Status = domain.UploadFailed
		outcome.FailureDetail = domain.FailureDetail(err)
		logger.Warn("Upload failed for %s: %v", file.Name, err)
	} else {
		outcome.Status = domain.UploadCompleted
		outcome.ChunksIngested = receipt.ChunksIngested
		logger.Info("Ingested %s: %d chunks", file.Name, receipt.ChunksIngested)
	}
	s.settle(outcome, file.Name)
}

// settle merges a terminal outcome and notifies observers. Outcomes
// arriving after Close, or for records removed mid-flight, are dropped.
func (s *IngestionService) settle(outcome domain.UploadOutcome, displayName string) {
	if s.isClosed() {
		logger.Debug("Dropping late completion for %s", displayName)
		return
	}
	if !s.registry.apply(outcome) {
		logger.Debug("Dropping outcome for %s: record gone or already settled", displayName)
		return
	}
	if s.notifier != nil {
		record, ok := s.registry.get(outcome.ID)
		if !ok {
			return
		}
		s.notifier.UploadFinished(domain.UploadEvent{
			DisplayName:   record.DisplayName,
			Status:        record.Status,
			FailureDetail: record.FailureDetail,
		})
	}
}

// loadSnapshot seeds the registry with the backend's existing corpus.
// Every entry starts completed; failure to fetch never blocks or fails
// submissions.
func (s *IngestionService) loadSnapshot(ctx context.Context) {
	docs, err := s.snapshots.LoadDocuments(ctx)
	if err != nil {
		logger.Warn("Could not load document snapshot: %v", err)
		if s.notifier != nil {
			s.notifier.SnapshotFailed(err)
		}
		return
	}
	if s.isClosed() {
		logger.Debug("Dropping snapshot: ingestor closed")
		return
	}

	records := make([]domain.DocumentRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.Record(uuid.New().String()))
	}
	s.registry.insert(records...)
	logger.Info("Seeded %d documents from the backend", len(records))
}

// reportRejections surfaces refused files when configured to. The
// default is the silent drop inherited from the original intake rules.
func (s *IngestionService) reportRejections(rejected []domain.RejectionEvent) {
	for _, event := range rejected {
		logger.Debug("Refused %s: %s", event.Name, event.Reason)
		if s.settings.NotifyRejections && s.notifier != nil {
			s.notifier.UploadRejected(event)
		}
	}
}

// isClosed reports whether Close has been called.
func (s *IngestionService) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
