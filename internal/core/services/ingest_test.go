package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// --- Mock implementations for ingestion testing ---

type uploadReply struct {
	chunks int
	err    error
}

// ingestMockUploadClient implements driven.UploadClient. Replies are
// keyed by filename; a gate channel, when present, blocks the upload
// until the test releases it, which lets tests control resolution order.
type ingestMockUploadClient struct {
	mu          stdsync.Mutex
	replies     map[string]uploadReply
	gates       map[string]chan struct{}
	calls       []string
	inFlight    int
	maxInFlight int
}

func newIngestMockUploadClient() *ingestMockUploadClient {
	return &ingestMockUploadClient{
		replies: make(map[string]uploadReply),
		gates:   make(map[string]chan struct{}),
	}
}

func (m *ingestMockUploadClient) reply(name string, chunks int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[name] = uploadReply{chunks: chunks, err: err}
}

func (m *ingestMockUploadClient) gate(name string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.gates[name] = gate
	return gate
}

func (m *ingestMockUploadClient) Ingest(ctx context.Context, file domain.FileDescriptor) (domain.IngestReceipt, error) {
	m.mu.Lock()
	m.calls = append(m.calls, file.Name)
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	gate := m.gates[file.Name]
	reply, configured := m.replies[file.Name]
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.IngestReceipt{}, domain.NewTransportError(ctx.Err())
		}
	}

	if !configured {
		reply = uploadReply{chunks: 1}
	}
	if reply.err != nil {
		return domain.IngestReceipt{}, reply.err
	}
	return domain.IngestReceipt{Filename: file.Name, ChunksIngested: reply.chunks}, nil
}

func (m *ingestMockUploadClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *ingestMockUploadClient) peakConcurrency() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// ingestMockSnapshotLoader implements driven.SnapshotLoader.
type ingestMockSnapshotLoader struct {
	mu    stdsync.Mutex
	docs  []domain.RemoteDocument
	err   error
	gate  chan struct{}
	calls int
}

func (m *ingestMockSnapshotLoader) LoadDocuments(ctx context.Context) ([]domain.RemoteDocument, error) {
	m.mu.Lock()
	m.calls++
	gate := m.gate
	docs, err := m.docs, m.err
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (m *ingestMockSnapshotLoader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ingestMockNotifier implements driven.UploadNotifier with event capture.
type ingestMockNotifier struct {
	mu           stdsync.Mutex
	finished     []domain.UploadEvent
	rejected     []domain.RejectionEvent
	snapshotErrs []error
}

func (m *ingestMockNotifier) UploadFinished(event domain.UploadEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, event)
}

func (m *ingestMockNotifier) UploadRejected(event domain.RejectionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, event)
}

func (m *ingestMockNotifier) SnapshotFailed(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotErrs = append(m.snapshotErrs, err)
}

func (m *ingestMockNotifier) finishedEvents() []domain.UploadEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]domain.UploadEvent, len(m.finished))
	copy(events, m.finished)
	return events
}

func (m *ingestMockNotifier) rejectedEvents() []domain.RejectionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]domain.RejectionEvent, len(m.rejected))
	copy(events, m.rejected)
	return events
}

func (m *ingestMockNotifier) snapshotFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshotErrs)
}

// waitUntil polls a condition with a deadline so async assertions do
// not depend on scheduler timing.
func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Fail(t, "condition not met within "+timeout.String())
}

func pdfInput(name string, size int64) domain.RawInput {
	return domain.RawInput{
		Name:     name,
		Size:     size,
		MIMEType: "application/pdf",
		Path:     "/tmp/" + name,
	}
}

func newTestIngestor(uploads *ingestMockUploadClient, snapshots *ingestMockSnapshotLoader, notifier *ingestMockNotifier) *IngestionService {
	settings := domain.DefaultSettings().Ingest
	if uploads == nil {
		uploads = newIngestMockUploadClient()
	}
	if snapshots == nil {
		snapshots = &ingestMockSnapshotLoader{}
	}
	if notifier == nil {
		return NewIngestionService(uploads, snapshots, nil, settings)
	}
	return NewIngestionService(uploads, snapshots, notifier, settings)
}

// --- Tests ---

func TestNewIngestionService(t *testing.T) {
	service := newTestIngestor(nil, nil, nil)

	require.NotNil(t, service)
	assert.NotNil(t, service.registry)
	assert.NotNil(t, service.slots)
	assert.Empty(t, service.Snapshot())
}

func TestIngestionService_Submit_ReturnsBeforeUploadsSettle(t *testing.T) {
	uploads := newIngestMockUploadClient()
	gate := uploads.gate("a.pdf")
	service := newTestIngestor(uploads, nil, nil)

	records, err := service.Submit(context.Background(), []domain.RawInput{pdfInput("a.pdf", 1000)})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.UploadPending, records[0].Status)
	assert.Equal(t, "1000 B", records[0].Detail)
	assert.NotEmpty(t, records[0].ID)

	close(gate)
	service.Wait()

	snapshot := service.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, domain.UploadCompleted, snapshot[0].Status)
	assert.Equal(t, "1 chunk", snapshot[0].Detail)
}

func TestIngestionService_Submit_SyntheticIdentityNotFilename(t *testing.T) {
	service := newTestIngestor(nil, nil, nil)

	records, err := service.Submit(context.Background(), []domain.RawInput{pdfInput("a.pdf", 10)})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.NotEqual(t, "a.pdf", records[0].ID)
	assert.Len(t, records[0].ID, 36, "identity is a UUID, not the filename")
	service.Wait()
}

func TestIngestionService_Submit_BatchSettlesExactly(t *testing.T) {
	uploads := newIngestMockUploadClient()
	notifier := &ingestMockNotifier{}
	service := newTestIngestor(uploads, nil, notifier)

	const batch = 8
	inputs := make([]domain.RawInput, 0, batch)
	gates := make([]chan struct{}, 0, batch)
	failing := map[string]bool{"doc-2.pdf": true, "doc-5.pdf": true}

	for i := 0; i < batch; i++ {
		name := fmt.Sprintf("doc-%d.pdf", i)
		inputs = append(inputs, pdfInput(name, int64(1000+i)))
		gates = append(gates, uploads.gate(name))
		if failing[name] {
			uploads.reply(name, 0, domain.NewServerRejection(500, "ingestion error"))
		} else {
			uploads.reply(name, i+1, nil)
		}
	}

	records, err := service.Submit(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, records, batch)

	// Release uploads in a random order; the final state must not care
	for _, i := range rand.Perm(batch) {
		close(gates[i])
	}
	service.Wait()

	snapshot := service.Snapshot()
	require.Len(t, snapshot, batch)
	for i, record := range snapshot {
		name := fmt.Sprintf("doc-%d.pdf", i)
		assert.Equal(t, name, record.DisplayName, "insertion order preserved")
		if failing[name] {
			assert.Equal(t, domain.UploadFailed, record.Status)
			assert.Equal(t, "ingestion error", record.FailureDetail)
		} else {
			assert.Equal(t, domain.UploadCompleted, record.Status)
			assert.Equal(t, domain.FormatChunkCount(i+1), record.Detail)
		}
	}
	assert.Len(t, notifier.finishedEvents(), batch, "exactly one notification per task")
}

func TestIngestionService_Submit_EmptyBatch(t *testing.T) {
	service := newTestIngestor(nil, nil, nil)

	records, err := service.Submit(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
	assert.Nil(t, records)
}

func TestIngestionService_Submit_AllRefusedIsNotAnError(t *testing.T) {
	service := newTestIngestor(nil, nil, nil)

	records, err := service.Submit(context.Background(), []domain.RawInput{
		{Name: "photo.png", MIMEType: "image/png"},
	})

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, service.Snapshot(), "refused files never become records")
}

func TestIngestionService_FailureIsolation(t *testing.T) {
	uploads := newIngestMockUploadClient()
	uploads.reply("bad.pdf", 0, domain.NewTransportError(errors.New("connection reset")))
	service := newTestIngestor(uploads, nil, nil)

	_, err := service.Submit(context.Background(), []domain.RawInput{
		pdfInput("one.pdf", 1),
		pdfInput("bad.pdf", 2),
		pdfInput("two.pdf", 3),
		pdfInput("three.pdf", 4),
	})
	require.NoError(t, err)
	service.Wait()

	snapshot := service.Snapshot()
	require.Len(t, snapshot, 4)
	byName := make(map[string]domain.DocumentRecord)
	for _, record := range snapshot {
		byName[record.DisplayName] = record
	}
	assert.Equal(t, domain.UploadFailed, byName["bad.pdf"].Status)
	assert.Equal(t, "could not reach the server", byName["bad.pdf"].FailureDetail)
	for _, name := range []string{"one.pdf", "two.pdf", "three.pdf"} {
		assert.Equal(t, domain.UploadCompleted, byName[name].Status, name)
	}
}

func TestIngestionService_ResubmitAfterFailureGetsNewIdentity(t *testing.T) {
	uploads := newIngestMockUploadClient()
	uploads.reply("a.pdf", 3, nil)
	service := newTestIngestor(uploads, nil, nil)
	ctx := context.Background()

	// First upload of a.pdf succeeds
	first, err := service.Submit(ctx, []domain.RawInput{pdfInput("a.pdf", 100)})
	require.NoError(t, err)
	service.Wait()

	// Second upload of the same file fails; b.pdf rides along
	uploads.reply("a.pdf", 0, domain.NewServerRejection(500, "ingestion error"))
	uploads.reply("b.pdf", 5, nil)
	second, err := service.Submit(ctx, []domain.RawInput{
		pdfInput("a.pdf", 100),
		pdfInput("b.pdf", 200),
	})
	require.NoError(t, err)
	require.Len(t, second, 2, "settled records do not block resubmission")
	assert.NotEqual(t, first[0].ID, second[0].ID, "every submission gets a fresh identity")
	service.Wait()

	snapshot := service.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, domain.UploadCompleted, snapshot[0].Status)
	assert.Equal(t, "3 chunks", snapshot[0].Detail)
	assert.Equal(t, domain.UploadFailed, snapshot[1].Status)
	assert.Equal(t, "ingestion error", snapshot[1].FailureDetail)
	assert.Equal(t, domain.UploadCompleted, snapshot[2].Status)
	assert.Equal(t, "b.pdf", snapshot[2].DisplayName)

	// Removing the failed record touches exactly that record
	require.NoError(t, service.Remove(snapshot[1].ID))
	remaining := service.Snapshot()
	require.Len(t, remaining, 2)
	assert.Equal(t, snapshot[0].ID, remaining[0].ID)
	assert.Equal(t, snapshot[2].ID, remaining[1].ID)
}

func TestIngestionService_Submit_LiveDuplicateDropped(t *testing.T) {
	uploads := newIngestMockUploadClient()
	gate := uploads.gate("a.pdf")
	service := newTestIngestor(uploads, nil, nil)
	ctx := context.Background()

	first, err := service.Submit(ctx, []domain.RawInput{pdfInput("a.pdf", 100)})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Same name and size while the first is still uploading: dropped
	second, err := service.Submit(ctx, []domain.RawInput{pdfInput("a.pdf", 100)})
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, service.Snapshot(), 1)

	close(gate)
	service.Wait()
}

func TestIngestionService_ConcurrencyCeiling(t *testing.T) {
	uploads := newIngestMockUploadClient()
	settings := domain.DefaultSettings().Ingest
	settings.Concurrency = 2
	service := NewIngestionService(uploads, &ingestMockSnapshotLoader{}, nil, settings)

	inputs := make([]domain.RawInput, 0, 6)
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("doc-%d.pdf", i)
		inputs = append(inputs, pdfInput(name, int64(i+1)))
		uploads.reply(name, 1, nil)
	}
	gates := make([]chan struct{}, 0, 6)
	for i := 0; i < 6; i++ {
		gates = append(gates, uploads.gate(fmt.Sprintf("doc-%d.pdf", i)))
	}

	_, err := service.Submit(context.Background(), inputs)
	require.NoError(t, err)

	// Both slots fill, and no third upload starts while they are held
	waitUntil(t, time.Second, func() bool { return uploads.callCount() == 2 })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, uploads.callCount())

	for _, gate := range gates {
		close(gate)
	}
	service.Wait()

	assert.Equal(t, 6, uploads.callCount())
	assert.LessOrEqual(t, uploads.peakConcurrency(), 2)
}

func TestIngestionService_Start_SeedsRegistryFromSnapshot(t *testing.T) {
	snapshots := &ingestMockSnapshotLoader{
		docs: []domain.RemoteDocument{
			{Filename: "handbook.pdf", ChunkCount: 40, TotalPages: 120, Title: "Handbook", Author: "Ops"},
			{Filename: "faq.pdf", ChunkCount: 1},
		},
	}
	service := newTestIngestor(nil, snapshots, nil)

	service.Start(context.Background())
	waitUntil(t, time.Second, func() bool { return len(service.Snapshot()) == 2 })

	snapshot := service.Snapshot()
	assert.Equal(t, "handbook.pdf", snapshot[0].DisplayName)
	assert.Equal(t, domain.UploadCompleted, snapshot[0].Status)
	assert.Equal(t, "40 chunks", snapshot[0].Detail)
	assert.Equal(t, 120, snapshot[0].Pages)
	assert.Equal(t, "Handbook", snapshot[0].Title)
	assert.Equal(t, "1 chunk", snapshot[1].Detail)
	assert.NotEmpty(t, snapshot[0].ID)
	assert.NotEqual(t, snapshot[0].ID, snapshot[1].ID)
}

func TestIngestionService_Start_OnlyFetchesOnce(t *testing.T) {
	snapshots := &ingestMockSnapshotLoader{}
	service := newTestIngestor(nil, snapshots, nil)
	ctx := context.Background()

	service.Start(ctx)
	service.Start(ctx)
	service.Start(ctx)

	waitUntil(t, time.Second, func() bool { return snapshots.callCount() == 1 })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, snapshots.callCount())
}

func TestIngestionService_Start_FailureDoesNotAffectSubmissions(t *testing.T) {
	snapshots := &ingestMockSnapshotLoader{err: errors.New("connection refused")}
	notifier := &ingestMockNotifier{}
	service := newTestIngestor(nil, snapshots, notifier)
	ctx := context.Background()

	service.Start(ctx)
	waitUntil(t, time.Second, func() bool { return notifier.snapshotFailures() == 1 })

	records, err := service.Submit(ctx, []domain.RawInput{pdfInput("a.pdf", 10)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	service.Wait()

	snapshot := service.Snapshot()
	require.Len(t, snapshot, 1, "snapshot failure leaves only submitted records")
	assert.Equal(t, domain.UploadCompleted, snapshot[0].Status)
	assert.Equal(t, 1, notifier.snapshotFailures(), "failure reported once, never retried")
}

func TestIngestionService_SlowSnapshotAppendsAfterSubmissions(t *testing.T) {
	gate := make(chan struct{})
	snapshots := &ingestMockSnapshotLoader{
		docs: []domain.RemoteDocument{{Filename: "old.pdf", ChunkCount: 2}},
		gate: gate,
	}
	service := newTestIngestor(nil, snapshots, nil)
	ctx := context.Background()

	service.Start(ctx)
	_, err := service.Submit(ctx, []domain.RawInput{pdfInput("new.pdf", 10)})
	require.NoError(t, err)
	service.Wait()

	close(gate)
	waitUntil(t, time.Second, func() bool { return len(service.Snapshot()) == 2 })

	snapshot := service.Snapshot()
	assert.Equal(t, "new.pdf", snapshot[0].DisplayName, "submissions keep their position")
	assert.Equal(t, "old.pdf", snapshot[1].DisplayName, "late snapshot entries append")
}

func TestIngestionService_Remove_Unknown(t *testing.T) {
	service := newTestIngestor(nil, nil, nil)

	err := service.Remove("ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestionService_Remove_InFlightDropsLateOutcome(t *testing.T) {
	uploads := newIngestMockUploadClient()
	gate := uploads.gate("a.pdf")
	notifier := &ingestMockNotifier{}
	service := newTestIngestor(uploads, nil, notifier)

	records, err := service.Submit(context.Background(), []domain.RawInput{pdfInput("a.pdf", 10)})
	require.NoError(t, err)
	require.Len(t, records, 1)

	waitUntil(t, time.Second, func() bool { return uploads.callCount() == 1 })
	require.NoError(t, service.Remove(records[0].ID))

	close(gate)
	service.Wait()

	assert.Empty(t, service.Snapshot(), "removed record does not reappear")
	assert.Empty(t, notifier.finishedEvents(), "no notification for a removed record")
}

func TestIngestionService_Close_RejectsSubmissions(t *testing.T) {
	service := newTestIngestor(nil, nil, nil)

	service.Close()
	records, err := service.Submit(context.Background(), []domain.RawInput{pdfInput("a.pdf", 10)})

	assert.ErrorIs(t, err, domain.ErrIngestorClosed)
	assert.Nil(t, records)
}

func TestIngestionService_Close_DropsLateCompletions(t *testing.T) {
	uploads := newIngestMockUploadClient()
	gate := uploads.gate("a.pdf")
	notifier := &ingestMockNotifier{}
	service := newTestIngestor(uploads, nil, notifier)

	_, err := service.Submit(context.Background(), []domain.RawInput{pdfInput("a.pdf", 10)})
	require.NoError(t, err)
	waitUntil(t, time.Second, func() bool { return uploads.callCount() == 1 })

	service.Close()
	close(gate)
	service.Wait()

	snapshot := service.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, domain.UploadUploading, snapshot[0].Status, "late completion dropped after close")
	assert.Empty(t, notifier.finishedEvents())
}

func TestIngestionService_RejectionsSilentByDefault(t *testing.T) {
	notifier := &ingestMockNotifier{}
	service := newTestIngestor(nil, nil, notifier)

	// The silent drop is inherited behaviour: a refused file produces
	// no record and, by default, no notification either
	records, err := service.Submit(context.Background(), []domain.RawInput{
		{Name: "image.png", MIMEType: "image/png"},
		pdfInput("a.pdf", 10),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	service.Wait()

	assert.Empty(t, notifier.rejectedEvents(), "default behaviour drops refusals silently")
}

func TestIngestionService_RejectionsNotifiedWhenEnabled(t *testing.T) {
	uploads := newIngestMockUploadClient()
	notifier := &ingestMockNotifier{}
	settings := domain.DefaultSettings().Ingest
	settings.NotifyRejections = true
	service := NewIngestionService(uploads, &ingestMockSnapshotLoader{}, notifier, settings)

	_, err := service.Submit(context.Background(), []domain.RawInput{
		{Name: "image.png", MIMEType: "image/png"},
	})
	require.NoError(t, err)

	rejected := notifier.rejectedEvents()
	require.Len(t, rejected, 1)
	assert.Equal(t, "image.png", rejected[0].Name)
	assert.Equal(t, "not a PDF document", rejected[0].Reason)
}

func TestIngestionService_NotifierReceivesTerminalEvents(t *testing.T) {
	uploads := newIngestMockUploadClient()
	uploads.reply("good.pdf", 4, nil)
	uploads.reply("bad.pdf", 0, domain.NewServerRejection(500, "ingestion error"))
	notifier := &ingestMockNotifier{}
	service := newTestIngestor(uploads, nil, notifier)

	_, err := service.Submit(context.Background(), []domain.RawInput{
		pdfInput("good.pdf", 1),
		pdfInput("bad.pdf", 2),
	})
	require.NoError(t, err)
	service.Wait()

	events := notifier.finishedEvents()
	require.Len(t, events, 2)
	byName := make(map[string]domain.UploadEvent)
	for _, event := range events {
		byName[event.DisplayName] = event
	}
	assert.Equal(t, domain.UploadCompleted, byName["good.pdf"].Status)
	assert.Empty(t, byName["good.pdf"].FailureDetail)
	assert.Equal(t, domain.UploadFailed, byName["bad.pdf"].Status)
	assert.Equal(t, "ingestion error", byName["bad.pdf"].FailureDetail)
}

func TestIngestionService_ListRemote(t *testing.T) {
	snapshots := &ingestMockSnapshotLoader{
		docs: []domain.RemoteDocument{{Filename: "a.pdf", ChunkCount: 2}},
	}
	service := newTestIngestor(nil, snapshots, nil)

	docs, err := service.ListRemote(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a.pdf", docs[0].Filename)
}

func TestIngestionService_ListRemote_Error(t *testing.T) {
	snapshots := &ingestMockSnapshotLoader{err: errors.New("boom")}
	service := newTestIngestor(nil, snapshots, nil)

	_, err := service.ListRemote(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "list documents")
}
