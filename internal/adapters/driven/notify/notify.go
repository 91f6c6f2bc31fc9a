// Package notify provides an in-process upload notifier that bridges
// ingestion workers to interactive frontends. Events are pushed into a
// buffered channel and dropped when no consumer keeps up, so workers
// never block on rendering.
package notify

import (
	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driven"
)

// DefaultBuffer is the default event channel capacity.
const DefaultBuffer = 64

// Kind discriminates the event types carried by the hub.
type Kind string

const (
	// KindUploadFinished marks a settled upload.
	KindUploadFinished Kind = "upload_finished"

	// KindUploadRejected marks a file refused by intake.
	KindUploadRejected Kind = "upload_rejected"

	// KindSnapshotFailed marks a failed startup corpus fetch.
	KindSnapshotFailed Kind = "snapshot_failed"
)

// Event is one observable ingestion happening.
type Event struct {
	// Kind identifies which of the payload fields is set.
	Kind Kind

	// Upload carries the settled upload, set for KindUploadFinished.
	Upload domain.UploadEvent

	// Rejection carries the refused file, set for KindUploadRejected.
	Rejection domain.RejectionEvent

	// Err carries the snapshot failure, set for KindSnapshotFailed.
	Err error
}

// Hub implements driven.UploadNotifier over a buffered channel.
type Hub struct {
	events chan Event
}

// Ensure Hub implements the notifier port.
var _ driven.UploadNotifier = (*Hub)(nil)

// NewHub creates a hub with the given channel capacity. Non-positive
// values fall back to DefaultBuffer.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{events: make(chan Event, buffer)}
}

// Events returns the channel consumers drain.
func (h *Hub) Events() <-chan Event {
	return h.events
}

// UploadFinished implements driven.UploadNotifier.
func (h *Hub) UploadFinished(event domain.UploadEvent) {
	h.push(Event{Kind: KindUploadFinished, Upload: event})
}

// UploadRejected implements driven.UploadNotifier.
func (h *Hub) UploadRejected(event domain.RejectionEvent) {
	h.push(Event{Kind: KindUploadRejected, Rejection: event})
}

// SnapshotFailed implements driven.UploadNotifier.
func (h *Hub) SnapshotFailed(err error) {
	h.push(Event{Kind: KindSnapshotFailed, Err: err})
}

// push enqueues without blocking. A full buffer drops the event; the
// registry remains the source of truth, events are only hints.
func (h *Hub) push(event Event) {
	select {
	case h.events <- event:
	default:
	}
}
