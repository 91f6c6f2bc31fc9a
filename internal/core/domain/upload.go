package domain

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// UploadStatus is the lifecycle state of an upload task.
type UploadStatus string

// Upload lifecycle states. Transitions only move forward:
// pending -> uploading -> completed or failed.
const (
	// UploadPending means the file is accepted and queued.
	UploadPending UploadStatus = "pending"

	// UploadUploading means the transfer to the backend is in flight.
	UploadUploading UploadStatus = "uploading"

	// UploadCompleted means the backend ingested the file.
	UploadCompleted UploadStatus = "completed"

	// UploadFailed means the transfer or ingestion failed.
	UploadFailed UploadStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s UploadStatus) IsValid() bool {
	switch s {
	case UploadPending, UploadUploading, UploadCompleted, UploadFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transition is possible.
func (s UploadStatus) IsTerminal() bool {
	return s == UploadCompleted || s == UploadFailed
}

// Rank encodes the forward-only ordering of the lifecycle.
// A status may only be replaced by one of equal or higher rank,
// and terminal states share the highest rank.
func (s UploadStatus) Rank() int {
	switch s {
	case UploadPending:
		return 0
	case UploadUploading:
		return 1
	case UploadCompleted, UploadFailed:
		return 2
	default:
		return -1
	}
}

// String returns the string representation.
func (s UploadStatus) String() string {
	return string(s)
}

// Description returns a human-readable description of the status.
func (s UploadStatus) Description() string {
	switch s {
	case UploadPending:
		return "Queued"
	case UploadUploading:
		return "Uploading"
	case UploadCompleted:
		return "Ready"
	case UploadFailed:
		return "Failed"
	default:
		return unknownDescription
	}
}

// FileDescriptor is a normalised file that passed intake filtering.
// It is the uniform shape produced from heterogeneous input sources
// (command arguments, watched directories, interactive path entry).
type FileDescriptor struct {
	// Name is the base filename shown to the user.
	Name string

	// Size is the file size in bytes.
	Size int64

	// MIMEType is the declared content type (e.g., "application/pdf").
	MIMEType string

	// Path is the opaque handle used to open the content for upload.
	Path string
}

// RawInput is a candidate file before intake normalisation.
// Driving adapters construct one per dropped or selected file.
type RawInput struct {
	// Name is the base filename.
	Name string

	// Size is the file size in bytes, if known.
	Size int64

	// MIMEType is the content type, empty when the source cannot tell.
	MIMEType string

	// Path is the location the content can be opened from.
	Path string
}

// RawInputFromPath builds a RawInput by inspecting a file on disk.
// The MIME type is derived from the extension and left empty when the
// extension is unknown.
func RawInputFromPath(path string) (RawInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return RawInput{}, fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return RawInput{}, fmt.Errorf("stat input %s: %w", path, ErrInvalidInput)
	}
	return RawInput{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mime.TypeByExtension(filepath.Ext(path)),
		Path:     path,
	}, nil
}

// IngestReceipt is the backend's acknowledgement of one ingested file.
type IngestReceipt struct {
	// Filename echoes the uploaded file name.
	Filename string

	// ChunksIngested is how many retrieval chunks the backend stored.
	ChunksIngested int
}

// UploadOutcome is the terminal result of one upload task, applied to
// the registry by identity.
type UploadOutcome struct {
	// ID is the synthetic identity of the task.
	ID string

	// Status is the terminal state, completed or failed.
	Status UploadStatus

	// ChunksIngested is set on completion.
	ChunksIngested int

	// FailureDetail is the user-facing reason, set on failure.
	FailureDetail string
}

// UploadEvent notifies observers that one upload settled.
type UploadEvent struct {
	// DisplayName is the filename the event refers to.
	DisplayName string

	// Status is the terminal state reached.
	Status UploadStatus

	// FailureDetail is the user-facing reason, set on failure.
	FailureDetail string
}

// RejectionEvent notifies observers that intake refused a file.
type RejectionEvent struct {
	// Name is the refused filename.
	Name string

	// Reason explains why the file was refused.
	Reason string
}
