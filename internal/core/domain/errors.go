package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyBatch indicates a submission contained no input at all.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrIngestorClosed indicates the ingestion controller has shut
	// down and accepts no further submissions.
	ErrIngestorClosed = errors.New("ingestor closed")

	// ErrEmptyQuery indicates a question with no content.
	ErrEmptyQuery = errors.New("empty query")

	// ErrBackendUnavailable indicates the backend could not be reached.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// UploadErrorKind classifies why an upload failed.
type UploadErrorKind string

// Upload failure classes.
const (
	// UploadErrorTransport covers network failures and timeouts; the
	// request may never have reached the backend.
	UploadErrorTransport UploadErrorKind = "transport"

	// UploadErrorServer covers non-2xx backend responses; the backend
	// received the file and refused it.
	UploadErrorServer UploadErrorKind = "server"
)

// UploadError is a classified upload failure. Detail is safe to show
// to the user; Err carries the underlying cause for logs.
type UploadError struct {
	// Kind classifies the failure.
	Kind UploadErrorKind

	// Detail is the user-facing reason, e.g. the backend's rejection
	// message.
	Detail string

	// StatusCode is the HTTP status for server rejections, zero
	// otherwise.
	StatusCode int

	// Err is the underlying cause, may be nil for server rejections.
	Err error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload %s error: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("upload %s error: %s", e.Kind, e.Detail)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a network-level failure.
func NewTransportError(err error) *UploadError {
	return &UploadError{
		Kind:   UploadErrorTransport,
		Detail: "could not reach the server",
		Err:    err,
	}
}

// NewServerRejection wraps a non-2xx backend response.
func NewServerRejection(statusCode int, detail string) *UploadError {
	if detail == "" {
		detail = fmt.Sprintf("server returned status %d", statusCode)
	}
	return &UploadError{
		Kind:       UploadErrorServer,
		Detail:     detail,
		StatusCode: statusCode,
	}
}

// FailureDetail extracts a user-facing reason from an upload error.
// Unclassified errors map to a generic message so raw transport noise
// never reaches the registry.
func FailureDetail(err error) string {
	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr.Detail
	}
	return "upload failed"
}

// IsServerRejection checks if the error is a backend refusal.
func IsServerRejection(err error) bool {
	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr.Kind == UploadErrorServer
	}
	return false
}

// IsTransportError checks if the error is a network-level failure.
func IsTransportError(err error) bool {
	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr.Kind == UploadErrorTransport
	}
	return false
}
