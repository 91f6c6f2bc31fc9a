// Package domain defines the core business entities for the RAG Assistant
// client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: One entry in the ingestion registry
//   - UploadStatus: The lifecycle state of an upload task
//   - FileDescriptor: A normalised file accepted for upload
//   - Answer: A backend response with cited sources
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
