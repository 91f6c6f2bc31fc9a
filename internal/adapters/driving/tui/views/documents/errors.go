package documents

import "errors"

// ErrNoIngestor is returned when the view has no ingestion service wired.
var ErrNoIngestor = errors.New("documents: ingestion service not available")
