package tui

import "errors"

// ErrMissingIngestor is returned when the ingestion service is not provided.
var ErrMissingIngestor = errors.New("tui: ingestion service is required")

// ErrMissingAssistant is returned when the assistant service is not provided.
var ErrMissingAssistant = errors.New("tui: assistant service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
