// Package tui provides an interactive terminal user interface for the
// assistant. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driven/notify"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingestor coordinates document uploads.
	Ingestor driving.Ingestor

	// Assistant answers questions about the document corpus.
	Assistant driving.Assistant

	// Settings manages application settings. Optional; without it the
	// default theme is used.
	Settings driving.SettingsService

	// Uploads carries upload progress events into the UI. Optional;
	// without it the documents view relies on polling alone.
	Uploads *notify.Hub
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(ingestor driving.Ingestor, assistant driving.Assistant, settings driving.SettingsService) *Ports {
	return &Ports{
		Ingestor:  ingestor,
		Assistant: assistant,
		Settings:  settings,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Ingestor == nil {
		return ErrMissingIngestor
	}
	if p.Assistant == nil {
		return ErrMissingAssistant
	}
	return nil
}
