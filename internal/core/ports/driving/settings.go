package driving

import "github.com/shashanksh04/RAG-Assistant/internal/core/domain"

// SettingsService manages client settings.
type SettingsService interface {
	// Get retrieves current settings, normalised against defaults.
	Get() (domain.Settings, error)

	// Save persists the given settings.
	Save(settings domain.Settings) error

	// SetTheme updates the TUI theme.
	SetTheme(theme domain.Theme) error

	// SetServerURL updates the backend base URL.
	SetServerURL(url string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
