package services

import (
	"fmt"
	"net/url"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driven"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyServerBaseURL     = "server.base_url"
	keyServerRate        = "server.requests_per_second"
	keyIngestTypes       = "ingest.allowed_types"
	keyIngestExtensions  = "ingest.allowed_extensions"
	keyIngestConcurrency = "ingest.concurrency"
	keyIngestNotify      = "ingest.notify_rejections"
	keyIngestDropDir     = "ingest.drop_dir"
	keyAskExpansion      = "ask.query_expansion"
	keyAskHyDE           = "ask.hyde"
	keyUITheme           = "ui.theme"
)

// SettingsService manages client settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings, normalised against defaults.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		Server: domain.ServerSettings{
			BaseURL:           s.getString(keyServerBaseURL, defaults.Server.BaseURL),
			RequestsPerSecond: s.getFloat(keyServerRate, defaults.Server.RequestsPerSecond),
		},
		Ingest: domain.IngestSettings{
			AllowedTypes:      s.getStringSlice(keyIngestTypes, defaults.Ingest.AllowedTypes),
			AllowedExtensions: s.getStringSlice(keyIngestExtensions, defaults.Ingest.AllowedExtensions),
			Concurrency:       s.getInt(keyIngestConcurrency, defaults.Ingest.Concurrency),
			NotifyRejections:  s.getBool(keyIngestNotify, defaults.Ingest.NotifyRejections),
			DropDir:           s.configStore.GetString(keyIngestDropDir), // No default - empty disables the watcher
		},
		Ask: domain.AskSettings{
			QueryExpansion: s.getBool(keyAskExpansion, defaults.Ask.QueryExpansion),
			HyDE:           s.getBool(keyAskHyDE, defaults.Ask.HyDE),
		},
		UI: domain.UISettings{
			Theme: s.getTheme(defaults.UI.Theme),
		},
	}

	return settings.Normalise(), nil
}

// Save persists the given settings.
func (s *SettingsService) Save(settings domain.Settings) error {
	settings = settings.Normalise()

	if err := s.configStore.Set(keyServerBaseURL, settings.Server.BaseURL); err != nil {
		return fmt.Errorf("save server base_url: %w", err)
	}
	if err := s.configStore.Set(keyServerRate, settings.Server.RequestsPerSecond); err != nil {
		return fmt.Errorf("save server rate: %w", err)
	}

	if err := s.configStore.Set(keyIngestTypes, settings.Ingest.AllowedTypes); err != nil {
		return fmt.Errorf("save allowed types: %w", err)
	}
	if err := s.configStore.Set(keyIngestExtensions, settings.Ingest.AllowedExtensions); err != nil {
		return fmt.Errorf("save allowed extensions: %w", err)
	}
	if err := s.configStore.Set(keyIngestConcurrency, settings.Ingest.Concurrency); err != nil {
		return fmt.Errorf("save concurrency: %w", err)
	}
	if err := s.configStore.Set(keyIngestNotify, settings.Ingest.NotifyRejections); err != nil {
		return fmt.Errorf("save notify_rejections: %w", err)
	}
	if err := s.configStore.Set(keyIngestDropDir, settings.Ingest.DropDir); err != nil {
		return fmt.Errorf("save drop_dir: %w", err)
	}

	if err := s.configStore.Set(keyAskExpansion, settings.Ask.QueryExpansion); err != nil {
		return fmt.Errorf("save query_expansion: %w", err)
	}
	if err := s.configStore.Set(keyAskHyDE, settings.Ask.HyDE); err != nil {
		return fmt.Errorf("save hyde: %w", err)
	}

	if err := s.configStore.Set(keyUITheme, settings.UI.Theme.String()); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}

	return nil
}

// SetTheme updates the TUI theme.
func (s *SettingsService) SetTheme(theme domain.Theme) error {
	if !theme.IsValid() {
		return fmt.Errorf("invalid theme: %s", theme)
	}
	if err := s.configStore.Set(keyUITheme, theme.String()); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// SetServerURL updates the backend base URL.
func (s *SettingsService) SetServerURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid server URL %q: %w", rawURL, domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyServerBaseURL, rawURL); err != nil {
		return fmt.Errorf("save server base_url: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// getString retrieves a string value with a fallback default.
func (s *SettingsService) getString(key, defaultValue string) string {
	if value := s.configStore.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt retrieves an int value with a fallback default.
func (s *SettingsService) getInt(key string, defaultValue int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultValue
}

// getFloat retrieves a float value with a fallback default.
func (s *SettingsService) getFloat(key string, defaultValue float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat64(key)
	}
	return defaultValue
}

// getBool retrieves a bool value with a fallback default.
func (s *SettingsService) getBool(key string, defaultValue bool) bool {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetBool(key)
	}
	return defaultValue
}

// getStringSlice retrieves a string slice with a fallback default.
func (s *SettingsService) getStringSlice(key string, defaultValue []string) []string {
	if value := s.configStore.GetStringSlice(key); len(value) > 0 {
		return value
	}
	return defaultValue
}

// getTheme retrieves the theme with a fallback default.
func (s *SettingsService) getTheme(defaultValue domain.Theme) domain.Theme {
	theme := domain.Theme(s.configStore.GetString(keyUITheme))
	if theme.IsValid() {
		return theme
	}
	return defaultValue
}
