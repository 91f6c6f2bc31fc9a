package domain

const unknownDescription = "Unknown"

// Theme selects the TUI colour palette.
type Theme string

// Available themes.
const (
	// ThemeDark is the default palette for dark terminals.
	ThemeDark Theme = "dark"

	// ThemeLight is the palette for light terminals.
	ThemeLight Theme = "light"
)

// IsValid returns true if the theme is recognised.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeDark, ThemeLight:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t Theme) String() string {
	return string(t)
}

// Description returns a human-readable description of the theme.
func (t Theme) Description() string {
	switch t {
	case ThemeDark:
		return "Dark (default)"
	case ThemeLight:
		return "Light"
	default:
		return unknownDescription
	}
}

// ServerSettings holds backend connection configuration.
type ServerSettings struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string

	// RequestsPerSecond paces outgoing requests. Zero means unlimited.
	RequestsPerSecond float64
}

// IngestSettings holds upload pipeline configuration.
type IngestSettings struct {
	// AllowedTypes lists the MIME types intake accepts.
	AllowedTypes []string

	// AllowedExtensions lists file extensions accepted when the input
	// source reports no MIME type (e.g. watched directories).
	AllowedExtensions []string

	// Concurrency bounds how many uploads run at once.
	Concurrency int

	// NotifyRejections surfaces refused files through the notifier.
	// When false, refused files are dropped silently.
	NotifyRejections bool

	// DropDir is a directory watched for new files. Empty disables
	// the watcher.
	DropDir string
}

// AskSettings holds question answering configuration.
type AskSettings struct {
	// QueryExpansion enables retrieval-time query expansion.
	QueryExpansion bool

	// HyDE enables hypothetical document embedding retrieval.
	HyDE bool
}

// UISettings holds presentation configuration.
type UISettings struct {
	// Theme selects the TUI colour palette.
	Theme Theme
}

// Settings holds all client settings.
type Settings struct {
	// Server holds backend connection settings.
	Server ServerSettings

	// Ingest holds upload pipeline settings.
	Ingest IngestSettings

	// Ask holds question answering settings.
	Ask AskSettings

	// UI holds presentation settings.
	UI UISettings
}

// DefaultSettings returns settings with sensible defaults. The backend
// URL matches the server's development default.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			BaseURL:           "http://localhost:8000",
			RequestsPerSecond: 0,
		},
		Ingest: IngestSettings{
			AllowedTypes:      []string{"application/pdf"},
			AllowedExtensions: []string{".pdf"},
			Concurrency:       3,
			NotifyRejections:  false,
			DropDir:           "",
		},
		Ask: AskSettings{
			QueryExpansion: false,
			HyDE:           false,
		},
		UI: UISettings{
			Theme: ThemeDark,
		},
	}
}

// Normalise clamps out-of-range values back to their defaults and
// returns the result.
func (s Settings) Normalise() Settings {
	defaults := DefaultSettings()
	if s.Server.BaseURL == "" {
		s.Server.BaseURL = defaults.Server.BaseURL
	}
	if s.Server.RequestsPerSecond < 0 {
		s.Server.RequestsPerSecond = defaults.Server.RequestsPerSecond
	}
	if len(s.Ingest.AllowedTypes) == 0 {
		s.Ingest.AllowedTypes = defaults.Ingest.AllowedTypes
	}
	if len(s.Ingest.AllowedExtensions) == 0 {
		s.Ingest.AllowedExtensions = defaults.Ingest.AllowedExtensions
	}
	if s.Ingest.Concurrency < 1 {
		s.Ingest.Concurrency = defaults.Ingest.Concurrency
	}
	if !s.UI.Theme.IsValid() {
		s.UI.Theme = defaults.UI.Theme
	}
	return s
}

// AllThemes returns all available themes.
func AllThemes() []Theme {
	return []Theme{ThemeDark, ThemeLight}
}
