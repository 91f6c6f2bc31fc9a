package cli

import (
	"context"
	"sync"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// mockIngestService implements driving.Ingestor for command tests.
// Submit settles every accepted file immediately so commands that wait
// on the batch return without real uploads.
type mockIngestService struct {
	SubmitFunc     func(ctx context.Context, inputs []domain.RawInput) ([]domain.DocumentRecord, error)
	RemoveFunc     func(id string) error
	ListRemoteFunc func(ctx context.Context) ([]domain.RemoteDocument, error)

	mu      sync.Mutex
	records []domain.DocumentRecord
}

func (m *mockIngestService) Start(_ context.Context) {}

func (m *mockIngestService) Submit(
	ctx context.Context, inputs []domain.RawInput,
) ([]domain.DocumentRecord, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, inputs)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	created := make([]domain.DocumentRecord, 0, len(inputs))
	for _, input := range inputs {
		record := domain.DocumentRecord{
			ID:          "rec-" + input.Name,
			DisplayName: input.Name,
			Detail:      "12 chunks",
			Size:        input.Size,
			Status:      domain.UploadCompleted,
		}
		m.records = append(m.records, record)
		created = append(created, record)
	}
	return created, nil
}

func (m *mockIngestService) Remove(id string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, record := range m.records {
		if record.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockIngestService) Snapshot() []domain.DocumentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]domain.DocumentRecord, len(m.records))
	copy(snapshot, m.records)
	return snapshot
}

func (m *mockIngestService) ListRemote(ctx context.Context) ([]domain.RemoteDocument, error) {
	if m.ListRemoteFunc != nil {
		return m.ListRemoteFunc(ctx)
	}
	return []domain.RemoteDocument{
		{
			Filename:   "handbook.pdf",
			ChunkCount: 42,
			TotalPages: 18,
			Title:      "Employee Handbook",
			Author:     "People Team",
		},
		{
			Filename:   "notes.pdf",
			ChunkCount: 1,
			Title:      "Unknown",
			Author:     "Unknown",
		},
	}, nil
}

func (m *mockIngestService) Wait() {}

func (m *mockIngestService) Close() {}

// mockAssistantService implements driving.Assistant for command tests.
type mockAssistantService struct {
	AskFunc        func(ctx context.Context, query string) (domain.Answer, error)
	AskAudioFunc   func(ctx context.Context, path string) (domain.Answer, error)
	TranscribeFunc func(ctx context.Context, path string) (domain.Transcription, error)
	HealthFunc     func(ctx context.Context) error
}

func testAnswer() domain.Answer {
	return domain.Answer{
		Text: "The retention period is seven years.",
		Sources: []domain.SourceCitation{
			{
				Source:    "policy.pdf",
				Page:      12,
				Citation:  "policy.pdf, p. 12",
				Relevance: 0.91,
			},
		},
		Confidence: 0.87,
		Grounded:   true,
	}
}

func (m *mockAssistantService) Ask(ctx context.Context, query string) (domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, query)
	}
	return testAnswer(), nil
}

func (m *mockAssistantService) AskAudio(ctx context.Context, path string) (domain.Answer, error) {
	if m.AskAudioFunc != nil {
		return m.AskAudioFunc(ctx, path)
	}
	return testAnswer(), nil
}

func (m *mockAssistantService) Transcribe(
	ctx context.Context, path string,
) (domain.Transcription, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, path)
	}
	return domain.Transcription{
		Text:       "what is the retention period",
		Language:   "en",
		Confidence: 0.94,
		Duration:   3.2,
	}, nil
}

func (m *mockAssistantService) History() []domain.ChatMessage { return nil }

func (m *mockAssistantService) Reset() {}

func (m *mockAssistantService) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// mockSettingsStore implements driving.SettingsService for command
// tests, holding settings in memory.
type mockSettingsStore struct {
	GetFunc  func() (domain.Settings, error)
	settings domain.Settings
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{settings: domain.DefaultSettings()}
}

func (m *mockSettingsStore) Get() (domain.Settings, error) {
	if m.GetFunc != nil {
		return m.GetFunc()
	}
	return m.settings, nil
}

func (m *mockSettingsStore) Save(settings domain.Settings) error {
	m.settings = settings
	return nil
}

func (m *mockSettingsStore) SetTheme(theme domain.Theme) error {
	if !theme.IsValid() {
		return domain.ErrInvalidInput
	}
	m.settings.UI.Theme = theme
	return nil
}

func (m *mockSettingsStore) SetServerURL(url string) error {
	m.settings.Server.BaseURL = url
	return nil
}

func (m *mockSettingsStore) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// setupTestServices swaps the package services for mocks and returns a
// cleanup function restoring the originals.
func setupTestServices() func() {
	oldIngest := ingestService
	oldAssistant := assistantService
	oldSettings := settingsService

	ingestService = &mockIngestService{}
	assistantService = &mockAssistantService{}
	settingsService = newMockSettingsStore()

	return func() {
		ingestService = oldIngest
		assistantService = oldAssistant
		settingsService = oldSettings
	}
}
