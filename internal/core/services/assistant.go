package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driven"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
	"github.com/shashanksh04/RAG-Assistant/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.Assistant = (*AssistantService)(nil)

// AssistantService answers questions against the ingested corpus and
// keeps the session conversation in memory. History lives for the
// session only; nothing is persisted.
type AssistantService struct {
	backend driven.AnswerClient
	ask     domain.AskSettings

	mu             sync.Mutex
	history        []domain.ChatMessage
	conversationID string
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(backend driven.AnswerClient, ask domain.AskSettings) *AssistantService {
	return &AssistantService{
		backend: backend,
		ask:     ask,
	}
}

// Ask sends a question and records both turns in the history. The
// conversation id from the previous answer threads follow-ups.
func (s *AssistantService) Ask(ctx context.Context, query string) (domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Answer{}, domain.ErrEmptyQuery
	}

	req := domain.AskRequest{
		Query:          query,
		ConversationID: s.currentConversation(),
		QueryExpansion: s.ask.QueryExpansion,
		HyDE:           s.ask.HyDE,
	}

	answer, err := s.backend.Ask(ctx, req)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("ask backend: %w", err)
	}

	s.recordExchange(query, answer)
	logger.Debug("Answered with %d sources, confidence %.2f", len(answer.Sources), answer.Confidence)
	return answer, nil
}

// AskAudio uploads a spoken question and returns the answer. The
// backend does not echo the transcription, so the exchange is not
// threaded into the conversation history.
func (s *AssistantService) AskAudio(ctx context.Context, path string) (domain.Answer, error) {
	answer, err := s.backend.AskAudio(ctx, path)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("ask audio: %w", err)
	}
	return answer, nil
}

// Transcribe converts an audio file to text without asking.
func (s *AssistantService) Transcribe(ctx context.Context, path string) (domain.Transcription, error) {
	transcription, err := s.backend.Transcribe(ctx, path)
	if err != nil {
		return domain.Transcription{}, fmt.Errorf("transcribe: %w", err)
	}
	return transcription, nil
}

// History returns a copy of the session conversation so far.
func (s *AssistantService) History() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]domain.ChatMessage, len(s.history))
	copy(history, s.history)
	return history
}

// Reset clears the session conversation.
func (s *AssistantService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	s.conversationID = ""
}

// Health probes the backend.
func (s *AssistantService) Health(ctx context.Context) error {
	if err := s.backend.Health(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// recordExchange appends both turns and threads the conversation id.
func (s *AssistantService) recordExchange(query string, answer domain.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history,
		domain.ChatMessage{Role: domain.RoleUser, Content: query},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: answer.Text, Sources: answer.Sources},
	)
	if answer.ConversationID != "" {
		s.conversationID = answer.ConversationID
	}
}

// currentConversation returns the threaded conversation id, if any.
func (s *AssistantService) currentConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}
