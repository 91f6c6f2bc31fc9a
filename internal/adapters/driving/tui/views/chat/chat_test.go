package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/messages"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/styles"
	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// mockAssistant implements driving.Assistant for testing.
type mockAssistant struct {
	askFunc func(ctx context.Context, query string) (domain.Answer, error)
	history []domain.ChatMessage
	resets  int
}

func (m *mockAssistant) Ask(ctx context.Context, query string) (domain.Answer, error) {
	if m.askFunc != nil {
		answer, err := m.askFunc(ctx, query)
		if err != nil {
			return domain.Answer{}, err
		}
		m.record(query, answer)
		return answer, nil
	}

	answer := domain.Answer{Text: "An answer.", Confidence: 0.9, Grounded: true}
	m.record(query, answer)
	return answer, nil
}

func (m *mockAssistant) record(query string, answer domain.Answer) {
	m.history = append(m.history,
		domain.ChatMessage{Role: domain.RoleUser, Content: query},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: answer.Text, Sources: answer.Sources},
	)
}

func (m *mockAssistant) AskAudio(ctx context.Context, path string) (domain.Answer, error) {
	return domain.Answer{}, nil
}

func (m *mockAssistant) Transcribe(ctx context.Context, path string) (domain.Transcription, error) {
	return domain.Transcription{}, nil
}

func (m *mockAssistant) History() []domain.ChatMessage {
	return m.history
}

func (m *mockAssistant) Reset() {
	m.resets++
	m.history = nil
}

func (m *mockAssistant) Health(ctx context.Context) error {
	return nil
}

func typeRunes(v *View, s string) {
	for _, r := range s {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, nil, &mockAssistant{})

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
	assert.False(t, view.Thinking())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})

	cmd := view.Init()

	// Blink command should be returned
	assert.NotNil(t, cmd)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})

	view.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, view.Ready())
	assert.Equal(t, 120, view.Width())
	assert.Equal(t, 40, view.Height())
}

func TestView_Update_Esc_ReturnsToMenu(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}

func TestView_Update_EnterWithEmptyComposer(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, view.Thinking())
}

func TestView_Update_EnterSendsQuestion(t *testing.T) {
	assistant := &mockAssistant{}
	view := NewView(nil, nil, assistant)
	typeRunes(view, "What is the total?")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, view.Thinking())
	assert.Equal(t, "What is the total?", view.Pending())
	assert.Equal(t, "", view.Composer(), "composer should clear on send")

	// Run the command and feed the result back, as bubbletea would.
	msg := cmd()
	answer, ok := msg.(messages.AnswerReceived)
	require.True(t, ok)
	require.NoError(t, answer.Err)
	assert.Equal(t, "An answer.", answer.Answer.Text)

	view.Update(answer)
	assert.False(t, view.Thinking())
	assert.Equal(t, "", view.Pending())
	assert.NoError(t, view.Err())
}

func TestView_Update_TrimsWhitespaceBeforeSending(t *testing.T) {
	assistant := &mockAssistant{}
	view := NewView(nil, nil, assistant)
	typeRunes(view, "  padded  ")

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "padded", view.Pending())
}

func TestView_Update_AnswerError_RestoresComposer(t *testing.T) {
	failure := errors.New("ask backend: connection refused")
	assistant := &mockAssistant{
		askFunc: func(ctx context.Context, query string) (domain.Answer, error) {
			return domain.Answer{}, failure
		},
	}
	view := NewView(nil, nil, assistant)
	typeRunes(view, "Will this fail?")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	view.Update(cmd())

	assert.False(t, view.Thinking())
	assert.ErrorIs(t, view.Err(), failure)
	assert.Equal(t, "Will this fail?", view.Composer(), "failed question returns to the composer")
	assert.Equal(t, "", view.Pending())
}

func TestView_Update_EnterWhileThinking_DoesNotResend(t *testing.T) {
	assistant := &mockAssistant{}
	view := NewView(nil, nil, assistant)
	typeRunes(view, "first")
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, view.Thinking())

	// A second enter while in flight must not produce another ask.
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		_, isAnswer := cmd().(messages.AnswerReceived)
		assert.False(t, isAnswer)
	}
	assert.Equal(t, "first", view.Pending())
}

func TestView_Update_ClearResetsConversation(t *testing.T) {
	assistant := &mockAssistant{}
	view := NewView(nil, nil, assistant)
	typeRunes(view, "question")
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view.Update(cmd())
	require.NotEmpty(t, assistant.History())

	view.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.Equal(t, 1, assistant.resets)
	assert.Empty(t, assistant.History())
	assert.Equal(t, "Conversation cleared", view.statusbar.Message())
}

func TestView_RenderConversation_Empty(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})

	content := view.renderConversation()

	assert.Contains(t, content, "No messages yet")
}

func TestView_RenderConversation_ShowsTurns(t *testing.T) {
	assistant := &mockAssistant{history: []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "What about Q3?"},
		{Role: domain.RoleAssistant, Content: "Revenue grew.", Sources: []domain.SourceCitation{
			{Source: "report.pdf", Page: 4, Citation: "report.pdf, p. 4", Relevance: 0.82},
		}},
	}}
	view := NewView(nil, nil, assistant)

	content := view.renderConversation()

	assert.Contains(t, content, "You:")
	assert.Contains(t, content, "What about Q3?")
	assert.Contains(t, content, "Assistant:")
	assert.Contains(t, content, "Revenue grew.")
	assert.Contains(t, content, "[1] report.pdf, p. 4 (relevance 0.82)")
}

func TestView_RenderConversation_PendingQuestion(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})
	view.pending = "Still waiting?"

	content := view.renderConversation()

	assert.Contains(t, content, "Still waiting?")
	assert.Contains(t, content, "thinking")
}

func TestView_RenderConversation_UngroundedWarning(t *testing.T) {
	assistant := &mockAssistant{
		askFunc: func(ctx context.Context, query string) (domain.Answer, error) {
			return domain.Answer{Text: "Guesswork.", Confidence: 0.2, Grounded: false}, nil
		},
	}
	view := NewView(nil, nil, assistant)
	typeRunes(view, "anything")
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view.Update(cmd())

	content := view.renderConversation()

	assert.Contains(t, content, "could not be grounded")
}

func TestView_RenderCitations_FallbackLabel(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})

	rendered := view.renderCitations([]domain.SourceCitation{
		{Source: "notes.pdf", Page: 2, Relevance: 0.5},
	})

	assert.Contains(t, rendered, "notes.pdf, p. 2")
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})

	assert.Contains(t, view.View(), "Initialising")
}

func TestView_View_Ready(t *testing.T) {
	view := NewView(nil, nil, &mockAssistant{})
	view.SetDimensions(100, 30)

	output := view.View()

	assert.Contains(t, output, "Chat")
}

func TestView_AnswerConfidenceShownInStatus(t *testing.T) {
	assistant := &mockAssistant{
		askFunc: func(ctx context.Context, query string) (domain.Answer, error) {
			return domain.Answer{Text: "ok", Confidence: 0.87, Grounded: true}, nil
		},
	}
	view := NewView(nil, nil, assistant)
	typeRunes(view, "confidence?")
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view.Update(cmd())

	assert.Equal(t, "Confidence 87%", view.statusbar.Message())
}
