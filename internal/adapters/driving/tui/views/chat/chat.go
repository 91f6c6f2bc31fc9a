// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/components/status"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/keymap"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/messages"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/styles"
	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
)

// View represents the chat view with a composer, scrollback, and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	composer   textarea.Model
	scrollback viewport.Model
	statusbar  *status.Bar

	assistant driving.Assistant
	ctx       context.Context

	// pending is the question awaiting an answer, empty otherwise.
	pending string

	// lastAnswer keeps the latest answer for the confidence footer.
	lastAnswer *domain.Answer

	thinking bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, assistant driving.Assistant) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask about your documents..."
	ta.Focus()
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	bar := status.NewBar(s, km)
	bar.SetHints(km.ChatHelp())

	return &View{
		styles:     s,
		keymap:     km,
		composer:   ta,
		scrollback: viewport.New(80, 16),
		statusbar:  bar,
		assistant:  assistant,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	v.refreshScrollback()
	return textarea.Blink
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswerReceived(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward remaining messages to the composer
	var cmd tea.Cmd
	v.composer, cmd = v.composer.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.Clear):
		if v.assistant != nil {
			v.assistant.Reset()
		}
		v.pending = ""
		v.lastAnswer = nil
		v.err = nil
		v.statusbar.Clear()
		v.statusbar.SetMessage("Conversation cleared")
		v.refreshScrollback()
		return v, nil

	case msg.Type == tea.KeyEnter && !v.thinking:
		query := strings.TrimSpace(v.composer.Value())
		if query == "" {
			return v, nil
		}
		v.pending = query
		v.thinking = true
		v.err = nil
		v.composer.Reset()
		v.statusbar.SetState(status.StateBusy)
		v.statusbar.SetMessage("Thinking...")
		v.refreshScrollback()
		return v, v.ask(query)

	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		v.scrollback, cmd = v.scrollback.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.composer, cmd = v.composer.Update(msg)
	return v, cmd
}

// ask performs the question round-trip as an asynchronous command.
func (v *View) ask(query string) tea.Cmd {
	return func() tea.Msg {
		if v.assistant == nil {
			return messages.AnswerReceived{Origin: messages.ViewChat, Err: ErrNoAssistant}
		}

		answer, err := v.assistant.Ask(v.ctx, query)
		return messages.AnswerReceived{Answer: answer, Origin: messages.ViewChat, Err: err}
	}
}

// handleAnswerReceived processes the backend's answer.
func (v *View) handleAnswerReceived(msg messages.AnswerReceived) {
	v.thinking = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		// Restore the question so the user can retry
		v.composer.SetValue(v.pending)
		v.pending = ""
		v.refreshScrollback()
		return
	}

	v.err = nil
	v.pending = ""
	v.lastAnswer = &msg.Answer
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("Confidence %.0f%%", msg.Answer.Confidence*100))
	v.refreshScrollback()
}

// refreshScrollback re-renders the conversation into the viewport.
func (v *View) refreshScrollback() {
	v.scrollback.SetContent(v.renderConversation())
	v.scrollback.GotoBottom()
}

// renderConversation renders the session history plus any pending turn.
func (v *View) renderConversation() string {
	var history []domain.ChatMessage
	if v.assistant != nil {
		history = v.assistant.History()
	}

	if len(history) == 0 && v.pending == "" {
		return v.styles.Muted.Render("No messages yet. Type a question and press enter.")
	}

	var b strings.Builder
	for _, m := range history {
		switch m.Role {
		case domain.RoleUser:
			b.WriteString(v.styles.Subtitle.Render("You: "))
			b.WriteString(m.Content)
		case domain.RoleAssistant:
			b.WriteString(v.styles.Title.Render("Assistant: "))
			b.WriteString(m.Content)
			b.WriteString(v.renderCitations(m.Sources))
		}
		b.WriteString("\n\n")
	}

	if v.pending != "" {
		b.WriteString(v.styles.Subtitle.Render("You: "))
		b.WriteString(v.pending)
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render("Assistant is thinking..."))
		return b.String()
	}

	if v.lastAnswer != nil && !v.lastAnswer.Grounded {
		b.WriteString(v.styles.Warning.Render(
			"This answer could not be grounded in your documents.",
		))
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderCitations renders numbered source references for a turn.
func (v *View) renderCitations(sources []domain.SourceCitation) string {
	if len(sources) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range sources {
		label := c.Citation
		if label == "" {
			label = fmt.Sprintf("%s, p. %d", c.Source, c.Page)
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
			"  [%d] %s (relevance %.2f)", i+1, label, c.Relevance,
		)))
	}
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("Chat")

	scrollback := v.styles.Border.
		Width(v.scrollback.Width).
		Render(v.scrollback.View())

	composer := v.styles.InputField.
		Width(v.scrollback.Width).
		Render(v.composer.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		scrollback,
		composer,
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	// Reserve space for the header, composer, borders, and status bar
	scrollHeight := height - 12
	if scrollHeight < 3 {
		scrollHeight = 3
	}

	v.scrollback.Width = contentWidth
	v.scrollback.Height = scrollHeight
	v.composer.SetWidth(contentWidth)
	v.statusbar.SetWidth(width)
	v.refreshScrollback()
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Thinking returns whether a question is in flight.
func (v *View) Thinking() bool {
	return v.thinking
}

// Pending returns the question awaiting an answer.
func (v *View) Pending() string {
	return v.pending
}

// Composer returns the current composer text.
func (v *View) Composer() string {
	return v.composer.Value()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
