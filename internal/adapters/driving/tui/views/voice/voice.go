// Package voice provides the audio question view for the TUI.
package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/components/input"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/components/status"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/keymap"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/messages"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/styles"
	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
)

// meterFrameInterval is the animation rate of the level meter shown
// while audio is being processed.
const meterFrameInterval = 120 * time.Millisecond

// meterWidth is how many bars the level meter renders.
const meterWidth = 24

// meterTickMsg advances the level meter animation.
type meterTickMsg time.Time

// meterLevels are the bar glyphs cycled through by the animation.
var meterLevels = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '▆', '▅', '▄', '▃', '▂'}

// View represents the voice view: an audio file is transcribed or
// asked as a spoken question.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.PathInput
	statusbar *status.Bar

	assistant driving.Assistant
	ctx       context.Context

	// busy is true while an audio round-trip is in flight.
	busy  bool
	frame int

	transcript *domain.Transcription
	answer     *domain.Answer

	err    error
	width  int
	height int
	ready  bool
}

// NewView creates a new voice view.
func NewView(s *styles.Styles, km *keymap.KeyMap, assistant driving.Assistant) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.VoiceHelp())

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewPathInput(s, "Audio: ", "Path to a WAV or MP3..."),
		statusbar: bar,
		assistant: assistant,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// meterTick schedules the next animation frame.
func (v *View) meterTick() tea.Cmd {
	return tea.Tick(meterFrameInterval, func(t time.Time) tea.Msg {
		return meterTickMsg(t)
	})
}

// Update handles messages for the voice view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case meterTickMsg:
		if !v.busy {
			return v, nil
		}
		v.frame++
		return v, v.meterTick()

	case messages.AnswerReceived:
		v.handleAnswerReceived(msg)
		return v, nil

	case messages.TranscriptReceived:
		v.handleTranscriptReceived(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case msg.Type == tea.KeyEnter && !v.busy:
		path := strings.TrimSpace(v.input.Value())
		if path == "" {
			return v, nil
		}
		v.beginWork("Asking...")
		return v, tea.Batch(v.askAudio(path), v.meterTick())

	case keymap.Matches(msg.String(), v.keymap.Transcribe) && !v.busy:
		path := strings.TrimSpace(v.input.Value())
		if path == "" {
			return v, nil
		}
		v.beginWork("Transcribing...")
		return v, tea.Batch(v.transcribe(path), v.meterTick())
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// beginWork flips the view into its busy state.
func (v *View) beginWork(message string) {
	v.busy = true
	v.frame = 0
	v.err = nil
	v.transcript = nil
	v.answer = nil
	v.statusbar.SetState(status.StateBusy)
	v.statusbar.SetMessage(message)
}

// askAudio sends the audio file as a spoken question.
func (v *View) askAudio(path string) tea.Cmd {
	return func() tea.Msg {
		if v.assistant == nil {
			return messages.AnswerReceived{Origin: messages.ViewVoice, Err: ErrNoAssistant}
		}

		answer, err := v.assistant.AskAudio(v.ctx, path)
		return messages.AnswerReceived{Answer: answer, Origin: messages.ViewVoice, Err: err}
	}
}

// transcribe converts the audio file to text without asking.
func (v *View) transcribe(path string) tea.Cmd {
	return func() tea.Msg {
		if v.assistant == nil {
			return messages.TranscriptReceived{Err: ErrNoAssistant}
		}

		transcription, err := v.assistant.Transcribe(v.ctx, path)
		return messages.TranscriptReceived{Transcription: transcription, Err: err}
	}
}

// handleAnswerReceived processes the answer to a spoken question.
func (v *View) handleAnswerReceived(msg messages.AnswerReceived) {
	v.busy = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.answer = &msg.Answer
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("Confidence %.0f%%", msg.Answer.Confidence*100))
}

// handleTranscriptReceived processes a finished transcription.
func (v *View) handleTranscriptReceived(msg messages.TranscriptReceived) {
	v.busy = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.transcript = &msg.Transcription
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("Transcribed %.1fs of audio", msg.Transcription.Duration))
}

// meter renders the animated level meter.
func (v *View) meter() string {
	bars := make([]rune, meterWidth)
	for i := range bars {
		bars[i] = meterLevels[(v.frame+i)%len(meterLevels)]
	}
	return v.styles.Subtitle.Render(string(bars))
}

// renderTranscript renders the transcription result.
func (v *View) renderTranscript() string {
	t := v.transcript

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf(
		"Transcript (%s, %.1fs, confidence %.0f%%)",
		t.Language, t.Duration, t.Confidence*100,
	)))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render(t.Text))

	if len(t.Segments) > 0 {
		b.WriteString("\n")
		for _, segment := range t.Segments {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
				"  [%.1f-%.1f] %s", segment.Start, segment.End, segment.Text,
			)))
		}
	}
	return b.String()
}

// renderAnswer renders the answer to a spoken question.
func (v *View) renderAnswer() string {
	a := v.answer

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Assistant:"))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(a.Text))

	for i, source := range a.Sources {
		label := source.Citation
		if label == "" {
			label = fmt.Sprintf("%s, p. %d", source.Source, source.Page)
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d] %s", i+1, label)))
	}

	if !a.Grounded {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Warning.Render("This answer could not be grounded in your documents."))
	}
	return b.String()
}

// View renders the voice view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Voice"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Ask a spoken question, or transcribe a recording."))
	b.WriteString("\n\n")

	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.busy:
		b.WriteString(v.meter())
	case v.transcript != nil:
		b.WriteString(v.renderTranscript())
	case v.answer != nil:
		b.WriteString(v.renderAnswer())
	}

	content := lipgloss.NewStyle().
		Width(v.width - 2).
		Height(v.height - 4).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, content, v.statusbar.View())
}

// SetDimensions updates the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	contentWidth := width - 6
	if contentWidth < 20 {
		contentWidth = 20
	}
	v.input.SetWidth(contentWidth)
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view has dimensions set.
func (v *View) Ready() bool {
	return v.ready
}

// Busy returns whether an audio round-trip is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the current error state.
func (v *View) Err() error {
	return v.err
}
