package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driven/notify"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/messages"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/styles"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/views/chat"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/views/documents"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/views/menu"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/views/voice"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// chatView is the question and answer view component.
	chatView *chat.View

	// documentsView is the upload manager view component.
	documentsView *documents.View

	// voiceView is the audio question view component.
	voiceView *voice.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	if ports.Settings != nil {
		if settings, err := ports.Settings.Get(); err == nil {
			s = styles.NewStyles(styles.ThemeFor(string(settings.UI.Theme)))
		}
	}

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		chatView:      chat.NewView(s, nil, ports.Assistant),
		documentsView: documents.NewView(s, nil, ports.Ingestor),
		voiceView:     voice.NewView(s, nil, ports.Assistant),
		currentView:   messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.voiceView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("RAG Assistant"),
	}
	if a.ports.Uploads != nil {
		cmds = append(cmds, a.waitForUpload())
	}
	return tea.Batch(cmds...)
}

// waitForUpload blocks until the notifier produces an event and turns
// it into a Bubbletea message. Update re-arms the command after every
// delivered event, forming a receive loop.
func (a *App) waitForUpload() tea.Cmd {
	return func() tea.Msg {
		for event := range a.ports.Uploads.Events() {
			switch event.Kind {
			case notify.KindUploadFinished:
				return messages.UploadSettled{Event: event.Upload}
			case notify.KindUploadRejected:
				return messages.UploadRefused{Event: event.Rejection}
			case notify.KindSnapshotFailed:
				return messages.SnapshotFailed{Err: event.Err}
			}
		}
		return nil
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.documentsView.SetDimensions(msg.Width, msg.Height)
		a.voiceView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
			a.err = a.chatView.Err()
			return a, cmd

		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
			a.err = a.documentsView.Err()
			return a, cmd

		case messages.ViewVoice:
			a.voiceView, cmd = a.voiceView.Update(msg)
			a.err = a.voiceView.Err()
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewChat:
			// No reset: the conversation survives navigation.
			return a, a.chatView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewVoice:
			return a, a.voiceView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// No special initialisation
		}
		return a, nil

	case messages.AnswerReceived:
		// Route by origin so an answer still lands after navigation.
		if msg.Origin == messages.ViewVoice {
			a.voiceView, cmd = a.voiceView.Update(msg)
			a.err = a.voiceView.Err()
		} else {
			a.chatView, cmd = a.chatView.Update(msg)
			a.err = a.chatView.Err()
		}
		return a, cmd

	case messages.TranscriptReceived:
		a.voiceView, cmd = a.voiceView.Update(msg)
		a.err = a.voiceView.Err()
		return a, cmd

	case messages.SubmissionQueued, messages.RecordRemoved:
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.err = a.documentsView.Err()
		return a, cmd

	case messages.UploadSettled, messages.UploadRefused:
		// The documents view keeps its list and counters current even
		// while another view is on screen.
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, a.rearm(cmd)

	case messages.SnapshotFailed:
		a.err = msg.Err
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, a.rearm(cmd)

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewVoice:
			a.voiceView, cmd = a.voiceView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp:
			// Menu and help don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewVoice:
		a.voiceView, cmd = a.voiceView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// rearm chains the next notifier receive onto a view command.
func (a *App) rearm(cmd tea.Cmd) tea.Cmd {
	if a.ports.Uploads == nil {
		return cmd
	}
	if cmd == nil {
		return a.waitForUpload()
	}
	return tea.Batch(cmd, a.waitForUpload())
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewVoice:
		return a.voiceView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Chat:
  (type)      Compose a question
  enter       Send
  ctrl+r      Clear the conversation

Documents:
  tab         Switch between path input and list
  enter       Queue the entered file for upload
  j/k, ↑/↓    Navigate records
  r           Remove the selected record

Voice:
  enter       Ask the audio file as a question
  ctrl+t      Transcribe without asking

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.voiceView.SetDimensions(width, height)
}
