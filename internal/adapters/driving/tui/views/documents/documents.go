// Package documents provides the upload manager view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/components/input"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/components/list"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/components/status"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/keymap"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/messages"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/styles"
	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
)

// refreshInterval is how often the record list is re-read from the
// ingestor. Upload progress also arrives through notifier messages,
// the tick just keeps the list honest.
const refreshInterval = time.Second

// tickMsg drives the periodic snapshot refresh.
type tickMsg time.Time

// View represents the document upload manager.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.RecordList
	input     *input.PathInput
	statusbar *status.Bar

	ingestor driving.Ingestor
	ctx      context.Context

	// focusInput routes keystrokes to the path input when true,
	// to the record list otherwise.
	focusInput bool

	err    error
	width  int
	height int
	ready  bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, ingestor driving.Ingestor) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.DocumentsHelp())

	return &View{
		styles:     s,
		keymap:     km,
		list:       list.NewRecordList(s),
		input:      input.NewPathInput(s, "Add: ", "Path to a PDF..."),
		statusbar:  bar,
		ingestor:   ingestor,
		ctx:        context.Background(),
		focusInput: true,
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and starts the refresh loop.
func (v *View) Init() tea.Cmd {
	v.refresh()
	return tea.Batch(v.input.Init(), v.tick())
}

// tick schedules the next snapshot refresh.
func (v *View) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tickMsg:
		v.refresh()
		return v, v.tick()

	case messages.SubmissionQueued:
		v.handleSubmissionQueued(msg)
		return v, nil

	case messages.RecordRemoved:
		v.handleRecordRemoved(msg)
		return v, nil

	case messages.UploadSettled:
		v.handleUploadSettled(msg.Event)
		return v, nil

	case messages.UploadRefused:
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(fmt.Sprintf("Refused %s: %s", msg.Event.Name, msg.Event.Reason))
		return v, nil

	case messages.SnapshotFailed:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(fmt.Sprintf("startup snapshot: %s", msg.Err))
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.Switch):
		v.toggleFocus()
		return v, nil
	}

	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleListKey(msg)
}

// handleInputKey processes keys while the path input has focus.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		path := strings.TrimSpace(v.input.Value())
		if path == "" {
			return v, nil
		}
		v.statusbar.SetState(status.StateBusy)
		v.statusbar.SetMessage("Queueing...")
		return v, v.submit(path)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleListKey processes keys while the record list has focus.
func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Remove):
		record := v.list.SelectedRecord()
		if record == nil {
			return v, nil
		}
		return v, v.remove(record.ID, record.DisplayName)
	}
	return v, nil
}

// toggleFocus moves focus between the path input and the record list.
func (v *View) toggleFocus() {
	v.focusInput = !v.focusInput
	if v.focusInput {
		v.input.Focus()
	} else {
		v.input.Blur()
	}
}

// submit queues a file for upload as an asynchronous command.
func (v *View) submit(path string) tea.Cmd {
	return func() tea.Msg {
		if v.ingestor == nil {
			return messages.SubmissionQueued{Err: ErrNoIngestor}
		}

		raw, err := domain.RawInputFromPath(path)
		if err != nil {
			return messages.SubmissionQueued{Err: err}
		}

		records, err := v.ingestor.Submit(v.ctx, []domain.RawInput{raw})
		return messages.SubmissionQueued{Records: records, Err: err}
	}
}

// remove deletes a registry record as an asynchronous command.
func (v *View) remove(id, name string) tea.Cmd {
	return func() tea.Msg {
		if v.ingestor == nil {
			return messages.RecordRemoved{ID: id, Err: ErrNoIngestor}
		}

		if err := v.ingestor.Remove(id); err != nil {
			return messages.RecordRemoved{ID: id, Err: fmt.Errorf("remove %s: %w", name, err)}
		}
		return messages.RecordRemoved{ID: id}
	}
}

// handleSubmissionQueued reports the outcome of a submission.
func (v *View) handleSubmissionQueued(msg messages.SubmissionQueued) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.statusbar.SetState(status.StateReady)
	if len(msg.Records) == 0 {
		// Intake refused everything, the refusal event carries the reason.
		v.statusbar.SetMessage("Nothing queued")
	} else {
		v.statusbar.SetMessage(fmt.Sprintf("Queued %d file(s)", len(msg.Records)))
	}
	v.input.Reset()
	v.refresh()
}

// handleRecordRemoved reports the outcome of a removal.
func (v *View) handleRecordRemoved(msg messages.RecordRemoved) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	name := msg.ID
	if record := v.recordByID(msg.ID); record != nil {
		name = record.DisplayName
	}
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("Removed %s", name))
	v.refresh()
}

// handleUploadSettled surfaces a terminal upload state in the status bar.
func (v *View) handleUploadSettled(event domain.UploadEvent) {
	switch event.Status {
	case domain.UploadCompleted:
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(fmt.Sprintf("Uploaded %s", event.DisplayName))
	case domain.UploadFailed:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(fmt.Sprintf("%s: %s", event.DisplayName, event.FailureDetail))
	}
	v.refresh()
}

// recordByID finds a record in the currently displayed list.
func (v *View) recordByID(id string) *domain.DocumentRecord {
	for _, record := range v.list.Records() {
		if record.ID == id {
			return &record
		}
	}
	return nil
}

// refresh re-reads the registry snapshot into the list and counters.
func (v *View) refresh() {
	if v.ingestor == nil {
		return
	}

	records := v.ingestor.Snapshot()
	v.list.SetRecords(records)

	var active, completed, failed int
	for _, record := range records {
		switch record.Status {
		case domain.UploadPending, domain.UploadUploading:
			active++
		case domain.UploadCompleted:
			completed++
		case domain.UploadFailed:
			failed++
		}
	}
	v.statusbar.SetCounts(active, completed, failed)
}

// View renders the documents view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	header := v.styles.Title.Render("Documents")
	b.WriteString(header)
	b.WriteString("\n\n")

	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	b.WriteString(v.list.View())

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
	listHeight := height - 12
	if listHeight < 4 {
		listHeight = 4
	}

	v.input.SetWidth(contentWidth)
	v.list.SetDimensions(contentWidth, listHeight)
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

// FocusOnInput returns whether keystrokes go to the path input.
func (v *View) FocusOnInput() bool {
	return v.focusInput
}

// Err returns the current error state.
func (v *View) Err() error {
	return v.err
}
