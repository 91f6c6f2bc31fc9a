// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui/styles"
	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// RecordList displays the ingestion registry in a navigable list.
type RecordList struct {
	records  []domain.DocumentRecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		records:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the record list.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render("No documents yet. Add a PDF to get started.")
	}

	lines := make([]string, 0, len(r.records)*2+2)

	// Header
	header := r.styles.Subtitle.Render(fmt.Sprintf("Documents (%d)", len(r.records)))
	lines = append(lines, header, "")

	// Calculate visible range based on height
	// A record takes 1-2 lines (entry + optional failure reason)
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.records) {
		end = len(r.records)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, &r.records[i]))
	}

	if len(r.records) > visibleCount {
		lines = append(lines, "", r.styles.Muted.Render(fmt.Sprintf(
			"  [%d-%d of %d]", start+1, end, len(r.records),
		)))
	}

	return strings.Join(lines, "\n")
}

// renderRecord formats a single registry record.
func (r *RecordList) renderRecord(index int, record *domain.DocumentRecord) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := record.DisplayName
	maxNameLen := r.width - 30
	if maxNameLen < 12 {
		maxNameLen = 12
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	glyph := r.statusGlyph(record.Status)
	entry := fmt.Sprintf("%s %-*s  %s", glyph, maxNameLen, name, record.Detail)

	var line string
	if index == r.selected {
		line = r.styles.Selected.Render(indicator + entry)
	} else {
		line = r.styles.Normal.Render(indicator) + entry
	}

	// Failed records carry the reason on a second line.
	if record.Status == domain.UploadFailed && record.FailureDetail != "" {
		line += "\n" + r.styles.Error.Render("      "+record.FailureDetail)
	}

	return line
}

// statusGlyph returns the coloured marker for a lifecycle state.
func (r *RecordList) statusGlyph(status domain.UploadStatus) string {
	switch status {
	case domain.UploadPending:
		return r.styles.Muted.Render("○")
	case domain.UploadUploading:
		return r.styles.Warning.Render("◐")
	case domain.UploadCompleted:
		return r.styles.Success.Render("●")
	case domain.UploadFailed:
		return r.styles.Error.Render("✗")
	}
	return r.styles.Muted.Render("?")
}

// SetRecords replaces the list contents. The selection follows the
// previously selected record when it is still present.
func (r *RecordList) SetRecords(records []domain.DocumentRecord) {
	var selectedID string
	if r.selected >= 0 && r.selected < len(r.records) {
		selectedID = r.records[r.selected].ID
	}

	r.records = records

	if selectedID != "" {
		for i := range records {
			if records[i].ID == selectedID {
				r.selected = i
				return
			}
		}
	}
	if r.selected >= len(records) {
		r.selected = len(records) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
}

// Records returns the current records.
func (r *RecordList) Records() []domain.DocumentRecord {
	return r.records
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RecordList) SetSelected(index int) {
	if index >= 0 && index < len(r.records) {
		r.selected = index
	}
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.DocumentRecord {
	if len(r.records) == 0 || r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *RecordList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *RecordList) Height() int {
	return r.height
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}

// IsEmpty returns whether the list is empty.
func (r *RecordList) IsEmpty() bool {
	return len(r.records) == 0
}
