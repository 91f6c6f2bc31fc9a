// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the question and answer conversation view.
	ViewChat
	// ViewDocuments is the upload manager view.
	ViewDocuments
	// ViewVoice is the audio question view.
	ViewVoice
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	case ViewVoice:
		return "voice"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// AnswerReceived carries the backend's answer to a question. Origin
// names the view that asked, so answers still reach it after the user
// navigates elsewhere while waiting.
type AnswerReceived struct {
	Answer domain.Answer
	Origin ViewType
	Err    error
}

// TranscriptReceived carries a speech-to-text result.
type TranscriptReceived struct {
	Transcription domain.Transcription
	Err           error
}

// SubmissionQueued reports the records created by a file submission.
type SubmissionQueued struct {
	Records []domain.DocumentRecord
	Err     error
}

// RecordRemoved signals a registry record was removed.
type RecordRemoved struct {
	ID  string
	Err error
}

// UploadSettled signals that one upload reached a terminal state.
type UploadSettled struct {
	Event domain.UploadEvent
}

// UploadRefused signals that intake refused a file.
type UploadRefused struct {
	Event domain.RejectionEvent
}

// SnapshotFailed signals that the startup corpus fetch failed.
type SnapshotFailed struct {
	Err error
}
