package domain

// ChatRole identifies who produced a conversation turn.
type ChatRole string

// Conversation roles.
const (
	// RoleUser is a question typed or spoken by the user.
	RoleUser ChatRole = "user"

	// RoleAssistant is an answer produced by the backend.
	RoleAssistant ChatRole = "assistant"
)

// IsValid returns true if the role is recognised.
func (r ChatRole) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r ChatRole) String() string {
	return string(r)
}

// ChatMessage is one turn of the session conversation. History is kept
// in memory for the lifetime of the session only.
type ChatMessage struct {
	// Role identifies the author of the turn.
	Role ChatRole

	// Content is the turn text.
	Content string

	// Sources carries the citations attached to assistant turns.
	Sources []SourceCitation
}

// AskRequest is a question sent to the backend.
type AskRequest struct {
	// Query is the question text.
	Query string

	// ConversationID threads follow-up questions, empty on the first turn.
	ConversationID string

	// QueryExpansion enables retrieval-time query expansion.
	QueryExpansion bool

	// HyDE enables hypothetical document embedding retrieval.
	HyDE bool
}

// Answer is the backend's response to a question.
type Answer struct {
	// Text is the answer body.
	Text string

	// Sources lists the corpus passages the answer was grounded on.
	Sources []SourceCitation

	// Confidence is the backend's confidence in [0, 1].
	Confidence float64

	// Grounded is false when the backend could not support the answer
	// from the corpus.
	Grounded bool

	// ConversationID identifies the server-side conversation thread.
	ConversationID string
}

// SourceCitation is one corpus passage cited by an answer.
type SourceCitation struct {
	// Source is the document the passage came from.
	Source string

	// Page is the 1-based page number within the document.
	Page int

	// Snippet is a short excerpt of the passage.
	Snippet string

	// Citation is the preformatted reference label, e.g. "report.pdf, p. 4".
	Citation string

	// Relevance is the retrieval relevance score in [0, 1].
	Relevance float64
}

// Transcription is the backend's speech-to-text result for an audio file.
type Transcription struct {
	// Text is the full transcript.
	Text string

	// Language is the detected language code, e.g. "en".
	Language string

	// Confidence is the transcription confidence in [0, 1].
	Confidence float64

	// Duration is the audio length in seconds.
	Duration float64

	// Segments are the time-aligned transcript pieces.
	Segments []TranscriptSegment
}

// TranscriptSegment is one time-aligned piece of a transcript.
type TranscriptSegment struct {
	// Start is the segment start in seconds.
	Start float64

	// End is the segment end in seconds.
	End float64

	// Text is the segment text.
	Text string
}
