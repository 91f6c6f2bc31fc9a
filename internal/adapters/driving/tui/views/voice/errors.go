package voice

import "errors"

// ErrNoAssistant is returned when the view has no assistant service wired.
var ErrNoAssistant = errors.New("voice: assistant service not available")
