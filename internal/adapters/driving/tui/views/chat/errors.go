package chat

import "errors"

// ErrNoAssistant is returned when the assistant service is not available.
var ErrNoAssistant = errors.New("chat: assistant service not available")
