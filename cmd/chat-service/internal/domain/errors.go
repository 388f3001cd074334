package domain

import "errors"

// session
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is closed")
)

// validation
var (
	ErrInvalidFrame = errors.New("invalid message format: sessionId and message required")
	ErrInvalidRole  = errors.New("unknown sender role")
	ErrEmptyText    = errors.New("message text cannot be empty")
)

// collaborators
var (
	ErrAgentNotFound = errors.New("agent not found")
)
