package router

import (
	"time"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
)

// InboundFrame is what both user and agent channels send:
// {"sessionId": "...", "message": {"sender": "...", "text": "...", "timestamp": "..."}}
type InboundFrame struct {
	SessionID string              `json:"sessionId"`
	Message   *domain.ChatMessage `json:"message"`
}

// MessageFrame is the outbound shape. User-bound frames omit the session id;
// agent-bound frames carry it so the dashboard can demux conversations.
type MessageFrame struct {
	AgentAssigned bool               `json:"agentAssigned,omitempty"`
	SessionID     string             `json:"sessionId,omitempty"`
	Message       domain.ChatMessage `json:"message"`
}

type ErrorFrame struct {
	Error string `json:"error"`
}

func validateFrame(f InboundFrame) error {
	if f.SessionID == "" || f.Message == nil {
		return domain.ErrInvalidFrame
	}
	if !f.Message.Sender.Valid() {
		return domain.ErrInvalidRole
	}
	if f.Message.Text == "" {
		return domain.ErrEmptyText
	}
	return nil
}

func botMessage(text string) domain.ChatMessage {
	return domain.ChatMessage{
		Sender:    domain.RoleBot,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}
