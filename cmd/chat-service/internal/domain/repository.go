package domain

import (
	"context"
	"time"
)

// SessionStore 定义会话数据访问接口
// The router requires read-after-write visibility for the session it just
// mutated; implementations back this with a single primary connection.
type SessionStore interface {
	CreateSession(ctx context.Context, session *ChatSession) error
	// FindBySessionID returns ErrSessionNotFound when no session exists for id.
	FindBySessionID(ctx context.Context, id string) (*ChatSession, error)
	AppendMessage(ctx context.Context, id string, msg ChatMessage) error
	// UpdateStatusAndAgent sets both fields atomically; agentID "" clears the
	// assignment.
	UpdateStatusAndAgent(ctx context.Context, id string, status SessionStatus, agentID string) error
	ListSessions(ctx context.Context, agentID, clientID string) ([]*ChatSession, error)
}

// AgentDirectory exposes the human-agent records the router consults when
// escalating.
type AgentDirectory interface {
	// ListOnlineAgents returns online agents for a site in the directory's
	// natural order; the router's tie-break is "first entry wins".
	ListOnlineAgents(ctx context.Context, siteID string) ([]*HumanAgent, error)
	SetAgentStatus(ctx context.Context, agentID string, status AgentStatus, lastActive time.Time) error
}

// Classifier returns intent signals for a message text. Synchronous and
// side-effect free; used only as a routing signal.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Intent, error)
}
